package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

func patientDoc(id, owner, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "fecha_nacimiento", Value: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "genero", Value: "F"},
		{Key: "descripcion", Value: "-"},
		{Key: "user_id", Value: owner},
	}
}

func serviceRequestDoc(id, userID, nurseID string, estado model.ServiceRequestStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user_id", Value: userID},
		{Key: "nurse_id", Value: nurseID},
		{Key: "patient_ids", Value: bson.A{"p1"}},
		{Key: "estado", Value: string(estado)},
		{Key: "tarifa", Value: 25.5},
	}
}

func mustMarshal(mt *mtest.T, v interface{}) []byte {
	mt.Helper()
	b, err := bson.Marshal(v)
	require.NoError(mt, err)
	return b
}

func TestPatientRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewPatientRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(context.Background(), &model.Patient{Base: model.Base{ID: "p1"}, Name: "Ana", UserID: "u1"})
		assert.NoError(mt, err)
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		repo := NewPatientRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.patients", mtest.FirstBatch,
			patientDoc("p1", "u1", "Ana"),
			patientDoc("p2", "u1", "Luis"),
		))

		patients, err := repo.ListByOwner(context.Background(), "u1", model.Pagination{Page: 1, Limit: 10})
		require.NoError(mt, err)
		require.Len(mt, patients, 2)
		assert.Equal(mt, "Ana", patients[0].Name)
		assert.Equal(mt, "p1", patients[0].ID)
		assert.Equal(mt, "u1", patients[1].UserID)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, bson.Raw(mustMarshal(mt, creationOrder)), find.Command.Lookup("sort").Document())
	})

	mt.Run("count owned", func(mt *mtest.T) {
		repo := NewPatientRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.patients", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(1)}},
		))

		count, err := repo.CountOwned(context.Background(), "u1", []string{"p1", "p2"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), count)
	})

	mt.Run("find by ids skips the round trip for an empty set", func(mt *mtest.T) {
		repo := NewPatientRepository(mt.DB)

		patients, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, patients)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate usuario", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &model.User{Base: model.Base{ID: "u1"}, Usuario: "ana"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.users", mtest.FirstBatch))

		_, err := repo.GetByUsuario(context.Background(), "nobody")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestServiceRequestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get for participant", func(mt *mtest.T) {
		repo := NewServiceRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.service_requests", mtest.FirstBatch,
			serviceRequestDoc("sr1", "u1", "n1", model.ServiceRequestStatusPending),
		))

		request, err := repo.GetForParticipant(context.Background(), "sr1", "n1")
		require.NoError(mt, err)
		assert.Equal(mt, "sr1", request.ID)
		assert.Equal(mt, []string{"p1"}, request.PatientIDs)
		assert.Equal(mt, model.ServiceRequestStatusPending, request.Estado)
	})

	mt.Run("update status returns updated document", func(mt *mtest.T) {
		repo := NewServiceRequestRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: serviceRequestDoc("sr1", "u1", "n1", model.ServiceRequestStatusCompleted)},
		})

		request, err := repo.UpdateStatusForNurse(context.Background(), "sr1", "n1", model.ServiceRequestStatusCompleted)
		require.NoError(mt, err)
		assert.Equal(mt, model.ServiceRequestStatusCompleted, request.Estado)
	})

	mt.Run("update status by another nurse is not found", func(mt *mtest.T) {
		repo := NewServiceRequestRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: nil},
		})

		_, err := repo.UpdateStatusForNurse(context.Background(), "sr1", "someone-else", model.ServiceRequestStatusAccepted)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("list sorts oldest first", func(mt *mtest.T) {
		repo := NewServiceRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.service_requests", mtest.FirstBatch,
			serviceRequestDoc("sr1", "u1", "n1", model.ServiceRequestStatusPending),
		))

		requests, err := repo.List(context.Background(), &model.ServiceRequestFilters{ParticipantID: "u1"}, model.Pagination{Page: 2, Limit: 5})
		require.NoError(mt, err)
		require.Len(mt, requests, 1)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, bson.Raw(mustMarshal(mt, creationOrder)), find.Command.Lookup("sort").Document())
		assert.Equal(mt, int64(5), find.Command.Lookup("skip").AsInt64())
	})

	mt.Run("count with status filter", func(mt *mtest.T) {
		repo := NewServiceRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "homecare.service_requests", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		count, err := repo.Count(context.Background(), &model.ServiceRequestFilters{
			ParticipantID: "u1",
			Status:        model.ServiceRequestStatusAccepted,
		})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), count)
	})
}

func TestListFilter(t *testing.T) {
	filter := listFilter(&model.ServiceRequestFilters{ParticipantID: "u1"})
	assert.NotContains(t, filter, "estado")
	assert.Contains(t, filter, "$or")

	filter = listFilter(&model.ServiceRequestFilters{ParticipantID: "u1", Status: model.ServiceRequestStatusRejected})
	assert.Equal(t, model.ServiceRequestStatusRejected, filter["estado"])
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates indexes for every collection", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		assert.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})
}
