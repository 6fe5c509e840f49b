package servicerequest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
	"github.com/jwalitptl/homecare-api/pkg/metrics"
)

type fixture struct {
	repo     *mockServiceRequestRepository
	patients *mockPatientRepository
	events   *mockPublisher
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(mockServiceRequestRepository),
		patients: new(mockPatientRepository),
		events:   new(mockPublisher),
	}
	f.svc = NewService(f.repo, f.patients, f.events, metrics.New("test"))
	return f
}

func fee(v float64) *float64 { return &v }

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := &model.CreateServiceRequestRequest{
		NurseID:    "nurse-1",
		PatientIDs: []string{"p1", "p2"},
		Detalles:   "curaciones",
		Fecha:      "2024-06-01",
		Tarifa:     fee(35),
	}

	f.patients.On("CountOwned", ctx, "user-1", []string{"p1", "p2"}).Return(int64(2), nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(r *model.ServiceRequest) bool {
		return r.UserID == "user-1" &&
			r.NurseID == "nurse-1" &&
			r.Estado == model.ServiceRequestStatusPending &&
			!r.PagoRealizado && !r.PagoLiberado &&
			r.Tarifa == 35 &&
			r.Fecha.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil)
	f.events.On("Publish", ctx, mock.MatchedBy(func(e *model.ServiceRequestEvent) bool {
		return e.Type == model.EventServiceRequestCreated && e.ActorID == "user-1"
	})).Return()

	request, err := f.svc.Create(ctx, "user-1", req)
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, []string{"p1", "p2"}, request.PatientIDs)

	f.repo.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCreate_ForeignPatientIsForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.patients.On("CountOwned", ctx, "user-1", []string{"p1", "p-other"}).Return(int64(1), nil)

	_, err := f.svc.Create(ctx, "user-1", &model.CreateServiceRequestRequest{
		NurseID:    "nurse-1",
		PatientIDs: []string{"p1", "p-other"},
		Fecha:      "2024-06-01",
		Tarifa:     fee(10),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreate_DuplicatedPatientIDsAreForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.patients.On("CountOwned", ctx, "user-1", []string{"p1", "p1"}).Return(int64(1), nil)

	_, err := f.svc.Create(ctx, "user-1", &model.CreateServiceRequestRequest{
		NurseID:    "nurse-1",
		PatientIDs: []string{"p1", "p1"},
		Fecha:      "2024-06-01",
		Tarifa:     fee(10),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_InvalidFecha(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), "user-1", &model.CreateServiceRequestRequest{
		NurseID:    "nurse-1",
		PatientIDs: []string{"p1"},
		Fecha:      "01/06/2024",
		Tarifa:     fee(10),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	f.patients.AssertNotCalled(t, "CountOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_PopulatesPatients(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	page := model.Pagination{Page: 1, Limit: 10}
	filters := &model.ServiceRequestFilters{ParticipantID: "user-1", Status: model.ServiceRequestStatusPending}
	birth := time.Date(1950, 3, 2, 0, 0, 0, 0, time.UTC)

	f.repo.On("List", ctx, filters, page).Return([]*model.ServiceRequest{
		{Base: model.Base{ID: "sr1"}, UserID: "user-1", PatientIDs: []string{"p1", "p2"}},
		{Base: model.Base{ID: "sr2"}, NurseID: "user-1", PatientIDs: []string{"p2", "gone"}},
	}, nil)
	f.repo.On("Count", ctx, filters).Return(int64(7), nil)
	f.patients.On("FindByIDs", ctx, []string{"p1", "p2", "gone"}).Return([]*model.Patient{
		{Base: model.Base{ID: "p2"}, Name: "Luis", Genero: "M", FechaNacimiento: birth},
		{Base: model.Base{ID: "p1"}, Name: "Ana", Genero: "F", Descripcion: "diabetes"},
	}, nil)

	list, err := f.svc.List(ctx, "user-1", model.ServiceRequestStatusPending, page)
	require.NoError(t, err)

	assert.Equal(t, int64(7), list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.Limit)
	require.Len(t, list.Requests, 2)
	assert.Equal(t, []model.PatientSummary{
		{Name: "Ana", Genero: "F", Descripcion: "diabetes"},
		{Name: "Luis", Genero: "M", FechaNacimiento: birth},
	}, list.Requests[0].PatientIDs)
	assert.Equal(t, []model.PatientSummary{
		{Name: "Luis", Genero: "M", FechaNacimiento: birth},
	}, list.Requests[1].PatientIDs)
}

func TestList_EmptyPageSkipsPatientLookup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	page := model.Pagination{Page: 3, Limit: 10}
	filters := &model.ServiceRequestFilters{ParticipantID: "user-1"}

	f.repo.On("List", ctx, filters, page).Return([]*model.ServiceRequest{}, nil)
	f.repo.On("Count", ctx, filters).Return(int64(2), nil)

	list, err := f.svc.List(ctx, "user-1", "", page)
	require.NoError(t, err)
	assert.Empty(t, list.Requests)
	assert.Equal(t, int64(2), list.Total)
	f.patients.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestList_RepositoryFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	page := model.Pagination{Page: 1, Limit: 10}

	f.repo.On("List", ctx, mock.Anything, page).Return(nil, errors.New("connection reset"))

	_, err := f.svc.List(ctx, "user-1", "", page)
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	updated := &model.ServiceRequest{
		Base:    model.Base{ID: "sr1"},
		UserID:  "user-1",
		NurseID: "nurse-1",
		Estado:  model.ServiceRequestStatusCompleted,
	}

	f.repo.On("UpdateStatusForNurse", ctx, "sr1", "nurse-1", model.ServiceRequestStatusCompleted).Return(updated, nil)
	f.events.On("Publish", ctx, mock.MatchedBy(func(e *model.ServiceRequestEvent) bool {
		return e.Type == model.EventServiceRequestStatusChanged && e.Estado == model.ServiceRequestStatusCompleted
	})).Return()

	result, err := f.svc.UpdateStatus(ctx, "nurse-1", "sr1", model.ServiceRequestStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "service request status updated to completada", result.Message)
	assert.Same(t, updated, result.ServiceRequest)
	f.events.AssertExpectations(t)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), "nurse-1", "sr1", "cancelada")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Equal(t, "invalid status", apperrors.As(err).Message)
	f.repo.AssertNotCalled(t, "UpdateStatusForNurse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_NotTheNurse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("UpdateStatusForNurse", ctx, "sr1", "user-1", model.ServiceRequestStatusAccepted).
		Return(nil, repository.ErrNotFound)

	_, err := f.svc.UpdateStatus(ctx, "user-1", "sr1", model.ServiceRequestStatusAccepted)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetForParticipant", ctx, "sr1", "user-1").Return(&model.ServiceRequest{
		Base:       model.Base{ID: "sr1"},
		PatientIDs: []string{"p1", "gone"},
	}, nil)
	f.repo.On("GetForParticipant", ctx, "sr1", "stranger").Return(nil, repository.ErrNotFound)
	f.repo.On("GetForParticipant", ctx, "sr2", "user-1").Return(nil, errors.New("timeout"))
	f.patients.On("FindByIDs", ctx, []string{"p1", "gone"}).Return([]*model.Patient{
		{Base: model.Base{ID: "p1"}, Name: "Ana", Genero: "F"},
	}, nil)

	request, err := f.svc.Get(ctx, "user-1", "sr1")
	require.NoError(t, err)
	assert.Equal(t, "sr1", request.ID)
	require.Len(t, request.PatientIDs, 1)
	assert.Equal(t, "Ana", request.PatientIDs[0].Name)
	assert.Equal(t, "F", request.PatientIDs[0].Genero)

	_, err = f.svc.Get(ctx, "stranger", "sr1")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = f.svc.Get(ctx, "user-1", "sr2")
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal))
}

func TestGet_PatientLookupFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetForParticipant", ctx, "sr1", "user-1").Return(&model.ServiceRequest{
		Base:       model.Base{ID: "sr1"},
		PatientIDs: []string{"p1"},
	}, nil)
	f.patients.On("FindByIDs", ctx, []string{"p1"}).Return(nil, errors.New("timeout"))

	_, err := f.svc.Get(ctx, "user-1", "sr1")
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal))
}
