package servicerequest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/homecare-api/internal/model"
)

type mockServiceRequestRepository struct {
	mock.Mock
}

func (m *mockServiceRequestRepository) Create(ctx context.Context, request *model.ServiceRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *mockServiceRequestRepository) GetForParticipant(ctx context.Context, id, participantID string) (*model.ServiceRequest, error) {
	args := m.Called(ctx, id, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceRequest), args.Error(1)
}

func (m *mockServiceRequestRepository) List(ctx context.Context, filters *model.ServiceRequestFilters, page model.Pagination) ([]*model.ServiceRequest, error) {
	args := m.Called(ctx, filters, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ServiceRequest), args.Error(1)
}

func (m *mockServiceRequestRepository) Count(ctx context.Context, filters *model.ServiceRequestFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRequestRepository) UpdateStatusForNurse(ctx context.Context, id, nurseID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	args := m.Called(ctx, id, nurseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceRequest), args.Error(1)
}

type mockPatientRepository struct {
	mock.Mock
}

func (m *mockPatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *mockPatientRepository) ListByOwner(ctx context.Context, ownerID string, page model.Pagination) ([]*model.Patient, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Patient), args.Error(1)
}

func (m *mockPatientRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPatientRepository) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPatientRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Patient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Patient), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *model.ServiceRequestEvent) {
	m.Called(ctx, event)
}
