package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

type serviceRequestRepository struct {
	store *Store
}

func NewServiceRequestRepository(store *Store) repository.ServiceRequestRepository {
	return &serviceRequestRepository{store: store}
}

func cloneServiceRequest(r *model.ServiceRequest) *model.ServiceRequest {
	copied := *r
	copied.PatientIDs = append([]string{}, r.PatientIDs...)
	return &copied
}

func matches(r *model.ServiceRequest, filters *model.ServiceRequestFilters) bool {
	if !r.IsParticipant(filters.ParticipantID) {
		return false
	}
	return filters.Status == "" || r.Estado == filters.Status
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *model.ServiceRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.serviceRequests {
		if existing.ID == request.ID {
			return repository.ErrDuplicate
		}
	}
	r.store.serviceRequests = append(r.store.serviceRequests, cloneServiceRequest(request))
	return nil
}

func (r *serviceRequestRepository) GetForParticipant(ctx context.Context, id, participantID string) (*model.ServiceRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, existing := range r.store.serviceRequests {
		if existing.ID == id && existing.IsParticipant(participantID) {
			return cloneServiceRequest(existing), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *serviceRequestRepository) List(ctx context.Context, filters *model.ServiceRequestFilters, page model.Pagination) ([]*model.ServiceRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*model.ServiceRequest
	for _, existing := range r.store.serviceRequests {
		if matches(existing, filters) {
			matched = append(matched, existing)
		}
	}

	start, end := window(len(matched), page)
	requests := make([]*model.ServiceRequest, 0, end-start)
	for _, existing := range matched[start:end] {
		requests = append(requests, cloneServiceRequest(existing))
	}
	return requests, nil
}

func (r *serviceRequestRepository) Count(ctx context.Context, filters *model.ServiceRequestFilters) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, existing := range r.store.serviceRequests {
		if matches(existing, filters) {
			count++
		}
	}
	return count, nil
}

func (r *serviceRequestRepository) UpdateStatusForNurse(ctx context.Context, id, nurseID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.serviceRequests {
		if existing.ID == id && existing.NurseID == nurseID {
			existing.Estado = status
			existing.UpdatedAt = time.Now().UTC()
			return cloneServiceRequest(existing), nil
		}
	}
	return nil, repository.ErrNotFound
}
