package servicerequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
	"github.com/jwalitptl/homecare-api/internal/service/event"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
	"github.com/jwalitptl/homecare-api/pkg/metrics"
)

var ErrInvalidStatus = errors.New("invalid status")

type Service struct {
	repo        repository.ServiceRequestRepository
	patientRepo repository.PatientRepository
	events      event.Publisher
	metrics     *metrics.Metrics
}

func NewService(repo repository.ServiceRequestRepository, patientRepo repository.PatientRepository, events event.Publisher, m *metrics.Metrics) *Service {
	if events == nil {
		events = event.Noop{}
	}
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		events:      events,
		metrics:     m,
	}
}

// Create books a pending request from callerID for the given nurse. Every
// patient id must name a patient owned by the caller; otherwise nothing is
// stored and a Forbidden error is returned.
func (s *Service) Create(ctx context.Context, callerID string, req *model.CreateServiceRequestRequest) (*model.ServiceRequest, error) {
	if len(req.PatientIDs) == 0 {
		return nil, apperrors.BadRequest("validation failed", errors.New("patient_ids required"))
	}
	if req.Tarifa == nil || *req.Tarifa < 0 {
		return nil, apperrors.BadRequest("validation failed", errors.New("tarifa must be a non-negative number"))
	}

	fecha, err := model.ParseDate(req.Fecha)
	if err != nil {
		return nil, apperrors.BadRequest("validation failed", err)
	}

	owned, err := s.patientRepo.CountOwned(ctx, callerID, req.PatientIDs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	// duplicated ids are counted once, so they are rejected here as well
	if owned < int64(len(req.PatientIDs)) {
		return nil, apperrors.Forbidden("one or more patients do not belong to the user", nil)
	}

	now := time.Now().UTC()
	request := &model.ServiceRequest{
		Base: model.Base{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     callerID,
		NurseID:    req.NurseID,
		PatientIDs: append([]string{}, req.PatientIDs...),
		Estado:     model.ServiceRequestStatusPending,
		Detalles:   req.Detalles,
		Fecha:      fecha,
		Tarifa:     *req.Tarifa,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, apperrors.BadRequest("failed to create service request", err)
	}

	log.Info().
		Str("service_request_id", request.ID).
		Str("user_id", callerID).
		Str("nurse_id", request.NurseID).
		Msg("service request created")

	s.events.Publish(ctx, &model.ServiceRequestEvent{
		Type:             model.EventServiceRequestCreated,
		ServiceRequestID: request.ID,
		UserID:           request.UserID,
		NurseID:          request.NurseID,
		Estado:           request.Estado,
		ActorID:          callerID,
		OccurredAt:       now,
	})

	return request, nil
}

// List returns one page of the requests where callerID is requester or
// nurse, with patient ids expanded into patient summaries.
func (s *Service) List(ctx context.Context, callerID string, status model.ServiceRequestStatus, page model.Pagination) (*model.ServiceRequestList, error) {
	filters := &model.ServiceRequestFilters{
		ParticipantID: callerID,
		Status:        status,
	}

	requests, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	details, err := s.populate(ctx, requests)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.ServiceRequestList{
		Total:    total,
		Page:     page.Page,
		Limit:    page.Limit,
		Requests: details,
	}, nil
}

// Get returns the request when callerID takes part in it, with patient ids
// expanded like List does. A request the caller cannot see is reported as
// not found.
func (s *Service) Get(ctx context.Context, callerID, id string) (*model.ServiceRequestDetail, error) {
	request, err := s.repo.GetForParticipant(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service request", nil)
		}
		return nil, apperrors.Internal(err)
	}

	details, err := s.populate(ctx, []*model.ServiceRequest{request})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &details[0], nil
}

// UpdateStatus sets the status of a request assigned to callerID as nurse.
// Any of the four statuses may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, callerID, id string, status model.ServiceRequestStatus) (*model.ServiceRequestStatusUpdate, error) {
	if !status.IsValid() {
		return nil, apperrors.BadRequest(ErrInvalidStatus.Error(), nil)
	}

	request, err := s.repo.UpdateStatusForNurse(ctx, id, callerID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service request", nil)
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.ServiceRequestStatus.WithLabelValues(string(status)).Inc()
	}

	s.events.Publish(ctx, &model.ServiceRequestEvent{
		Type:             model.EventServiceRequestStatusChanged,
		ServiceRequestID: request.ID,
		UserID:           request.UserID,
		NurseID:          request.NurseID,
		Estado:           request.Estado,
		ActorID:          callerID,
		OccurredAt:       request.UpdatedAt,
	})

	return &model.ServiceRequestStatusUpdate{
		Message:        fmt.Sprintf("service request status updated to %s", status),
		ServiceRequest: request,
	}, nil
}

// populate resolves the patient ids of all requests with a single lookup.
// Ids without a matching patient are left out of the summaries.
func (s *Service) populate(ctx context.Context, requests []*model.ServiceRequest) ([]model.ServiceRequestDetail, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range requests {
		for _, id := range r.PatientIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[string]*model.Patient, len(ids))
	if len(ids) > 0 {
		patients, err := s.patientRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range patients {
			byID[p.ID] = p
		}
	}

	details := make([]model.ServiceRequestDetail, 0, len(requests))
	for _, r := range requests {
		summaries := make([]model.PatientSummary, 0, len(r.PatientIDs))
		for _, id := range r.PatientIDs {
			if p, ok := byID[id]; ok {
				summaries = append(summaries, p.Summary())
			}
		}
		details = append(details, model.ServiceRequestDetail{
			ServiceRequest: *r,
			PatientIDs:     summaries,
		})
	}
	return details, nil
}
