package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/homecare-api/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id string) (*model.User, error)
		GetByUsuario(ctx context.Context, usuario string) (*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		ListByOwner(ctx context.Context, ownerID string, page model.Pagination) ([]*model.Patient, error)
		CountByOwner(ctx context.Context, ownerID string) (int64, error)
		// CountOwned counts the distinct patients among ids owned by ownerID.
		CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
		// FindByIDs returns the patients that exist among ids, in any order.
		FindByIDs(ctx context.Context, ids []string) ([]*model.Patient, error)
	}

	ServiceRequestRepository interface {
		Create(ctx context.Context, request *model.ServiceRequest) error
		// GetForParticipant finds a request whose requester or nurse is participantID.
		GetForParticipant(ctx context.Context, id, participantID string) (*model.ServiceRequest, error)
		List(ctx context.Context, filters *model.ServiceRequestFilters, page model.Pagination) ([]*model.ServiceRequest, error)
		Count(ctx context.Context, filters *model.ServiceRequestFilters) (int64, error)
		// UpdateStatusForNurse atomically sets the status of the request keyed by
		// (id, nurseID) and returns the updated record.
		UpdateStatusForNurse(ctx context.Context, id, nurseID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error)
	}
)
