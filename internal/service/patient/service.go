package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, ownerID string, req *model.CreatePatientRequest) (*model.Patient, error)
	ListPatients(ctx context.Context, ownerID string, page model.Pagination) (*model.PatientList, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// CreatePatient stores a patient owned by ownerID.
func (s *Service) CreatePatient(ctx context.Context, ownerID string, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := validatePatient(req); err != nil {
		return nil, err
	}

	birth, err := model.ParseDate(req.FechaNacimiento)
	if err != nil {
		return nil, apperrors.BadRequest("validation failed", err)
	}

	now := time.Now().UTC()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            req.Name,
		FechaNacimiento: birth,
		Genero:          req.Genero,
		Descripcion:     req.Descripcion,
		UserID:          ownerID,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.BadRequest("failed to create patient", err)
	}
	return patient, nil
}

// ListPatients returns one page of the patients owned by ownerID together
// with the owner's total patient count.
func (s *Service) ListPatients(ctx context.Context, ownerID string, page model.Pagination) (*model.PatientList, error) {
	patients, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	list := &model.PatientList{
		Total:    total,
		Page:     page.Page,
		Limit:    page.Limit,
		Patients: make([]model.PatientResponse, 0, len(patients)),
	}
	for _, p := range patients {
		list.Patients = append(list.Patients, p.ToResponse())
	}
	return list, nil
}

func validatePatient(req *model.CreatePatientRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Genero) == "" {
		missing = append(missing, "genero")
	}
	if strings.TrimSpace(req.FechaNacimiento) == "" {
		missing = append(missing, "fecha_nacimiento")
	}
	if len(missing) > 0 {
		return apperrors.BadRequest("validation failed", &missingFieldsError{fields: missing})
	}
	return nil
}

type missingFieldsError struct {
	fields []string
}

func (e *missingFieldsError) Error() string {
	return strings.Join(e.fields, ", ") + " required"
}
