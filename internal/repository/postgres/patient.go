package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, name, fecha_nacimiento, genero, descripcion, user_id, created_at, updated_at)
		VALUES (:id, :name, :fecha_nacimiento, :genero, :descripcion, :user_id, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", translateError(err))
	}
	return nil
}

func (r *patientRepository) ListByOwner(ctx context.Context, ownerID string, page model.Pagination) ([]*model.Patient, error) {
	query := `
		SELECT * FROM patients
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, ownerID, page.Size(), page.Skip()); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE user_id = $1`, ownerID); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	query := `SELECT COUNT(*) FROM patients WHERE user_id = $1 AND id = ANY($2)`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, ownerID, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("failed to count owned patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Patient, error) {
	patients := []*model.Patient{}
	if len(ids) == 0 {
		return patients, nil
	}
	if err := r.db.SelectContext(ctx, &patients, `SELECT * FROM patients WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to find patients: %w", err)
	}
	return patients, nil
}
