package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

// serviceRequestRow adds the array column the model keeps out of sqlx mapping.
type serviceRequestRow struct {
	model.ServiceRequest
	PatientIDs pq.StringArray `db:"patient_ids"`
}

func (row *serviceRequestRow) toModel() *model.ServiceRequest {
	request := row.ServiceRequest
	request.PatientIDs = []string(row.PatientIDs)
	if request.PatientIDs == nil {
		request.PatientIDs = []string{}
	}
	return &request
}

type serviceRequestRepository struct {
	BaseRepository
}

func NewServiceRequestRepository(db *sqlx.DB) repository.ServiceRequestRepository {
	return &serviceRequestRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *model.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (
			id, user_id, nurse_id, patient_ids, estado, detalles, fecha, tarifa,
			pago_realizado, pago_liberado, documentacion, observaciones, recomendaciones,
			created_at, updated_at
		) VALUES (
			:id, :user_id, :nurse_id, :patient_ids, :estado, :detalles, :fecha, :tarifa,
			:pago_realizado, :pago_liberado, :documentacion, :observaciones, :recomendaciones,
			:created_at, :updated_at
		)
	`
	row := serviceRequestRow{ServiceRequest: *request, PatientIDs: pq.StringArray(request.PatientIDs)}
	if _, err := r.db.NamedExecContext(ctx, query, &row); err != nil {
		return fmt.Errorf("failed to create service request: %w", translateError(err))
	}
	return nil
}

func (r *serviceRequestRepository) GetForParticipant(ctx context.Context, id, participantID string) (*model.ServiceRequest, error) {
	query := `
		SELECT * FROM service_requests
		WHERE id = $1 AND (user_id = $2 OR nurse_id = $2)
	`
	var row serviceRequestRow
	if err := r.db.GetContext(ctx, &row, query, id, participantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return row.toModel(), nil
}

func (r *serviceRequestRepository) List(ctx context.Context, filters *model.ServiceRequestFilters, page model.Pagination) ([]*model.ServiceRequest, error) {
	where, args := buildFilterClause(filters)
	query := fmt.Sprintf(`
		SELECT * FROM service_requests
		%s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Size(), page.Skip())

	var rows []serviceRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	requests := make([]*model.ServiceRequest, 0, len(rows))
	for i := range rows {
		requests = append(requests, rows[i].toModel())
	}
	return requests, nil
}

func (r *serviceRequestRepository) Count(ctx context.Context, filters *model.ServiceRequestFilters) (int64, error) {
	where, args := buildFilterClause(filters)

	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM service_requests "+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count service requests: %w", err)
	}
	return count, nil
}

func (r *serviceRequestRepository) UpdateStatusForNurse(ctx context.Context, id, nurseID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET estado = $1, updated_at = $2
		WHERE id = $3 AND nurse_id = $4
		RETURNING *
	`
	var row serviceRequestRow
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &row, query, status, time.Now().UTC(), id, nurseID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update service request status: %w", err)
	}
	return row.toModel(), nil
}

func buildFilterClause(filters *model.ServiceRequestFilters) (string, []interface{}) {
	where := "WHERE (user_id = $1 OR nurse_id = $1)"
	args := []interface{}{filters.ParticipantID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	return where, args
}
