package memory

import (
	"context"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.patients {
		if p.ID == patient.ID {
			return repository.ErrDuplicate
		}
	}
	stored := *patient
	r.store.patients = append(r.store.patients, &stored)
	return nil
}

func (r *patientRepository) ListByOwner(ctx context.Context, ownerID string, page model.Pagination) ([]*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var owned []*model.Patient
	for _, p := range r.store.patients {
		if p.UserID == ownerID {
			owned = append(owned, p)
		}
	}

	start, end := window(len(owned), page)
	patients := make([]*model.Patient, 0, end-start)
	for _, p := range owned[start:end] {
		copied := *p
		patients = append(patients, &copied)
	}
	return patients, nil
}

func (r *patientRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, p := range r.store.patients {
		if p.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *patientRepository) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var count int64
	for _, p := range r.store.patients {
		if _, ok := wanted[p.ID]; ok && p.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *patientRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	patients := []*model.Patient{}
	for _, p := range r.store.patients {
		if _, ok := wanted[p.ID]; ok {
			copied := *p
			patients = append(patients, &copied)
		}
	}
	return patients, nil
}
