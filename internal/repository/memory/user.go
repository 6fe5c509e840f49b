package memory

import (
	"context"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.ID == user.ID || u.Usuario == user.Usuario {
			return repository.ErrDuplicate
		}
	}
	stored := *user
	r.store.users = append(r.store.users, &stored)
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *userRepository) GetByUsuario(ctx context.Context, usuario string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Usuario == usuario })
}

func (r *userRepository) find(match func(*model.User) bool) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}
