package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
	"github.com/jwalitptl/homecare-api/pkg/auth"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
	"github.com/jwalitptl/homecare-api/pkg/security"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsuario(ctx context.Context, usuario string) (*model.User, error) {
	args := m.Called(ctx, usuario)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newService(t *testing.T, repo *mockUserRepository) (*Service, auth.JWTService, security.PasswordHasher) {
	t.Helper()
	jwtSvc, err := auth.NewJWTService("test-secret", 0)
	require.NoError(t, err)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewService(repo, jwtSvc, hasher), jwtSvc, hasher
}

func TestRegister(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _, hasher := newService(t, repo)
	ctx := context.Background()

	repo.On("GetByUsuario", ctx, "ana").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.Register(ctx, &model.RegisterRequest{Nombre: "Ana", Usuario: "ana", Password: "s3cretpass"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.UserNotVerified, user.Verificado)
	assert.NotEqual(t, "s3cretpass", user.Password)
	assert.NoError(t, hasher.Compare(user.Password, "s3cretpass"))
}

func TestRegister_TakenUsuario(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _, _ := newService(t, repo)
	ctx := context.Background()

	repo.On("GetByUsuario", ctx, "ana").Return(&model.User{Usuario: "ana"}, nil)

	_, err := svc.Register(ctx, &model.RegisterRequest{Nombre: "Ana", Usuario: "ana", Password: "s3cretpass"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RaceOnCreate(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _, _ := newService(t, repo)
	ctx := context.Background()

	repo.On("GetByUsuario", ctx, "ana").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(ctx, &model.RegisterRequest{Nombre: "Ana", Usuario: "ana", Password: "s3cretpass"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestLogin(t *testing.T) {
	repo := new(mockUserRepository)
	svc, jwtSvc, hasher := newService(t, repo)
	ctx := context.Background()

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	repo.On("GetByUsuario", ctx, "ana").Return(&model.User{Base: model.Base{ID: "user-1"}, Usuario: "ana", Password: hash}, nil)

	resp, err := svc.Login(ctx, &model.LoginRequest{Usuario: "ana", Password: "s3cretpass"})
	require.NoError(t, err)

	userID, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _, hasher := newService(t, repo)
	ctx := context.Background()

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	repo.On("GetByUsuario", ctx, "ana").Return(&model.User{Base: model.Base{ID: "user-1"}, Password: hash}, nil)
	repo.On("GetByUsuario", ctx, "nobody").Return(nil, repository.ErrNotFound)
	repo.On("GetByUsuario", ctx, "broken").Return(nil, errors.New("server selection timeout"))

	_, err = svc.Login(ctx, &model.LoginRequest{Usuario: "ana", Password: "wrongpass"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.Login(ctx, &model.LoginRequest{Usuario: "nobody", Password: "whatever1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.Login(ctx, &model.LoginRequest{Usuario: "broken", Password: "whatever1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal))
}
