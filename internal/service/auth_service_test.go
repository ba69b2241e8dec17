package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/typerush-api/internal/domain/entity"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-key", 1, 60)
	require.NoError(t, err)
	return jwtService
}

func TestAuthService_RegisterUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)

	userRepo.On("GetByEmail", "new@example.com").Return(nil, errors.New("record not found"))
	userRepo.On("GetByUsername", "newbie").Return(nil, errors.New("record not found"))
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = 1
	}).Return(nil)

	svc, err := NewAuthService(userRepo, newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.RegisterUser("newbie", "NEW@Example.com ", "secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	// Email нормализуется перед сохранением
	assert.Equal(t, "new@example.com", resp.User.Email)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)

	userRepo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: 5}, nil)

	svc, err := NewAuthService(userRepo, newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.RegisterUser("someone", "taken@example.com", "secret123")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_RegisterUser_ShortPassword(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.RegisterUser("someone", "a@b.com", "123")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &entity.User{ID: 1, Email: "u@example.com", Password: string(hash)}

	userRepo.On("GetByEmail", "u@example.com").Return(user, nil)

	svc, err := NewAuthService(userRepo, newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.LoginUser("u@example.com", "wrong")

	assert.Nil(t, resp)
	// Ошибка не раскрывает, что именно неверно
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginUser_GuestHasNoPassword(t *testing.T) {
	userRepo := new(MockUserRepository)

	guest := &entity.User{ID: 2, Email: "guest_abc@guest.typerush.local", IsGuest: true}
	userRepo.On("GetByEmail", "guest_abc@guest.typerush.local").Return(guest, nil)

	svc, err := NewAuthService(userRepo, newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.LoginUser("guest_abc@guest.typerush.local", "")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_CreateGuest(t *testing.T) {
	userRepo := new(MockUserRepository)

	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = 3
	}).Return(nil)

	svc, err := NewAuthService(userRepo, newTestJWTService(t))
	require.NoError(t, err)

	resp, err := svc.CreateGuest("Вася")

	require.NoError(t, err)
	assert.True(t, resp.User.IsGuest)
	assert.NotEmpty(t, resp.Token)
	// Имя получает уникальный суффикс
	assert.Contains(t, resp.User.Username, "Вася_")
}
