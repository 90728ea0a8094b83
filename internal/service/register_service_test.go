package service_test

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/security"
	"bank-auth-server/internal/service"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegisterService() (*service.RegisterService, *authMocks) {
	mocks := &authMocks{
		userRepo:   new(MockUserRepository),
		clientRepo: new(MockClientRepository),
		cache:      new(MockClientCache),
	}
	svc := service.NewRegisterService(mocks.userRepo, mocks.clientRepo, mocks.cache)
	return svc, mocks
}

// ===== REGISTER USER =====

func TestRegisterUser_InvalidEmail(t *testing.T) {
	svc, _ := newTestRegisterService()

	err := svc.RegisterUser(context.Background(), "не email", "Correct#Pass1", "Иван", "Петров")

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "email", validationErr.Messages[0].Field)
}

func TestRegisterUser_WeakPassword(t *testing.T) {
	svc, _ := newTestRegisterService()

	err := svc.RegisterUser(context.Background(), "a@b.com", "short", "Иван", "Петров")

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "password", validationErr.Messages[0].Field)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	svc, mocks := newTestRegisterService()
	ctx := context.Background()

	mocks.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(true, nil)

	err := svc.RegisterUser(ctx, "a@b.com", "Correct#Pass1", "Иван", "Петров")

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "email", validationErr.Messages[0].Field)
	mocks.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterUser_Success(t *testing.T) {
	svc, mocks := newTestRegisterService()
	ctx := context.Background()

	var created *model.User
	mocks.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(false, nil)
	mocks.userRepo.On("CreateUser", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.User)
	}).Return(&model.User{}, nil)

	err := svc.RegisterUser(ctx, "a@b.com", "Correct#Pass1", "Иван", "Петров")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "a@b.com", created.Email)
	assert.NotEmpty(t, created.UUID)
	assert.Equal(t, []string{model.RoleUser}, []string(created.Roles))

	// в БД уходит только хэш, и он сверяется с исходным паролем
	assert.NotEqual(t, "Correct#Pass1", created.PasswordHash)
	assert.True(t, security.CheckPassword("Correct#Pass1", created.PasswordHash))
}

func TestRegisterUser_CustomPasswordPolicy(t *testing.T) {
	svc, mocks := newTestRegisterService()
	svc.WithPasswordValidator(func(password string) error {
		if len(password) < 4 {
			return errors.New("слишком короткий")
		}
		return nil
	})
	ctx := context.Background()

	mocks.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(false, nil)
	mocks.userRepo.On("CreateUser", ctx, mock.Anything).Return(&model.User{}, nil)

	// пароль не проходит дефолтную политику, но проходит подключенную
	err := svc.RegisterUser(ctx, "a@b.com", "пароль", "Иван", "Петров")
	assert.NoError(t, err)
}

func TestDefaultPasswordValidator(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"валидный", "Correct#Pass1", false},
		{"короткий", "C#p1", true},
		{"без заглавной", "correct#pass1", true},
		{"без строчной", "CORRECT#PASS1", true},
		{"без цифры", "Correct#Passw", true},
		{"без спецсимвола", "CorrectPass12", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.DefaultPasswordValidator(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ===== REGISTER CLIENT =====

func TestRegisterClient_EmptyClientID(t *testing.T) {
	svc, _ := newTestRegisterService()

	_, err := svc.RegisterClient(context.Background(), "", []string{model.ScopeRead})

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "client_id", validationErr.Messages[0].Field)
}

func TestRegisterClient_EmptyScopes(t *testing.T) {
	svc, _ := newTestRegisterService()

	_, err := svc.RegisterClient(context.Background(), "svc-1", nil)

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "scopes", validationErr.Messages[0].Field)
}

func TestRegisterClient_UnknownScope(t *testing.T) {
	svc, _ := newTestRegisterService()

	_, err := svc.RegisterClient(context.Background(), "svc-1", []string{"DELETE_EVERYTHING"})

	validationErr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "scopes", validationErr.Messages[0].Field)
}

func TestRegisterClient_Duplicate(t *testing.T) {
	svc, mocks := newTestRegisterService()
	ctx := context.Background()

	mocks.clientRepo.On("ExistsByClientID", ctx, "svc-1").Return(true, nil)

	_, err := svc.RegisterClient(ctx, "svc-1", []string{model.ScopeRead, model.ScopeWrite})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateClient)
	mocks.clientRepo.AssertNotCalled(t, "SaveClient", mock.Anything, mock.Anything)
}

func TestRegisterClient_Success(t *testing.T) {
	svc, mocks := newTestRegisterService()
	ctx := context.Background()

	var saved *model.Client
	mocks.clientRepo.On("ExistsByClientID", ctx, "svc-1").Return(false, nil)
	mocks.clientRepo.On("SaveClient", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*model.Client)
	}).Return(nil)
	mocks.cache.On("DeleteClient", ctx, "svc-1").Return(nil)

	rawSecret, err := svc.RegisterClient(ctx, "svc-1", []string{model.ScopeRead, model.ScopeWrite})

	require.NoError(t, err)
	assert.NotEmpty(t, rawSecret)
	require.NotNil(t, saved)
	assert.Equal(t, "svc-1", saved.ClientID)
	assert.Equal(t, []string{model.ScopeRead, model.ScopeWrite}, []string(saved.Scopes))

	// сырой секрет нигде не сохранен, но хэш с ним сверяется
	assert.NotEqual(t, rawSecret, saved.SecretHash)
	assert.True(t, security.CheckPassword(rawSecret, saved.SecretHash))
}
