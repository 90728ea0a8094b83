package service_test

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/security"
	"bank-auth-server/internal/service"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

// MockTokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if t, ok := args.Get(0).(*model.RefreshToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenRepository) RevokeByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) RevokeAllByUser(ctx context.Context, userUUID string) error {
	args := m.Called(ctx, userUUID)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessRefreshTokens(principal *model.Principal) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(principal)

	var tokens *model.TokensPair
	if t := args.Get(0); t != nil {
		tokens = t.(*model.TokensPair)
	}

	var refresh *model.RefreshToken
	if r := args.Get(1); r != nil {
		refresh = r.(*model.RefreshToken)
	}

	return tokens, refresh, args.Error(2)
}

func (m *MockJWTService) GenerateClientAccessToken(principal *model.Principal) (*model.ClientToken, error) {
	args := m.Called(principal)
	if t, ok := args.Get(0).(*model.ClientToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ValidateJWT(tokenString string) (*security.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByClientID(ctx context.Context, clientID string) (*model.Client, error) {
	args := m.Called(ctx, clientID)
	if c, ok := args.Get(0).(*model.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientRepository) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

// MockClientCache
type MockClientCache struct {
	mock.Mock
}

func (m *MockClientCache) SetClient(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientCache) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	args := m.Called(ctx, clientID)
	if c, ok := args.Get(0).(*model.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientCache) DeleteClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// ===== HELPERS =====

type authMocks struct {
	tokenRepo  *MockTokenRepository
	jwtService *MockJWTService
	userRepo   *MockUserRepository
	clientRepo *MockClientRepository
	cache      *MockClientCache
}

func newTestAuthService() (*service.AuthenticationService, *authMocks) {
	mocks := &authMocks{
		tokenRepo:  new(MockTokenRepository),
		jwtService: new(MockJWTService),
		userRepo:   new(MockUserRepository),
		clientRepo: new(MockClientRepository),
		cache:      new(MockClientCache),
	}

	svc := service.NewAuthenticationService(
		mocks.tokenRepo,
		mocks.jwtService,
		mocks.userRepo,
		mocks.clientRepo,
		mocks.cache,
	)

	return svc, mocks
}

func storedUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		UUID:         "u1",
		Email:        "a@b.com",
		PasswordHash: hash,
		Roles:        []string{model.RoleUser},
	}
}

// ===== LOGIN =====

func TestLogin_UserNotFound(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(nil, sql.ErrNoRows)

	_, err := svc.Login(ctx, "a@b.com", "Correct#Pass1")

	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
	mocks.userRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(storedUser(t, "Correct#Pass1"), nil)

	_, err := svc.Login(ctx, "a@b.com", "Wrong#Pass1")

	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
	mocks.userRepo.AssertExpectations(t)
}

// Неизвестный email и неверный пароль наружу неразличимы
func TestLogin_FailuresLookIdentical(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.userRepo.On("FindByEmail", ctx, "missing@b.com").Return(nil, sql.ErrNoRows)
	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(storedUser(t, "Correct#Pass1"), nil)

	_, errMissing := svc.Login(ctx, "missing@b.com", "Correct#Pass1")
	_, errWrong := svc.Login(ctx, "a@b.com", "Wrong#Pass1")

	assert.Equal(t, errMissing, errWrong)
}

func TestLogin_GenerateTokensError(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(storedUser(t, "Correct#Pass1"), nil)
	mocks.jwtService.On("GenerateAccessRefreshTokens", mock.Anything).
		Return(nil, nil, errors.New("token error"))

	_, err := svc.Login(ctx, "a@b.com", "Correct#Pass1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка генерации токенов")
	mocks.jwtService.AssertExpectations(t)
}

func TestLogin_SaveRefreshTokenError(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref", TokenType: model.TokenTypeBearer}
	refresh := &model.RefreshToken{Token: "ref", UserUUID: "u1", ExpiresAt: time.Now().Add(24 * time.Hour)}

	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(storedUser(t, "Correct#Pass1"), nil)
	mocks.jwtService.On("GenerateAccessRefreshTokens", mock.Anything).Return(tokens, refresh, nil)
	mocks.tokenRepo.On("SaveRefreshToken", ctx, refresh).Return(errors.New("db error"))

	_, err := svc.Login(ctx, "a@b.com", "Correct#Pass1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка сохранения refresh токена")
	mocks.tokenRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref", TokenType: model.TokenTypeBearer}
	refresh := &model.RefreshToken{Token: "ref", UserUUID: "u1", ExpiresAt: time.Now().Add(24 * time.Hour)}

	mocks.userRepo.On("FindByEmail", ctx, "a@b.com").Return(storedUser(t, "Correct#Pass1"), nil)
	mocks.jwtService.On("GenerateAccessRefreshTokens", mock.MatchedBy(func(p *model.Principal) bool {
		return p.Kind == model.PrincipalUser && p.Identity == "a@b.com" && p.UUID == "u1"
	})).Return(tokens, refresh, nil)
	mocks.tokenRepo.On("SaveRefreshToken", ctx, refresh).Return(nil)

	result, err := svc.Login(ctx, "a@b.com", "Correct#Pass1")

	assert.NoError(t, err)
	assert.Equal(t, tokens, result)
	mocks.userRepo.AssertExpectations(t)
	mocks.jwtService.AssertExpectations(t)
	mocks.tokenRepo.AssertExpectations(t)
}

// ===== REFRESH =====

func TestRefreshToken_NotFound(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("FindByToken", ctx, "unknown").Return(nil, apperrors.ErrInvalidToken)

	_, err := svc.RefreshToken(ctx, "unknown")

	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshToken_Revoked(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("FindByToken", ctx, "ref").Return(&model.RefreshToken{
		Token:     "ref",
		UserUUID:  "u1",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}, nil)

	_, err := svc.RefreshToken(ctx, "ref")

	assert.ErrorIs(t, err, apperrors.ErrExpiredOrRevoked)
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("FindByToken", ctx, "ref").Return(&model.RefreshToken{
		Token:     "ref",
		UserUUID:  "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
		Revoked:   false,
	}, nil)

	_, err := svc.RefreshToken(ctx, "ref")

	assert.ErrorIs(t, err, apperrors.ErrExpiredOrRevoked)
}

func TestRefreshToken_OwnerGone(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("FindByToken", ctx, "ref").Return(&model.RefreshToken{
		Token:     "ref",
		UserUUID:  "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	mocks.userRepo.On("FindByUUID", ctx, "u1").Return(nil, sql.ErrNoRows)

	_, err := svc.RefreshToken(ctx, "ref")

	assert.ErrorIs(t, err, apperrors.ErrPrincipalNotFound)
}

// Конкурентный запрос успел отозвать токен первым: условный UPDATE
// ничего не задел, ротация отклоняется
func TestRefreshToken_LostRevocationRace(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("FindByToken", ctx, "ref").Return(&model.RefreshToken{
		Token:     "ref",
		UserUUID:  "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	mocks.userRepo.On("FindByUUID", ctx, "u1").Return(storedUser(t, "Correct#Pass1"), nil)
	mocks.tokenRepo.On("RevokeByToken", ctx, "ref").Return(apperrors.ErrExpiredOrRevoked)

	_, err := svc.RefreshToken(ctx, "ref")

	assert.ErrorIs(t, err, apperrors.ErrExpiredOrRevoked)
	mocks.jwtService.AssertNotCalled(t, "GenerateAccessRefreshTokens", mock.Anything)
}

// Отзыв старого токена обязан идти до выдачи нового
func TestRefreshToken_RevokesBeforeIssuing(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	var order []string
	tokens := &model.TokensPair{AccessToken: "acc2", RefreshToken: "ref2", TokenType: model.TokenTypeBearer}
	newRecord := &model.RefreshToken{Token: "ref2", UserUUID: "u1", ExpiresAt: time.Now().Add(time.Hour)}

	mocks.tokenRepo.On("FindByToken", ctx, "ref").Return(&model.RefreshToken{
		Token:     "ref",
		UserUUID:  "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	mocks.userRepo.On("FindByUUID", ctx, "u1").Return(storedUser(t, "Correct#Pass1"), nil)
	mocks.tokenRepo.On("RevokeByToken", ctx, "ref").Run(func(args mock.Arguments) {
		order = append(order, "revoke")
	}).Return(nil)
	mocks.jwtService.On("GenerateAccessRefreshTokens", mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, "generate")
	}).Return(tokens, newRecord, nil)
	mocks.tokenRepo.On("SaveRefreshToken", ctx, newRecord).Run(func(args mock.Arguments) {
		order = append(order, "save")
	}).Return(nil)

	result, err := svc.RefreshToken(ctx, "ref")

	require.NoError(t, err)
	assert.Equal(t, tokens, result)
	assert.Equal(t, []string{"revoke", "generate", "save"}, order)
}

// ===== LOGOUT =====

func TestLogout(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("RevokeAllByUser", ctx, "u1").Return(nil)

	err := svc.Logout(ctx, "u1")

	assert.NoError(t, err)
	mocks.tokenRepo.AssertExpectations(t)
}

func TestLogout_RepositoryError(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.tokenRepo.On("RevokeAllByUser", ctx, "u1").Return(errors.New("db error"))

	err := svc.Logout(ctx, "u1")

	assert.Error(t, err)
}

// ===== CLIENT CREDENTIALS =====

func storedClient(t *testing.T, secret string) *model.Client {
	t.Helper()
	hash, err := security.HashPassword(secret)
	require.NoError(t, err)
	return &model.Client{
		ClientID:   "svc-1",
		SecretHash: hash,
		Scopes:     []string{model.ScopeRead, model.ScopeWrite},
	}
}

func TestClientCredentials_UnknownClient(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.cache.On("GetClient", ctx, "svc-1").Return(nil, nil)
	mocks.clientRepo.On("FindByClientID", ctx, "svc-1").Return(nil, sql.ErrNoRows)

	_, err := svc.ClientCredentials(ctx, "svc-1", "secret")

	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
}

func TestClientCredentials_WrongSecret(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	client := storedClient(t, "right-secret")
	mocks.cache.On("GetClient", ctx, "svc-1").Return(client, nil)

	_, err := svc.ClientCredentials(ctx, "svc-1", "wrong-secret")

	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
	mocks.clientRepo.AssertNotCalled(t, "FindByClientID", mock.Anything, mock.Anything)
}

func TestClientCredentials_CacheMissFallsBackToDB(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	client := storedClient(t, "right-secret")
	clientToken := &model.ClientToken{AccessToken: "acc", TokenType: model.TokenTypeBearer}

	mocks.cache.On("GetClient", ctx, "svc-1").Return(nil, nil)
	mocks.clientRepo.On("FindByClientID", ctx, "svc-1").Return(client, nil)
	mocks.cache.On("SetClient", ctx, client).Return(nil)
	mocks.jwtService.On("GenerateClientAccessToken", mock.MatchedBy(func(p *model.Principal) bool {
		return p.Kind == model.PrincipalClient && p.Identity == "svc-1"
	})).Return(clientToken, nil)

	result, err := svc.ClientCredentials(ctx, "svc-1", "right-secret")

	require.NoError(t, err)
	assert.Equal(t, clientToken, result)
	mocks.cache.AssertExpectations(t)
	mocks.clientRepo.AssertExpectations(t)
}

// Недоступный Redis не ломает аутентификацию клиентов
func TestClientCredentials_CacheDown(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	client := storedClient(t, "right-secret")
	clientToken := &model.ClientToken{AccessToken: "acc", TokenType: model.TokenTypeBearer}

	mocks.cache.On("GetClient", ctx, "svc-1").Return(nil, errors.New("redis down"))
	mocks.clientRepo.On("FindByClientID", ctx, "svc-1").Return(client, nil)
	mocks.cache.On("SetClient", ctx, client).Return(errors.New("redis down"))
	mocks.jwtService.On("GenerateClientAccessToken", mock.Anything).Return(clientToken, nil)

	result, err := svc.ClientCredentials(ctx, "svc-1", "right-secret")

	require.NoError(t, err)
	assert.Equal(t, clientToken, result)
}
