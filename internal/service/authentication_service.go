package service

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/ports"
	"bank-auth-server/internal/security"
	"bank-auth-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

type AuthenticationService struct {
	tokenRepository  ports.TokenRepositoryInterface
	jwtService       ports.JWTServiceInterface
	userRepository   ports.UserRepository
	clientRepository ports.ClientRepository
	clientCache      ports.ClientCache
	now              func() time.Time
}

func NewAuthenticationService(
	tokenRepository ports.TokenRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	userRepository ports.UserRepository,
	clientRepository ports.ClientRepository,
	clientCache ports.ClientCache,
) *AuthenticationService {
	return &AuthenticationService{
		tokenRepository:  tokenRepository,
		jwtService:       jwtService,
		userRepository:   userRepository,
		clientRepository: clientRepository,
		clientCache:      clientCache,
		now:              time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *AuthenticationService) WithClock(now func() time.Time) *AuthenticationService {
	s.now = now
	return s
}

// Login аутентифицирует пользователя по email и паролю.
// Неизвестный email и неверный пароль дают одну и ту же ошибку
// apperrors.ErrBadCredentials: по ответу нельзя понять, существует ли
// учетная запись. Чтобы не различались и тайминги, при отсутствии
// пользователя bcrypt сверка все равно прогоняется на фиктивном хэше.
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		security.CheckPasswordDummy(password)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, util.LogError("ошибка поиска пользователя", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrBadCredentials
	}

	return s.issueForPrincipal(ctx, user.Principal())
}

// RefreshToken обменивает refresh-токен на новую пару токенов (ротация).
// Порядок операций фиксированный: сначала условный отзыв старого токена,
// только потом выдача нового. Из двух конкурентных запросов с одним
// токеном успешным будет ровно один — второй получит
// apperrors.ErrExpiredOrRevoked на условном UPDATE.
//
// Параметры:
//   - ctx: контекст выполнения (для отмены и таймаутов)
//   - refreshToken: предъявленный refresh-токен
//
// Возвращает:
//   - model.TokensPair с новой парой токенов
//   - ошибку, если токен не найден, отозван, просрочен
//     или его владелец удален
func (s *AuthenticationService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	storedToken, err := s.tokenRepository.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidToken) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, util.LogError("не удалось найти refresh токен", err)
	}

	if storedToken.Revoked || storedToken.IsExpired(s.now()) {
		log.Printf("refresh токен пользователя %s отозван или просрочен", storedToken.UserUUID)
		return nil, apperrors.ErrExpiredOrRevoked
	}

	user, err := s.userRepository.FindByUUID(ctx, storedToken.UserUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrPrincipalNotFound
		}
		return nil, util.LogError("не удалось найти владельца токена", err)
	}

	// отзыв строго до выдачи: окно, в котором валидны оба токена, исключено
	if err := s.tokenRepository.RevokeByToken(ctx, refreshToken); err != nil {
		if errors.Is(err, apperrors.ErrExpiredOrRevoked) {
			return nil, apperrors.ErrExpiredOrRevoked
		}
		return nil, util.LogError("не удалось отозвать refresh токен", err)
	}

	return s.issueForPrincipal(ctx, user.Principal())
}

// Logout отзывает все активные refresh-токены пользователя.
// Access токены доживают свой TTL, новые пары по старым refresh-токенам
// получить уже нельзя.
func (s *AuthenticationService) Logout(ctx context.Context, userUUID string) error {
	if err := s.tokenRepository.RevokeAllByUser(ctx, userUUID); err != nil {
		return fmt.Errorf("не удалось отозвать токены пользователя: %w", err)
	}
	return nil
}

// ClientCredentials аутентифицирует сервисного клиента по client_id и секрету
// и выдает access токен со скоупами клиента. Refresh токен не выдается.
// Контракт по ошибкам тот же, что у Login: одна ошибка на все случаи.
func (s *AuthenticationService) ClientCredentials(ctx context.Context, clientID, clientSecret string) (*model.ClientToken, error) {
	client, err := s.findClient(ctx, clientID)
	if err != nil {
		security.CheckPasswordDummy(clientSecret)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, util.LogError("ошибка поиска клиента", err)
	}

	if !security.CheckPassword(clientSecret, client.SecretHash) {
		return nil, apperrors.ErrBadCredentials
	}

	clientToken, err := s.jwtService.GenerateClientAccessToken(client.Principal())
	if err != nil {
		return nil, util.LogError("ошибка генерации токена клиента", err)
	}

	return clientToken, nil
}

// findClient читает клиента сквозь Redis кэш.
// Промах или недоступность кэша прозрачно уходят в БД.
func (s *AuthenticationService) findClient(ctx context.Context, clientID string) (*model.Client, error) {
	cached, err := s.clientCache.GetClient(ctx, clientID)
	if err != nil {
		log.Printf("кэш клиентов недоступен, читаем из БД: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	client, err := s.clientRepository.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := s.clientCache.SetClient(ctx, client); err != nil {
		log.Printf("не удалось положить клиента в кэш: %v", err)
	}

	return client, nil
}

func (s *AuthenticationService) issueForPrincipal(ctx context.Context, principal *model.Principal) (*model.TokensPair, error) {
	tokens, refreshToken, err := s.jwtService.GenerateAccessRefreshTokens(principal)
	if err != nil {
		return nil, util.LogError("ошибка генерации токенов", err)
	}

	if err := s.tokenRepository.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, util.LogError("ошибка сохранения refresh токена", err)
	}

	return tokens, nil
}
