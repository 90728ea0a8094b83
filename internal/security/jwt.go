package security

import (
	"bank-auth-server/config"
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/util"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// TokenTypeRefresh : значение клейма type у refresh токенов.
// Access токены клейма type не несут.
const TokenTypeRefresh = "refresh"

type Claims struct {
	UserUUID    string   `json:"user_uuid,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	Type        string   `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены на RSA паре ключей.
// Ключи неизменяемы на все время жизни процесса.
type JWTService struct {
	*config.JWTConfig
	keys *KeyPair
	now  func() time.Time
}

func NewJWTService(cfg *config.JWTConfig, keys *KeyPair) *JWTService {
	return &JWTService{cfg, keys, time.Now}
}

// WithClock подменяет источник времени (для тестов)
func (service *JWTService) WithClock(now func() time.Time) *JWTService {
	service.now = now
	return service
}

// GenerateAccessRefreshTokens выдает пару токенов для принципала.
// Access токен несет subject, issuer, iat, exp и authorities;
// refresh токен — те же регистрационные клеймы плюс type=refresh.
// Возвращает пару и запись refresh-токена для сохранения в БД.
func (service *JWTService) GenerateAccessRefreshTokens(principal *model.Principal) (*model.TokensPair, *model.RefreshToken, error) {
	accessTTL, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("ошибка парсинга access_token_ttl", err)
	}
	refreshTTL, err := time.ParseDuration(service.RefreshTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("ошибка парсинга refresh_token_ttl", err)
	}

	now := service.now()
	accessExpiresAt := now.Add(accessTTL)
	refreshExpiresAt := now.Add(refreshTTL)

	accessToken, err := service.sign(&Claims{
		UserUUID:    principal.UUID,
		Authorities: principal.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Identity,
			Issuer:    service.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
		},
	})
	if err != nil {
		return nil, nil, err
	}

	// jti делает строку токена уникальной: RS256 детерминирован, и без jti
	// два логина в одну секунду дали бы одинаковые refresh токены
	refreshToken, err := service.sign(&Claims{
		Type: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   principal.Identity,
			Issuer:    service.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
	})
	if err != nil {
		return nil, nil, err
	}

	pair := &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    model.TokenTypeBearer,
		ExpiresAt:    accessExpiresAt,
	}
	record := &model.RefreshToken{
		Token:     refreshToken,
		UserUUID:  principal.UUID,
		ExpiresAt: refreshExpiresAt,
		Revoked:   false,
	}

	return pair, record, nil
}

// GenerateClientAccessToken выдает access токен сервисному клиенту.
// Refresh токен по grant client_credentials не выдается.
func (service *JWTService) GenerateClientAccessToken(principal *model.Principal) (*model.ClientToken, error) {
	accessTTL, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка парсинга access_token_ttl", err)
	}

	now := service.now()
	expiresAt := now.Add(accessTTL)

	accessToken, err := service.sign(&Claims{
		UserUUID:    principal.UUID,
		Authorities: principal.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Identity,
			Issuer:    service.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	if err != nil {
		return nil, err
	}

	return &model.ClientToken{
		AccessToken: accessToken,
		TokenType:   model.TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

func (service *JWTService) sign(claims *Claims) (string, error) {
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := jwtToken.SignedString(service.keys.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("%w: ошибка подписи токена: %v", apperrors.ErrEncoding, err)
	}
	return signed, nil
}

// ValidateJWT проверяет подпись и структуру токена публичным ключом.
// Ревокацию refresh токенов этот метод не проверяет — она живет в БД.
func (service *JWTService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.keys.PublicKey, nil
	})

	if err != nil || !jwtToken.Valid {
		return nil, util.LogError("невалидный токен", err)
	}

	return claims, nil
}

// JWTMiddleware пропускает только запросы с валидным access токеном.
// Refresh токен в заголовке Authorization не принимается.
func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authorizationHeader := request.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, "Bearer ") {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			claims, err := jwtService.ValidateJWT(token)
			if err != nil {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Type == TokenTypeRefresh {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

// GetClaimsFromContext достает клеймы, сложенные middleware-ом
func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
