package handler

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model/requestresponse"
	"bank-auth-server/internal/ports"
	"bank-auth-server/internal/security"
	"bank-auth-server/internal/util"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдача пары access/refresh токенов по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 201 {object} requestresponse.LoginResponse "Пара токенов"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Аутентификация не пройдена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		util.HandleError(w, "email и password обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresAt.Unix(),
	})
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Обмен refresh-токена на новую пару. Токен одноразовый: после обмена он отзывается
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 201 {object} requestresponse.LoginResponse "Новая пара токенов"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустое поле"
// @Failure 401 {object} requestresponse.ErrorResponse "Токен не найден, отозван или просрочен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" {
		util.HandleError(w, "refresh_token обязателен", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresAt.Unix(),
	})
}

// Logout godoc
// @Summary Завершение всех сессий пользователя
// @Description Отзывает все активные refresh-токены текущего пользователя
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 204 "Сессии завершены"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/logout [put]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationService.Logout(ctx, claims.UserUUID); err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClientToken godoc
// @Summary Выдача токена сервисному клиенту
// @Description Grant client_credentials: access токен по client_id и секрету, без refresh-токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ClientTokenRequest true "Тело запроса"
// @Success 201 {object} requestresponse.ClientTokenResponse "Access токен"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Аутентификация не пройдена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/oauth/token [post]
func (h *AuthenticationHandler) ClientToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.ClientTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.ClientID == "" || req.ClientSecret == "" {
		util.HandleError(w, "client_id и client_secret обязательны", http.StatusBadRequest)
		return
	}

	clientToken, err := h.AuthenticationService.ClientCredentials(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.ClientTokenResponse{
		AccessToken: clientToken.AccessToken,
		TokenType:   clientToken.TokenType,
		ExpiresIn:   clientToken.ExpiresAt.Unix(),
	})
}

// GetCurrentUser godoc
// @Summary Информация о текущем пользователе
// @Description Возвращает UUID, subject и authorities из access токена
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.UserUUID
	resp.Response.Subject = claims.Subject
	resp.Response.Authorities = claims.Authorities

	util.WriteJSON(w, http.StatusOK, resp)
}

// writeAuthError переводит ошибки аутентификации в единый 401 без деталей.
// Наружу не уходит, какая именно проверка не прошла.
func writeAuthError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, apperrors.ErrBadCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrExpiredOrRevoked),
		errors.Is(err, apperrors.ErrPrincipalNotFound):
		util.HandleError(w, "не удалось авторизовать", http.StatusUnauthorized)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
