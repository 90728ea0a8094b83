package handler

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model/requestresponse"
	"bank-auth-server/internal/ports"
	"bank-auth-server/internal/util"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

type RegisterHandler struct {
	ports.RegisterService
}

func NewRegisterHandler(registerService ports.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService}
}

// RegisterUser godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись. Пароль должен проходить политику надежности
// @Tags Register
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterUserRequest true "Тело запроса"
// @Success 201 "Пользователь создан"
// @Failure 400 {object} requestresponse.ValidationErrorResponse "Ошибки валидации по полям"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/register [post]
func (h *RegisterHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.RegisterService.RegisterUser(ctx, req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		writeRegisterError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RegisterClient godoc
// @Summary Регистрация сервисного клиента
// @Description Создает machine-to-machine клиента и возвращает сырой секрет. Секрет показывается ровно один раз
// @Tags Register
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterClientRequest true "Тело запроса"
// @Success 201 {object} requestresponse.RegisterClientResponse "client_id и сырой секрет"
// @Failure 400 {object} requestresponse.ValidationErrorResponse "Ошибки валидации по полям"
// @Failure 409 {object} requestresponse.ErrorResponse "client_id уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/register/client [post]
func (h *RegisterHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	rawSecret, err := h.RegisterService.RegisterClient(ctx, req.ClientID, req.Scopes)
	if err != nil {
		writeRegisterError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.RegisterClientResponse{
		ClientID:     req.ClientID,
		ClientSecret: rawSecret,
	})
}

// writeRegisterError : ошибки валидации отдаются с деталями по полям,
// остальное — без внутренностей
func writeRegisterError(w http.ResponseWriter, err error) {
	if validationErr, ok := apperrors.AsValidation(err); ok {
		util.WriteJSON(w, http.StatusBadRequest, requestresponse.ValidationErrorResponse{
			Errors: validationErr.Messages,
		})
		return
	}
	if errors.Is(err, apperrors.ErrDuplicateClient) {
		util.HandleError(w, "клиент с таким client_id уже существует", http.StatusConflict)
		return
	}

	log.Println(err)
	util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
}
