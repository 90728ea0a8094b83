package service

import (
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/ports"
	"bank-auth-server/internal/security"
	"bank-auth-server/internal/util"
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// PasswordValidator : подключаемая политика надежности пароля.
// Возвращает nil, если пароль допустим.
type PasswordValidator func(password string) error

type RegisterService struct {
	userRepository   ports.UserRepository
	clientRepository ports.ClientRepository
	clientCache      ports.ClientCache
	validatePassword PasswordValidator
}

func NewRegisterService(
	userRepository ports.UserRepository,
	clientRepository ports.ClientRepository,
	clientCache ports.ClientCache,
) *RegisterService {
	return &RegisterService{
		userRepository:   userRepository,
		clientRepository: clientRepository,
		clientCache:      clientCache,
		validatePassword: DefaultPasswordValidator,
	}
}

// WithPasswordValidator подменяет политику паролей
func (s *RegisterService) WithPasswordValidator(validator PasswordValidator) *RegisterService {
	s.validatePassword = validator
	return s
}

// RegisterUser регистрирует нового пользователя.
// Email должен быть корректным и свободным, пароль — проходить политику.
// В БД сохраняется только bcrypt хэш пароля.
func (s *RegisterService) RegisterUser(ctx context.Context, email, password, firstName, lastName string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.NewValidationError("email", "некорректный e-mail")
	}
	if firstName == "" {
		return apperrors.NewValidationError("first_name", "имя не может быть пустым")
	}
	if lastName == "" {
		return apperrors.NewValidationError("last_name", "фамилия не может быть пустой")
	}
	if err := s.validatePassword(password); err != nil {
		return apperrors.NewValidationError("password", err.Error())
	}

	exists, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return util.LogError("ошибка проверки email", err)
	}
	if exists {
		return apperrors.NewValidationError("email", "пользователь с таким e-mail уже существует")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return util.LogError("не удалось создать хэш пароля", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        []string{model.RoleUser},
	}

	if _, err := s.userRepository.CreateUser(ctx, user); err != nil {
		return util.LogError("ошибка создания пользователя", err)
	}

	return nil
}

// RegisterClient регистрирует сервисного клиента и возвращает сырой секрет.
// Секрет отдается ровно один раз: в БД попадает только его bcrypt хэш,
// восстановить секрет после регистрации невозможно.
func (s *RegisterService) RegisterClient(ctx context.Context, clientID string, scopes []string) (string, error) {
	if clientID == "" {
		return "", apperrors.NewValidationError("client_id", "client_id не может быть пустым")
	}
	if len(scopes) == 0 {
		return "", apperrors.NewValidationError("scopes", "список скоупов не может быть пустым")
	}
	for _, scope := range scopes {
		if !model.IsKnownScope(scope) {
			return "", apperrors.NewValidationError("scopes", "неизвестный скоуп: "+scope)
		}
	}

	exists, err := s.clientRepository.ExistsByClientID(ctx, clientID)
	if err != nil {
		return "", util.LogError("ошибка проверки client_id", err)
	}
	if exists {
		return "", apperrors.ErrDuplicateClient
	}

	rawSecret, err := security.GenerateClientSecret(clientID)
	if err != nil {
		return "", util.LogError("не удалось сгенерировать секрет клиента", err)
	}

	secretHash, err := security.HashPassword(rawSecret)
	if err != nil {
		return "", util.LogError("не удалось создать хэш секрета", err)
	}

	client := &model.Client{
		ClientID:   clientID,
		SecretHash: secretHash,
		Scopes:     scopes,
	}

	if err := s.clientRepository.SaveClient(ctx, client); err != nil {
		return "", util.LogError("ошибка сохранения клиента", err)
	}

	// на случай повторной регистрации того же client_id после отката
	if err := s.clientCache.DeleteClient(ctx, clientID); err != nil {
		log.Printf("не удалось сбросить кэш клиента %s: %v", clientID, err)
	}

	return rawSecret, nil
}

// DefaultPasswordValidator повторяет серверную политику паролей:
// минимум 12 символов, строчная и заглавная буквы, цифра
// и спецсимвол из набора @#$%^&+=!
func DefaultPasswordValidator(password string) error {
	if len(password) < 12 {
		return errors.New("пароль должен содержать минимум 12 символов")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("@#$%^&+=!", c):
			hasSpecial = true
		}
	}

	if !hasLower {
		return errors.New("пароль должен содержать строчную букву")
	}
	if !hasUpper {
		return errors.New("пароль должен содержать заглавную букву")
	}
	if !hasDigit {
		return errors.New("пароль должен содержать цифру")
	}
	if !hasSpecial {
		return errors.New("пароль должен содержать спецсимвол из набора @#$%^&+=!")
	}

	return nil
}
