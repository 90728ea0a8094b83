package security

import (
	"bank-auth-server/internal/apperrors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хэширует секрет через bcrypt со встроенной случайной солью.
// Один и тот же секрет дает разные хэши при каждом вызове.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: не удалось вычислить bcrypt хэш: %v", apperrors.ErrEncoding, err)
	}
	return string(hash), nil
}

// CheckPassword сверяет секрет с хэшем. Несовпадение — это false, а не ошибка.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash : заранее посчитанный bcrypt хэш для выравнивания времени ответа,
// когда пользователь не найден. Сверка всегда проигрывается, но стоит столько же.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CheckPasswordDummy прогоняет bcrypt сверку против фиктивного хэша.
// Всегда возвращает false.
func CheckPasswordDummy(password string) bool {
	bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return false
}
