package security

import (
	"bank-auth-server/internal/apperrors"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

const clientSecretRandomBytes = 24

// GenerateClientSecret генерирует сырой секрет для сервисного клиента.
// 24 случайных байта склеиваются с client_id, прогоняются через SHA-256,
// первые 24 байта дайджеста кодируются в base64. Символы, небезопасные
// для заголовков и URL, заменяются, выравнивание '=' убирается.
//
// Секрет отдается вызывающему ровно один раз — в БД сохраняется только
// bcrypt хэш, восстановить секрет после регистрации невозможно.
func GenerateClientSecret(clientID string) (string, error) {
	randomBytes := make([]byte, clientSecretRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("%w: не удалось получить случайные байты для client_id %q: %v", apperrors.ErrEncoding, clientID, err)
	}

	combined := make([]byte, 0, len(clientID)+len(randomBytes))
	combined = append(combined, []byte(clientID)...)
	combined = append(combined, randomBytes...)

	digest := sha256.Sum256(combined)

	secret := base64.StdEncoding.EncodeToString(digest[:clientSecretRandomBytes])
	secret = strings.NewReplacer(
		`\`, "#",
		"-", "^",
		"_", "$",
		"/", "@",
		"=", "",
	).Replace(secret)

	return secret, nil
}
