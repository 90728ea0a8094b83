package security

import (
	"bank-auth-server/internal/util"
	"crypto/rsa"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair : ключи подписи токенов. Загружаются один раз при старте процесса
// и не меняются до его завершения — горячей ротации ключей нет.
type KeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// LoadKeyPair читает RSA ключи из PEM файлов по путям из конфигурации
func LoadKeyPair(privateKeyPath, publicKeyPath string) (*KeyPair, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, util.LogError("не удалось прочитать файл приватного ключа", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, util.LogError("не удалось разобрать приватный ключ", err)
	}

	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, util.LogError("не удалось прочитать файл публичного ключа", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, util.LogError("не удалось разобрать публичный ключ", err)
	}

	return &KeyPair{PrivateKey: privateKey, PublicKey: publicKey}, nil
}
