// Package jwt реализует генерацию и парсинг JWT токенов доступа
// с пользовательскими claim-полями: идентификатором, email и ролью.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные, хранящиеся в токене доступа.
type CustomClaims struct {
	UID                  string `json:"uid"`   // Идентификатор участника или администратора
	Email                string `json:"email"` // Электронная почта
	Role                 string `json:"role"`  // Роль: member или admin
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга токенов доступа.
type Maker interface {
	GenerateToken(uid, email, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
