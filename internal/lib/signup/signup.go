// Package signup реализует подписанный артефакт продолжения регистрации:
// короткоживущий JWT, связывающий email с зарезервированным одноразовым токеном.
// Артефакт выдаётся при резервировании токена и обязателен для завершения
// регистрации. Сам по себе он не одноразовый: однократность обеспечивает
// флаг is_used у токена в хранилище.
package signup

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL срок действия артефакта продолжения.
const DefaultTTL = 30 * time.Minute

// Claims связывает email заявителя с зарезервированным токеном и его классом.
type Claims struct {
	Email                string `json:"email"`
	TokenID              int    `json:"token_id"`
	Prefix               string `json:"prefix"`
	jwt.RegisteredClaims        // ExpiresAt ограничивает окно завершения регистрации
}

// Maker выпускает и проверяет артефакты продолжения регистрации.
type Maker struct {
	secretKey string
	ttl       time.Duration
}

// NewMaker создаёт Maker с заданным секретом и сроком действия.
// При нулевом ttl используется DefaultTTL.
func NewMaker(secretKey string, ttl time.Duration) *Maker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Maker{secretKey: secretKey, ttl: ttl}
}

// Issue выпускает подписанный артефакт для email и зарезервированного токена.
func (m *Maker) Issue(email string, tokenID int, prefix string) (string, error) {
	const op = "signup.Issue"
	claims := Claims{
		Email:   email,
		TokenID: tokenID,
		Prefix:  prefix,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Verify проверяет подпись и срок действия артефакта и возвращает его содержимое.
func (m *Maker) Verify(tokenStr string) (*Claims, error) {
	const op = "signup.Verify"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid continuation token", op)
	}
	return claims, nil
}
