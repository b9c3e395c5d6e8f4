package models

import "time"

// Допустимые классы и назначения одноразовых токенов.
const (
	// TokenPrefixB1 токен филиала b1.
	TokenPrefixB1 = "b1"
	// TokenPrefixB2 токен филиала b2.
	TokenPrefixB2 = "b2"

	// TokenPurposeRegistration токен для регистрации нового участника.
	TokenPurposeRegistration = "registration"
	// TokenPurposePasswordReset токен для сброса пароля.
	TokenPurposePasswordReset = "password-reset"
)

// AllowedTokenPrefixes список классов токенов, которые принимает система.
// Токены любых других классов считаются несуществующими.
var AllowedTokenPrefixes = []string{TokenPrefixB1, TokenPrefixB2}

// AccessToken представляет одноразовый токен, выписанный администратором.
// Жизненный цикл: unused -> reserved(email) -> consumed, либо unused -> consumed
// напрямую в сценарии сброса пароля. Состояние consumed терминально.
// Метаданные резервирования хранятся в Metadata до финального погашения.
type AccessToken struct {
	ID        int            `json:"id"`
	Token     string         `json:"token"`      // Значение токена (уникальное)
	Prefix    string         `json:"prefix"`     // Класс токена: b1 или b2
	Purpose   string         `json:"purpose"`    // registration или password-reset
	CreatedBy string         `json:"created_by"` // UID администратора, выписавшего токен
	IsUsed    bool           `json:"is_used"`
	UsedBy    *string        `json:"used_by,omitempty"`
	UsedAt    *time.Time     `json:"used_at,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// ReservedFor возвращает email, за которым зарезервирован токен,
// либо пустую строку, если резервирования не было.
func (t *AccessToken) ReservedFor() string {
	if t.Metadata == nil {
		return ""
	}
	email, _ := t.Metadata["reserved_for"].(string)
	return email
}
