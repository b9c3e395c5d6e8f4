package models

import "time"

// OTPMessage сообщение с одноразовым кодом для отправки по почте.
type OTPMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Admin представляет учётную запись администратора клуба.
type Admin struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // Роль, всегда admin
	GymName      string    `json:"gym_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
