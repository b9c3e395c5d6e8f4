package models

import "time"

// MembershipPlan представляет тарифный план клуба.
// Длительность задаётся в целых календарных месяцах.
type MembershipPlan struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	DurationMonths int       `json:"duration_months"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"` // active или inactive
	Branch         string    `json:"branch"` // Филиал, которому принадлежит план
	CreatedAt      time.Time `json:"created_at"`
}

// DummyPlan используется для приёма данных тарифного плана из JSON-запроса.
type DummyPlan struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	DurationMonths int     `json:"duration_months" validate:"required,gt=0"`
	Description    string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Branch         string  `json:"branch" validate:"required,oneof=b1 b2"`
}
