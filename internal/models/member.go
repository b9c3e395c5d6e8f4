// Package models содержит доменные структуры системы управления фитнес-клубом:
// участники, администраторы, тарифные планы, одноразовые токены и платежи.
// Вспомогательные Dummy-типы используются для приёма данных из JSON-запросов
// до их валидации и преобразования в доменные структуры.
package models

import "time"

// MembershipStatusDefault статус нового участника до назначения плана.
const MembershipStatusDefault = "inactive"

// Membership описывает окно действия абонемента участника.
// Статус — производная величина от дат окна и текущего момента,
// хранится только как кеш и пересчитывается при чтении.
type Membership struct {
	PlanID    *int      `json:"plan_id"`    // Ссылка на тарифный план (nil, если план не назначен)
	StartDate time.Time `json:"start_date"` // Дата начала действия абонемента (полночь)
	EndDate   time.Time `json:"end_date"`   // Дата окончания действия абонемента
	Status    string    `json:"status"`     // Кешированный статус: inactive, active, expiring, expired
}

// Member представляет зарегистрированного участника клуба.
type Member struct {
	UID          string     `json:"uid"`       // Уникальный идентификатор участника
	FullName     string     `json:"full_name"` // Полное имя
	Email        string     `json:"email"`     // Электронная почта (уникальная)
	Phone        string     `json:"phone"`     // Телефон
	PasswordHash string     `json:"-"`         // Хэш пароля
	Branch       string     `json:"branch"`    // Филиал клуба: b1 или b2
	Height       float64    `json:"height"`    // Рост, см
	Weight       float64    `json:"weight"`    // Текущий вес, кг
	Gender       string     `json:"gender"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      string     `json:"address"`
	Role         string     `json:"role"` // Роль участника, всегда member
	Membership   Membership `json:"membership"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DummyMember используется для приёма анкеты нового участника из JSON-запроса.
// Филиал не принимается из запроса при регистрации по токену:
// его определяет класс токена.
type DummyMember struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    string  `json:"phone" validate:"required"`
	Height   float64 `json:"height" validate:"required,gt=0"`
	Weight   float64 `json:"weight" validate:"required,gt=0"`
	Gender   string  `json:"gender" validate:"required,oneof=male female other"`
	DOB      string  `json:"dob" validate:"required"` // Дата рождения строкой, парсится вручную
	Address  string  `json:"address" validate:"required"`
}

// WeightRecord одна запись истории веса участника.
type WeightRecord struct {
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MemberInfo урезанное представление участника для уведомлений об истечении абонемента.
type MemberInfo struct {
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	PlanName string    `json:"plan_name"`
	EndDate  time.Time `json:"end_date"`
}
