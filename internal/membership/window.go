// Package membership реализует вычисление окна действия абонемента:
// нормализацию даты начала, расчёт даты окончания и вывод статуса.
// Все функции чистые и не выполняют I/O; сохранение результата — задача вызывающего.
package membership

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Статусы окна абонемента в порядке приоритета вывода:
// inactive (план не назначен или начало в будущем) > expired > expiring > active.
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
	StatusExpiring = "expiring"
	StatusExpired  = "expired"
)

// ExpiringLookahead окно предупреждения: абонемент считается истекающим,
// если дата окончания попадает в [now, now+7d] включительно.
const ExpiringLookahead = 7 * 24 * time.Hour

// Ошибки вычисления окна абонемента.
var (
	// ErrStartDateRequired дата начала не передана.
	ErrStartDateRequired = errors.New("membership start date is required")
	// ErrInvalidStartDate дату начала не удалось разобрать ни в одном из форматов.
	ErrInvalidStartDate = errors.New("invalid membership start date")
	// ErrInvalidDuration длительность плана не является положительным числом месяцев.
	ErrInvalidDuration = errors.New("membership plan duration must be greater than zero")
)

// Window описывает вычисленное окно действия абонемента.
type Window struct {
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// Counts агрегированные счётчики по участникам для панели администратора.
// Inactive сворачивается в Expired: это соглашение отчётности, не эквивалентность статусов.
type Counts struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
}

// NormalizeStartDate принимает дату начала абонемента в одном из форматов:
// time.Time, RFC3339, ISO (2006-01-02) либо "день-первый" DD-MM-YYYY
// с разделителями "-", "/" или ".". Клиенты присылают и машинные ISO-метки,
// и введённые вручную строки, поэтому поддерживаются оба семейства форматов.
// Время суток усекается до полуночи локального времени.
// Несуществующие календарные даты (31-04-2024) отклоняются, а не переносятся вперёд.
func NormalizeStartDate(input any) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrStartDateRequired
		}
		return midnight(v), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, ErrStartDateRequired
		}
		return midnight(*v), nil
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, ErrStartDateRequired
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return midnight(t), nil
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return midnight(t), nil
		}
		return parseDayFirst(raw)
	case nil:
		return time.Time{}, ErrStartDateRequired
	default:
		return time.Time{}, ErrInvalidStartDate
	}
}

// parseDayFirst разбирает строку формата DD-MM-YYYY и проверяет,
// что компоненты образуют реальную календарную дату.
func parseDayFirst(raw string) (time.Time, error) {
	normalized := strings.NewReplacer("/", "-", ".", "-").Replace(raw)
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidStartDate
	}

	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, ErrInvalidStartDate
	}
	if day < 1 || month < 1 || month > 12 || year < 1970 {
		return time.Time{}, ErrInvalidStartDate
	}

	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if candidate.Year() != year || candidate.Month() != time.Month(month) || candidate.Day() != day {
		return time.Time{}, ErrInvalidStartDate
	}
	return candidate, nil
}

// ComputeEndDate прибавляет к дате начала durationMonths целых календарных месяцев.
// Используется семантика time.AddDate: при переполнении дня месяца дата
// нормализуется вперёд (31 января + 1 месяц = 2 или 3 марта). Это правило
// зафиксировано намеренно и покрыто тестами, а не "исправляется" молча.
func ComputeEndDate(start time.Time, durationMonths int) (time.Time, error) {
	if durationMonths <= 0 {
		return time.Time{}, ErrInvalidDuration
	}
	return start.AddDate(0, durationMonths, 0), nil
}

// DeriveStatus вычисляет статус окна как чистую функцию от (now, start, end).
// Порядок приоритета: inactive при отсутствии дат или будущем начале,
// затем expired, затем expiring, по умолчанию active.
func DeriveStatus(now, start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return StatusInactive
	}
	if now.Before(start) {
		return StatusInactive
	}
	if now.After(end) {
		return StatusExpired
	}
	if !end.After(now.Add(ExpiringLookahead)) {
		return StatusExpiring
	}
	return StatusActive
}

// BuildWindow единственная точка входа для назначения или обновления абонемента:
// нормализует дату начала, считает дату окончания и выводит статус относительно
// текущего момента.
func BuildWindow(startInput any, durationMonths int) (Window, error) {
	start, err := NormalizeStartDate(startInput)
	if err != nil {
		return Window{}, err
	}
	end, err := ComputeEndDate(start, durationMonths)
	if err != nil {
		return Window{}, err
	}
	return Window{
		StartDate: start,
		EndDate:   end,
		Status:    DeriveStatus(time.Now(), start, end),
	}, nil
}

// CountFleet пересчитывает статусы по всем участникам на момент now,
// игнорируя сохранённый в записи статус: он мог устареть.
func CountFleet(members []*models.Member, now time.Time) Counts {
	counts := Counts{Total: len(members)}
	for _, m := range members {
		switch DeriveStatus(now, m.Membership.StartDate, m.Membership.EndDate) {
		case StatusActive:
			counts.Active++
		case StatusExpiring:
			counts.ExpiringSoon++
		default:
			// inactive попадает в expired по соглашению отчётности
			counts.Expired++
		}
	}
	return counts
}

func midnight(t time.Time) time.Time {
	d := t.In(time.Local)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
}
