package models

import "time"

// Announcement объявление клуба для участников.
type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyAnnouncement входные данные объявления из JSON-запроса.
type DummyAnnouncement struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Body  string `json:"body" validate:"required"`
}

// DietPlan план питания: назначение, категория и список пунктов.
type DietPlan struct {
	ID        int       `json:"id"`
	Purpose   string    `json:"purpose"`
	Category  string    `json:"category"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyDietPlan входные данные плана питания из JSON-запроса.
type DummyDietPlan struct {
	Purpose  string   `json:"purpose" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Items    []string `json:"items" validate:"required,min=1"`
}

// Workout упражнение из каталога тренировок.
type Workout struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyWorkout входные данные упражнения из JSON-запроса.
type DummyWorkout struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	MuscleGroup string `json:"muscle_group" validate:"required"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ActivityRecord запись журнала действий для аудита.
type ActivityRecord struct {
	ID           int            `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
