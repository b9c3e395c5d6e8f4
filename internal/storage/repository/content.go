package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreateAnnouncement сохраняет объявление и возвращает его ID.
func (s *Storage) CreateAnnouncement(ctx context.Context, a models.Announcement) (int, error) {
	const op = "storage.CreateAnnouncement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO announcements (title, body, created_by)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, a.Title, a.Body, a.CreatedBy).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAnnouncements возвращает объявления, новые первыми.
func (s *Storage) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	const op = "storage.ListAnnouncements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, COALESCE(created_by::text, ''), created_at
			  FROM announcements
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveAnnouncement удаляет объявление и возвращает количество удалённых строк.
func (s *Storage) RemoveAnnouncement(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveAnnouncement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CreateDietPlan сохраняет план питания и возвращает его ID.
func (s *Storage) CreateDietPlan(ctx context.Context, d models.DietPlan) (int, error) {
	const op = "storage.CreateDietPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(d.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO diet_plans (purpose, category, items)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, d.Purpose, d.Category, items).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListDietPlans возвращает планы питания, опционально фильтруя по назначению и категории.
func (s *Storage) ListDietPlans(ctx context.Context, purpose, category string) ([]*models.DietPlan, error) {
	const op = "storage.ListDietPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, purpose, category, items, created_at
			  FROM diet_plans
			  WHERE ($1 = '' OR purpose = $1) AND ($2 = '' OR category = $2)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, purpose, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DietPlan
	for rows.Next() {
		var d models.DietPlan
		var items []byte
		if err := rows.Scan(&d.ID, &d.Purpose, &d.Category, &items, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveDietPlan удаляет план питания и возвращает количество удалённых строк.
func (s *Storage) RemoveDietPlan(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveDietPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM diet_plans WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CreateWorkout сохраняет упражнение и возвращает его ID.
func (s *Storage) CreateWorkout(ctx context.Context, w models.Workout) (int, error) {
	const op = "storage.CreateWorkout"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO workouts (name, muscle_group, description)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, w.Name, w.MuscleGroup, w.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListWorkouts возвращает упражнения, опционально фильтруя по группе мышц.
func (s *Storage) ListWorkouts(ctx context.Context, muscleGroup string) ([]*models.Workout, error) {
	const op = "storage.ListWorkouts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, muscle_group, description, created_at
			  FROM workouts
			  WHERE ($1 = '' OR muscle_group = $1)
			  ORDER BY name ASC`
	rows, err := s.DB.QueryContext(ctx, query, muscleGroup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Workout
	for rows.Next() {
		var w models.Workout
		var description sql.NullString
		if err := rows.Scan(&w.ID, &w.Name, &w.MuscleGroup, &description, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		w.Description = description.String
		result = append(result, &w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveWorkout удаляет упражнение и возвращает количество удалённых строк.
func (s *Storage) RemoveWorkout(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveWorkout"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AppendActivity добавляет запись в журнал действий.
func (s *Storage) AppendActivity(ctx context.Context, record models.ActivityRecord) error {
	const op = "storage.AppendActivity"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	metadata := record.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO activity_log (actor, action, resource_type, resource_id, metadata)
			  VALUES ($1, $2, $3, NULLIF($4, ''), $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		record.Actor, record.Action, record.ResourceType, record.ResourceID, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListActivity возвращает записи журнала с пагинацией, новые первыми.
func (s *Storage) ListActivity(ctx context.Context, limit, offset int) ([]*models.ActivityRecord, error) {
	const op = "storage.ListActivity"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, actor, action, resource_type, COALESCE(resource_id, ''), metadata, created_at
			  FROM activity_log
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ActivityRecord
	for rows.Next() {
		var r models.ActivityRecord
		var raw []byte
		if err := rows.Scan(&r.ID, &r.Actor, &r.Action, &r.ResourceType, &r.ResourceID, &raw, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(raw, &r.Metadata); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
