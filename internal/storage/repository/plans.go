package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreatePlan вставляет новый тарифный план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.MembershipPlan, createdBy string) (int, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO membership_plans (name, price, duration_months, description, status, branch, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Price, plan.DurationMonths, plan.Description,
		plan.Status, plan.Branch, createdBy).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPlan возвращает тарифный план по ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.MembershipPlan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_months, description, status, branch, created_at
			  FROM membership_plans
			  WHERE id = $1`
	return scanPlan(s.DB.QueryRowContext(ctx, query, id), op)
}

// UpdatePlan обновляет тарифный план и возвращает количество изменённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, plan models.MembershipPlan, id int) (int, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE membership_plans
			  SET name = $1, price = $2, duration_months = $3, description = $4, status = $5, branch = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.Price, plan.DurationMonths, plan.Description, plan.Status, plan.Branch, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePlan удаляет тарифный план и возвращает количество удалённых строк.
func (s *Storage) RemovePlan(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM membership_plans WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPlans возвращает все тарифные планы, новые первыми.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_months, description, status, branch, created_at
			  FROM membership_plans
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MembershipPlan
	for rows.Next() {
		item, err := scanPlan(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanPlan(row rowScanner, op string) (*models.MembershipPlan, error) {
	var p models.MembershipPlan
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.DurationMonths,
		&description, &p.Status, &p.Branch, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Description = description.String
	return &p, nil
}
