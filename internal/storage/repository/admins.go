package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// GetAdminByEmail возвращает администратора по email.
func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const op = "storage.GetAdminByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, full_name, password_hash, role, gym_name, created_at
			  FROM admins
			  WHERE email = $1`
	return scanAdmin(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetAdmin возвращает администратора по UID.
func (s *Storage) GetAdmin(ctx context.Context, uid string) (*models.Admin, error) {
	const op = "storage.GetAdmin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, full_name, password_hash, role, gym_name, created_at
			  FROM admins
			  WHERE uid = $1`
	return scanAdmin(s.DB.QueryRowContext(ctx, query, uid), op)
}

// UpdateAdminPassword заменяет хэш пароля администратора.
func (s *Storage) UpdateAdminPassword(ctx context.Context, uid, passwordHash string) error {
	const op = "storage.UpdateAdminPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE admins SET password_hash = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, uid, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateGymInfo обновляет название клуба в профиле администратора.
func (s *Storage) UpdateGymInfo(ctx context.Context, uid, gymName string) error {
	const op = "storage.UpdateGymInfo"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE admins SET gym_name = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, uid, gymName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanAdmin(row rowScanner, op string) (*models.Admin, error) {
	var a models.Admin
	var gymName sql.NullString
	if err := row.Scan(&a.UID, &a.Email, &a.FullName, &a.PasswordHash,
		&a.Role, &gymName, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.GymName = gymName.String
	return &a, nil
}
