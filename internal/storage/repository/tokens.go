package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreateToken сохраняет новый одноразовый токен и возвращает его ID.
func (s *Storage) CreateToken(ctx context.Context, token models.AccessToken) (int, error) {
	const op = "storage.CreateToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO access_tokens (token, prefix, purpose, created_by)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		token.Token, token.Prefix, token.Purpose, token.CreatedBy).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTokenByValue возвращает токен допустимого класса по его значению.
// Токены других классов считаются несуществующими.
func (s *Storage) GetTokenByValue(ctx context.Context, tokenValue string) (*models.AccessToken, error) {
	const op = "storage.GetTokenByValue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, prefix, purpose, created_by, is_used, used_by, used_at, metadata, created_at
			  FROM access_tokens
			  WHERE token = $1 AND prefix IN ('b1', 'b2')`
	return s.scanToken(s.DB.QueryRowContext(ctx, query, tokenValue), op)
}

// GetTokenByID возвращает токен допустимого класса по его ID.
func (s *Storage) GetTokenByID(ctx context.Context, id int) (*models.AccessToken, error) {
	const op = "storage.GetTokenByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, prefix, purpose, created_by, is_used, used_by, used_at, metadata, created_at
			  FROM access_tokens
			  WHERE id = $1 AND prefix IN ('b1', 'b2')`
	return s.scanToken(s.DB.QueryRowContext(ctx, query, id), op)
}

// ReserveToken резервирует неиспользованный и незарезервированный токен за email.
// Переход unused -> reserved выражен одним условным UPDATE: совпадение по
// is_used = false и отсутствию reserved_for в метаданных закрывает гонку
// двух конкурентных регистраций. Возвращает sql.ErrNoRows, если условие не совпало.
func (s *Storage) ReserveToken(ctx context.Context, tokenValue, email string) (*models.AccessToken, error) {
	const op = "storage.ReserveToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stamp, err := json.Marshal(map[string]any{
		"reserved_for": email,
		"reserved_at":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE access_tokens
			  SET metadata = metadata || $2::jsonb
			      || jsonb_build_object('reserved_prefix', prefix, 'original_purpose', purpose)
			  WHERE token = $1
			    AND prefix IN ('b1', 'b2')
			    AND is_used = false
			    AND metadata->>'reserved_for' IS NULL
			  RETURNING id, token, prefix, purpose, created_by, is_used, used_by, used_at, metadata, created_at`
	return s.scanToken(s.DB.QueryRowContext(ctx, query, tokenValue, stamp), op)
}

// ConsumeToken помечает токен использованным. Переход в consumed условный:
// совпадение по is_used = false гарантирует однократность погашения.
// Возвращает sql.ErrNoRows, если токен уже был погашен или не найден.
func (s *Storage) ConsumeToken(ctx context.Context, id int, usedBy string, extra map[string]any) error {
	const op = "storage.ConsumeToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stamp, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE access_tokens
			  SET is_used = true, used_by = $2, used_at = now(),
			      metadata = metadata || $3::jsonb
			  WHERE id = $1 AND is_used = false
			  RETURNING id`
	var consumedID int
	if err := s.DB.QueryRowContext(ctx, query, id, usedBy, stamp).Scan(&consumedID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeTokenByValue помечает использованным неиспользованный токен по значению,
// минуя стадию резервирования. Применяется в сценарии сброса пароля.
// Возвращает sql.ErrNoRows, если неиспользованного токена с таким значением нет.
func (s *Storage) ConsumeTokenByValue(ctx context.Context, tokenValue, usedBy string, extra map[string]any) error {
	const op = "storage.ConsumeTokenByValue"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stamp, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE access_tokens
			  SET is_used = true, used_by = $2, used_at = now(),
			      metadata = metadata || $3::jsonb
			      || jsonb_build_object('reset_token_prefix', prefix, 'reset_original_purpose', purpose)
			  WHERE token = $1 AND prefix IN ('b1', 'b2') AND is_used = false
			  RETURNING id`
	var consumedID int
	if err := s.DB.QueryRowContext(ctx, query, tokenValue, usedBy, stamp).Scan(&consumedID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTokens возвращает токены, выписанные администратором, с пагинацией.
func (s *Storage) ListTokens(ctx context.Context, createdBy string, limit, offset int) ([]*models.AccessToken, error) {
	const op = "storage.ListTokens"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, prefix, purpose, created_by, is_used, used_by, used_at, metadata, created_at
			  FROM access_tokens
			  WHERE created_by = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, createdBy, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AccessToken
	for rows.Next() {
		item, err := s.scanToken(rows, op)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanToken(row rowScanner, op string) (*models.AccessToken, error) {
	var t models.AccessToken
	var rawMetadata []byte
	if err := row.Scan(&t.ID, &t.Token, &t.Prefix, &t.Purpose, &t.CreatedBy,
		&t.IsUsed, &t.UsedBy, &t.UsedAt, &rawMetadata, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &t, nil
}
