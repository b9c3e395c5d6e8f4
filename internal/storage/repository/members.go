package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

const memberColumns = `uid, full_name, email, phone, password_hash, branch, height, weight,
			      gender, date_of_birth, address, role, plan_id, membership_start,
			      membership_end, membership_status, created_at`

// CreateMember сохраняет нового участника и возвращает его UID.
func (s *Storage) CreateMember(ctx context.Context, member models.Member) (string, error) {
	const op = "storage.CreateMember"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO members (full_name, email, phone, password_hash, branch, height,
			      weight, gender, date_of_birth, address, membership_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		member.FullName, member.Email, member.Phone, member.PasswordHash, member.Branch,
		member.Height, member.Weight, member.Gender, member.DateOfBirth, member.Address,
		models.MembershipStatusDefault).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetMember возвращает участника по его UID.
func (s *Storage) GetMember(ctx context.Context, uid string) (*models.Member, error) {
	const op = "storage.GetMember"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE uid = $1`
	return scanMember(s.DB.QueryRowContext(ctx, query, uid), op)
}

// GetMemberByEmail возвращает участника по email.
func (s *Storage) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	const op = "storage.GetMemberByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	return scanMember(s.DB.QueryRowContext(ctx, query, email), op)
}

// ListMembers возвращает список участников с пагинацией,
// отсортированный по дате окончания абонемента.
func (s *Storage) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	const op = "storage.ListMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  ORDER BY membership_end ASC NULLS LAST, uid
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Member
	for rows.Next() {
		item, err := scanMember(rows, op)
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

// ListAllMembers возвращает всех участников без пагинации.
// Используется для агрегатов панели администратора и сверки статусов.
func (s *Storage) ListAllMembers(ctx context.Context) ([]*models.Member, error) {
	const op = "storage.ListAllMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Member
	for rows.Next() {
		item, err := scanMember(rows, op)
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

// ListMembersByStartDateRange возвращает участников, чей абонемент начался в заданном периоде.
func (s *Storage) ListMembersByStartDateRange(ctx context.Context, from, to time.Time) ([]*models.Member, error) {
	const op = "storage.ListMembersByStartDateRange"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  WHERE membership_start >= $1 AND membership_start <= $2
			  ORDER BY membership_start`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Member
	for rows.Next() {
		item, err := scanMember(rows, op)
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

// UpdateMemberProfile обновляет анкетные поля участника и возвращает количество изменённых строк.
func (s *Storage) UpdateMemberProfile(ctx context.Context, uid string, height, weight float64, address string) (int, error) {
	const op = "storage.UpdateMemberProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET height = COALESCE(NULLIF($2, 0.0), height),
			      weight = COALESCE(NULLIF($3, 0.0), weight),
			      address = COALESCE(NULLIF($4, ''), address)
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, uid, height, weight, address)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMemberPassword заменяет хэш пароля участника.
func (s *Storage) UpdateMemberPassword(ctx context.Context, uid, passwordHash string) error {
	const op = "storage.UpdateMemberPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members SET password_hash = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, uid, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveMember удаляет участника и возвращает количество удалённых строк.
func (s *Storage) RemoveMember(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM members WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMembership записывает новое окно абонемента участника.
func (s *Storage) UpdateMembership(ctx context.Context, uid string, planID int, start, end time.Time, status string) (int, error) {
	const op = "storage.UpdateMembership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET plan_id = $2, membership_start = $3, membership_end = $4, membership_status = $5
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, uid, planID, start, end, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMembershipStatus перезаписывает кешированный статус абонемента.
// Используется заданием сверки: сохранённый статус лишь кеш производной величины.
func (s *Storage) UpdateMembershipStatus(ctx context.Context, uid, status string) error {
	const op = "storage.UpdateMembershipStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members SET membership_status = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, uid, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindMembershipsExpiringWithin находит участников, чей абонемент истекает
// в ближайшие days дней, вместе с названием плана для уведомления.
func (s *Storage) FindMembershipsExpiringWithin(ctx context.Context, days int) ([]*models.MemberInfo, error) {
	const op = "storage.FindMembershipsExpiringWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.email, m.full_name, COALESCE(p.name, ''), m.membership_end
			  FROM members m
			  LEFT JOIN membership_plans p ON m.plan_id = p.id
			  WHERE m.membership_end IS NOT NULL
			    AND m.membership_end >= CURRENT_DATE
			    AND m.membership_end <= CURRENT_DATE + ($1 || ' days')::interval`
	rows, err := s.DB.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MemberInfo
	for rows.Next() {
		var mi models.MemberInfo
		if err = rows.Scan(&mi.Email, &mi.FullName, &mi.PlanName, &mi.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &mi)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddWeightRecord добавляет запись в историю веса и обновляет текущий вес участника.
func (s *Storage) AddWeightRecord(ctx context.Context, uid string, weight float64) error {
	const op = "storage.AddWeightRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO weight_history (member_uid, weight) VALUES ($1, $2)`, uid, weight); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.DB.ExecContext(ctx,
		`UPDATE members SET weight = $2 WHERE uid = $1`, uid, weight); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListWeightHistory возвращает историю веса участника в хронологическом порядке.
func (s *Storage) ListWeightHistory(ctx context.Context, uid string) ([]*models.WeightRecord, error) {
	const op = "storage.ListWeightHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT weight, recorded_at
			  FROM weight_history
			  WHERE member_uid = $1
			  ORDER BY recorded_at`
	rows, err := s.DB.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WeightRecord
	for rows.Next() {
		var wr models.WeightRecord
		if err = rows.Scan(&wr.Weight, &wr.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &wr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanMember(row rowScanner, op string) (*models.Member, error) {
	var m models.Member
	var dob, start, end sql.NullTime
	var planID sql.NullInt64
	var gender, address sql.NullString
	var height, weight sql.NullFloat64
	if err := row.Scan(&m.UID, &m.FullName, &m.Email, &m.Phone, &m.PasswordHash, &m.Branch,
		&height, &weight, &gender, &dob, &address, &m.Role, &planID,
		&start, &end, &m.Membership.Status, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.Height = height.Float64
	m.Weight = weight.Float64
	m.Gender = gender.String
	m.Address = address.String
	if dob.Valid {
		m.DateOfBirth = &dob.Time
	}
	if planID.Valid {
		id := int(planID.Int64)
		m.Membership.PlanID = &id
	}
	if start.Valid {
		m.Membership.StartDate = start.Time
	}
	if end.Valid {
		m.Membership.EndDate = end.Time
	}
	return &m, nil
}
