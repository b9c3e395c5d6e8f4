package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreatePayment сохраняет платёж в статусе pending и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (member_uid, plan_id, amount, currency, status, order_id, receipt)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.MemberUID, payment.PlanID, payment.Amount, payment.Currency,
		payment.Status, payment.OrderID, payment.Receipt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByOrderID возвращает платёж по внешнему идентификатору заказа.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, member_uid, plan_id, amount, currency, status, order_id, transaction_id, receipt, created_at
			  FROM payments
			  WHERE order_id = $1`
	return scanPayment(s.DB.QueryRowContext(ctx, query, orderID), op)
}

// MarkPaymentStatus переводит платёж в новый статус, записывая ID транзакции провайдера.
// Обновляет только платежи в статусе pending.
func (s *Storage) MarkPaymentStatus(ctx context.Context, orderID, status, transactionID string) (int, error) {
	const op = "storage.MarkPaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $2, transaction_id = NULLIF($3, '')
			  WHERE order_id = $1 AND status = $4`
	result, err := s.DB.ExecContext(ctx, query, orderID, status, transactionID, models.PaymentStatusPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPaymentsByMember возвращает платежи участника, новые первыми.
func (s *Storage) ListPaymentsByMember(ctx context.Context, memberUID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByMember"
	query := `SELECT id, member_uid, plan_id, amount, currency, status, order_id, transaction_id, receipt, created_at
			  FROM payments
			  WHERE member_uid = $1
			  ORDER BY created_at DESC`
	return s.listPayments(ctx, op, query, memberUID)
}

// ListPayments возвращает все платежи с пагинацией, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	query := `SELECT id, member_uid, plan_id, amount, currency, status, order_id, transaction_id, receipt, created_at
			  FROM payments
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	return s.listPayments(ctx, op, query, limit, offset)
}

func (s *Storage) listPayments(ctx context.Context, op, query string, args ...any) ([]*models.Payment, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		item, err := scanPayment(rows, op)
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

func scanPayment(row rowScanner, op string) (*models.Payment, error) {
	var p models.Payment
	var orderID, transactionID, receipt sql.NullString
	if err := row.Scan(&p.ID, &p.MemberUID, &p.PlanID, &p.Amount, &p.Currency,
		&p.Status, &orderID, &transactionID, &receipt, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.OrderID = orderID.String
	p.TransactionID = transactionID.String
	p.Receipt = receipt.String
	return &p, nil
}
