package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// subscriptionColumns общий список колонок для выборок подписок.
const subscriptionColumns = `id, name, price, currency, frequency, category,
			      payment_method, status, start_date, renewal_date, user_uid,
			      created_at, updated_at`

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (name, price, currency, frequency, category,
			      payment_method, status, start_date, renewal_date, user_uid)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID string
	err := s.q(ctx).QueryRowContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, nullString(sub.Frequency), sub.Category,
		sub.PaymentMethod, sub.Status, sub.StartDate, sub.RenewalDate, sub.UserUID).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает данные подписки по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE id = $1`
	row := s.q(ctx).QueryRowContext(ctx, query, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscription обновляет подписку владельца и возвращает количество
// затронутых строк. updated_at обновляется при каждой записи.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id string) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, currency = $3, frequency = $4, category = $5,
			      payment_method = $6, status = $7, start_date = $8, renewal_date = $9,
			      updated_at = now()
			  WHERE id = $10 AND user_uid = $11`
	result, err := s.q(ctx).ExecContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, nullString(sub.Frequency), sub.Category,
		sub.PaymentMethod, sub.Status, sub.StartDate, sub.RenewalDate, id, sub.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку владельца и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_uid = $2`
	result, err := s.q(ctx).ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает подписки пользователя с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.q(ctx).QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return collectSubscriptions(rows, op)
}

// ListUpcomingRenewals возвращает активные подписки пользователя,
// продление которых наступает в ближайшие withinDays дней.
func (s *Storage) ListUpcomingRenewals(ctx context.Context, userUID string, withinDays int) ([]*models.Subscription, error) {
	const op = "storage.ListUpcomingRenewals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			    AND status = 'active'
			    AND renewal_date IS NOT NULL
			    AND renewal_date BETWEEN now() AND now() + $2 * INTERVAL '1 day'
			  ORDER BY renewal_date`
	rows, err := s.q(ctx).QueryContext(ctx, query, userUID, withinDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return collectSubscriptions(rows, op)
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var frequency sql.NullString
	var renewalDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Price, &sub.Currency, &frequency,
		&sub.Category, &sub.PaymentMethod, &sub.Status, &sub.StartDate, &renewalDate,
		&sub.UserUID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	if frequency.Valid {
		sub.Frequency = frequency.String
	}
	if renewalDate.Valid {
		sub.RenewalDate = &renewalDate.Time
	}
	return &sub, nil
}

func collectSubscriptions(rows *sql.Rows, op string) ([]*models.Subscription, error) {
	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// nullString преобразует пустую строку в NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
