package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// NewPostgres returns a Store backed by the given Postgres pool.
func NewPostgres(db *sqlx.DB) *Store {
	return &Store{
		Sessions:        &pgSessions{db: db},
		Entitlements:    &pgEntitlements{db: db},
		PendingPayments: &pgPendingPayments{db: db},
	}
}

type pgSessions struct {
	db *sqlx.DB
}

func (s *pgSessions) Get(ctx context.Context, userID int64) (Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT user_id, COALESCE(semester, '') AS semester, COALESCE(subject, '') AS subject,
		        COALESCE(nav_message_id, 0) AS nav_message_id, updated_at
		   FROM user_sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{UserID: userID}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *pgSessions) Save(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sessions (user_id, semester, subject, nav_message_id, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id) DO UPDATE
		    SET semester = EXCLUDED.semester,
		        subject = EXCLUDED.subject,
		        nav_message_id = EXCLUDED.nav_message_id,
		        updated_at = now()`,
		sess.UserID, sess.Semester, sess.Subject, sess.NavMessageID)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

type pgEntitlements struct {
	db *sqlx.DB
}

func (e *pgEntitlements) IsPaid(ctx context.Context, userID int64, semester string) (bool, error) {
	var paid bool
	err := e.db.GetContext(ctx, &paid,
		`SELECT EXISTS (SELECT 1 FROM user_payments WHERE user_id = $1 AND semester = $2)`,
		userID, semester)
	if err != nil {
		return false, fmt.Errorf("check entitlement: %w", err)
	}
	return paid, nil
}

func (e *pgEntitlements) MarkPaid(ctx context.Context, userID int64, semester string) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO user_payments (user_id, semester, paid_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id, semester) DO NOTHING`,
		userID, semester)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

type pgPendingPayments struct {
	db *sqlx.DB
}

func (p *pgPendingPayments) Put(ctx context.Context, pp PendingPayment) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO pending_payments (order_id, user_id, chat_id, semester, nav_message_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (order_id) DO UPDATE
		    SET user_id = EXCLUDED.user_id,
		        chat_id = EXCLUDED.chat_id,
		        semester = EXCLUDED.semester,
		        nav_message_id = EXCLUDED.nav_message_id`,
		pp.OrderID, pp.UserID, pp.ChatID, pp.Semester, pp.NavMessageID)
	if err != nil {
		return fmt.Errorf("put pending payment: %w", err)
	}
	return nil
}

func (p *pgPendingPayments) Take(ctx context.Context, orderID string) (PendingPayment, bool, error) {
	var pp PendingPayment
	err := p.db.GetContext(ctx, &pp,
		`DELETE FROM pending_payments WHERE order_id = $1
		 RETURNING order_id, user_id, chat_id, semester, COALESCE(nav_message_id, 0) AS nav_message_id, created_at`,
		orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return PendingPayment{}, false, nil
	}
	if err != nil {
		return PendingPayment{}, false, fmt.Errorf("take pending payment: %w", err)
	}
	return pp, true, nil
}
