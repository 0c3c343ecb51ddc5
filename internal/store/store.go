// Package store persists per-user navigation sessions, paid-semester
// entitlements, and pending payment records. Two backends exist: Postgres for
// deployments and an in-memory implementation for development and tests.
package store

import (
	"context"
	"time"
)

// Session is the per-user navigation state. The zero value means the user has
// not interacted yet.
type Session struct {
	UserID       int64     `db:"user_id"`
	Semester     string    `db:"semester"`
	Subject      string    `db:"subject"`
	NavMessageID int64     `db:"nav_message_id"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PendingPayment bridges a created gateway order to the user, chat, and
// semester it unlocks once the gateway confirms payment.
type PendingPayment struct {
	OrderID      string    `db:"order_id"`
	UserID       int64     `db:"user_id"`
	ChatID       int64     `db:"chat_id"`
	Semester     string    `db:"semester"`
	NavMessageID int64     `db:"nav_message_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// Sessions stores navigation sessions keyed by user id. Save is a whole-row
// atomic upsert so concurrent webhook deliveries for the same user cannot
// interleave partial writes.
type Sessions interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Save(ctx context.Context, s Session) error
}

// Entitlements stores the (user, semester) paid flags. MarkPaid is
// idempotent: marking an already-paid pair again is a no-op and leaves exactly
// one record.
type Entitlements interface {
	IsPaid(ctx context.Context, userID int64, semester string) (bool, error)
	MarkPaid(ctx context.Context, userID int64, semester string) error
}

// PendingPayments stores gateway orders awaiting confirmation. Take removes
// and returns the record; a second Take for the same order reports not found.
type PendingPayments interface {
	Put(ctx context.Context, p PendingPayment) error
	Take(ctx context.Context, orderID string) (PendingPayment, bool, error)
}

// Store bundles the three stores behind one backend.
type Store struct {
	Sessions        Sessions
	Entitlements    Entitlements
	PendingPayments PendingPayments
}
