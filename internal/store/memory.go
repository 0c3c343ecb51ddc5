package store

import (
	"context"
	"sync"
	"time"
)

// NewMemory returns a Store holding all state in process memory. Entitlements
// are lost on restart; the Postgres backend is the deployment default.
func NewMemory() *Store {
	return &Store{
		Sessions:        &memSessions{sessions: make(map[int64]Session)},
		Entitlements:    &memEntitlements{paid: make(map[entitlementKey]time.Time)},
		PendingPayments: &memPendingPayments{orders: make(map[string]PendingPayment)},
	}
}

type memSessions struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func (m *memSessions) Get(_ context.Context, userID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	return Session{UserID: userID}, nil
}

func (m *memSessions) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.sessions[s.UserID] = s
	return nil
}

type entitlementKey struct {
	userID   int64
	semester string
}

type memEntitlements struct {
	mu   sync.RWMutex
	paid map[entitlementKey]time.Time
}

func (m *memEntitlements) IsPaid(_ context.Context, userID int64, semester string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.paid[entitlementKey{userID, semester}]
	return ok, nil
}

func (m *memEntitlements) MarkPaid(_ context.Context, userID int64, semester string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := entitlementKey{userID, semester}
	if _, ok := m.paid[key]; !ok {
		m.paid[key] = time.Now()
	}
	return nil
}

type memPendingPayments struct {
	mu     sync.Mutex
	orders map[string]PendingPayment
}

func (m *memPendingPayments) Put(_ context.Context, p PendingPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.orders[p.OrderID] = p
	return nil
}

func (m *memPendingPayments) Take(_ context.Context, orderID string) (PendingPayment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.orders[orderID]
	if ok {
		delete(m.orders, orderID)
	}
	return p, ok, nil
}
