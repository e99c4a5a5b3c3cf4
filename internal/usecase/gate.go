package usecase

import (
	"sync"

	"github.com/iho/walletflow/internal/domain"
)

// ActionGate admits at most one mutating action per wallet session.
// Concurrent attempts are rejected, not queued, so two live idempotency
// keys can never race on the same balance.
type ActionGate struct {
	mu sync.Mutex
}

// NewActionGate creates an ActionGate.
func NewActionGate() *ActionGate {
	return &ActionGate{}
}

// TryAcquire claims the gate. On success the returned release func must be
// called once the action reaches a terminal state. While the gate is held
// further attempts fail with domain.ErrOperationInFlight.
func (g *ActionGate) TryAcquire() (release func(), err error) {
	if !g.mu.TryLock() {
		return nil, domain.ErrOperationInFlight
	}

	var once sync.Once
	return func() {
		once.Do(g.mu.Unlock)
	}, nil
}
