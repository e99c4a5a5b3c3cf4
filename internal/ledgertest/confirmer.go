package ledgertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/walletflow/internal/domain"
)

// Confirmer is the scripted in-process card processor. By default every
// confirmation succeeds; tests can program the next outcome to exercise
// decline paths.
type Confirmer struct {
	s *Server

	mu         sync.Mutex
	nextStatus string
}

// Confirmer returns a card confirmer wired to this ledger's intents.
func (s *Server) Confirmer() *Confirmer {
	return &Confirmer{s: s}
}

// DeclineNext makes the next confirmation report the given status, e.g.
// requires_payment_method.
func (c *Confirmer) DeclineNext(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextStatus = status
}

// Confirm implements usecase.CardConfirmer.
func (c *Confirmer) Confirm(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
	c.mu.Lock()
	status := c.nextStatus
	c.nextStatus = ""
	c.mu.Unlock()

	if status == "" {
		status = domain.ConfirmationSucceeded
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	in, ok := c.s.intentsBySecret[intentSecret]
	if !ok {
		return nil, fmt.Errorf("%w: unknown intent secret", domain.ErrValidation)
	}
	in.status = status

	return &domain.Confirmation{IntentID: in.id, Status: status}, nil
}
