package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/iho/walletflow/internal/domain"
)

// AccountView caches the last-known account snapshot and transaction list.
// Refresh fully replaces both; nothing is ever merged or derived locally,
// so the displayed balance is always the last value the ledger reported.
type AccountView struct {
	mu     sync.RWMutex
	ledger LedgerGateway
	rec    Recorder
	limit  int

	account      *domain.Account
	transactions []domain.TransactionItem
}

// NewAccountView creates an AccountView. limit bounds the transaction
// listing; 0 uses the ledger default.
func NewAccountView(ledger LedgerGateway, rec Recorder, limit int) *AccountView {
	return &AccountView{
		ledger: ledger,
		rec:    rec,
		limit:  domain.ClampListLimit(limit),
	}
}

// Refresh re-fetches the account and its transactions from the ledger and
// replaces the cached copies. The cache is only swapped once both fetches
// succeed, so a half-refreshed view is never observable.
func (v *AccountView) Refresh(ctx context.Context, accountID int64) error {
	start := time.Now()

	account, err := v.ledger.GetAccount(ctx, accountID)
	if err != nil {
		v.observe(start, err)
		return err
	}

	transactions, err := v.ledger.ListTransactions(ctx, accountID, v.limit)
	if err != nil {
		v.observe(start, err)
		return err
	}

	v.mu.Lock()
	v.account = account
	v.transactions = transactions
	v.mu.Unlock()

	v.observe(start, nil)
	return nil
}

// Account returns a copy of the last-fetched snapshot, or nil before the
// first refresh.
func (v *AccountView) Account() *domain.Account {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.account == nil {
		return nil
	}
	a := *v.account
	return &a
}

// Transactions returns a copy of the last-fetched transaction list,
// newest first.
func (v *AccountView) Transactions() []domain.TransactionItem {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.TransactionItem, len(v.transactions))
	copy(out, v.transactions)
	return out
}

func (v *AccountView) observe(start time.Time, err error) {
	if v.rec != nil {
		v.rec.ObserveRefresh(time.Since(start), err)
	}
}
