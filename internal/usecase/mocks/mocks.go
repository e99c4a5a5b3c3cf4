package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/walletflow/internal/domain"
)

// MockLedgerGateway is a mock implementation of usecase.LedgerGateway.
// Unset funcs fall back to a tiny in-memory ledger good enough for most
// orchestrator tests.
type MockLedgerGateway struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	balances map[int64]int64
	nextID   int64

	CreateOrFetchAccountFunc    func(ctx context.Context, email, name string) (*domain.Account, error)
	GetAccountFunc              func(ctx context.Context, accountID int64) (*domain.Account, error)
	ListTransactionsFunc        func(ctx context.Context, accountID int64, limit int) ([]domain.TransactionItem, error)
	DepositSimulateFunc         func(ctx context.Context, accountID, amountCents int64, key string) (*domain.DepositResult, error)
	CreatePaymentIntentFunc     func(ctx context.Context, amountCents int64, key string) (*domain.PaymentIntent, error)
	CreditAfterConfirmationFunc func(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error)
	TransferFunc                func(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error)

	// Keys seen on mutating calls, in order.
	Keys []string
}

func NewMockLedgerGateway() *MockLedgerGateway {
	return &MockLedgerGateway{
		accounts: make(map[string]*domain.Account),
		balances: make(map[int64]int64),
	}
}

func (m *MockLedgerGateway) recordKey(key string) {
	m.Keys = append(m.Keys, key)
}

func (m *MockLedgerGateway) CreateOrFetchAccount(ctx context.Context, email, name string) (*domain.Account, error) {
	if m.CreateOrFetchAccountFunc != nil {
		return m.CreateOrFetchAccountFunc(ctx, email, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[email]; ok {
		copied := *a
		return &copied, nil
	}
	m.nextID++
	a := &domain.Account{AccountID: m.nextID, UserID: m.nextID, Currency: "USD"}
	m.accounts[email] = a
	m.balances[a.AccountID] = 0
	copied := *a
	return &copied, nil
}

func (m *MockLedgerGateway) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[accountID]
	if !ok {
		return nil, &domain.ServerError{Status: 404, Detail: "Account not found"}
	}
	return &domain.Account{AccountID: accountID, UserID: accountID, Currency: "USD", BalanceCents: balance}, nil
}

func (m *MockLedgerGateway) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.TransactionItem, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *MockLedgerGateway) DepositSimulate(ctx context.Context, accountID, amountCents int64, key string) (*domain.DepositResult, error) {
	m.recordKey(key)
	if m.DepositSimulateFunc != nil {
		return m.DepositSimulateFunc(ctx, accountID, amountCents, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] += amountCents
	return &domain.DepositResult{TransactionID: 1, NewBalanceCents: m.balances[accountID]}, nil
}

func (m *MockLedgerGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, key string) (*domain.PaymentIntent, error) {
	m.recordKey(key)
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amountCents, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("pi_%d", m.nextID)
	return &domain.PaymentIntent{IntentID: id, IntentSecret: id + "_secret_test"}, nil
}

func (m *MockLedgerGateway) CreditAfterConfirmation(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
	m.recordKey(key)
	if m.CreditAfterConfirmationFunc != nil {
		return m.CreditAfterConfirmationFunc(ctx, accountID, intentID, amountCents, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] += amountCents
	return &domain.DepositResult{TransactionID: 2, NewBalanceCents: m.balances[accountID]}, nil
}

func (m *MockLedgerGateway) Transfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error) {
	m.recordKey(key)
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, fromAccountID, toAccountID, amountCents, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[fromAccountID] -= amountCents
	m.balances[toAccountID] += amountCents
	return &domain.TransferResult{
		TransferGroupID:  "grp-test",
		FromBalanceCents: m.balances[fromAccountID],
		ToBalanceCents:   m.balances[toAccountID],
	}, nil
}

// MockCardConfirmer is a mock implementation of usecase.CardConfirmer.
type MockCardConfirmer struct {
	ConfirmFunc func(ctx context.Context, intentSecret string) (*domain.Confirmation, error)
	Calls       int
}

func NewMockCardConfirmer() *MockCardConfirmer {
	return &MockCardConfirmer{}
}

func (m *MockCardConfirmer) Confirm(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
	m.Calls++
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, intentSecret)
	}
	return &domain.Confirmation{Status: domain.ConfirmationSucceeded}, nil
}

// MockKeyFactory is a mock implementation of usecase.KeyFactory minting
// sequential keys.
type MockKeyFactory struct {
	mu   sync.Mutex
	next int
}

func NewMockKeyFactory() *MockKeyFactory {
	return &MockKeyFactory{}
}

func (m *MockKeyFactory) NewKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("key-%d", m.next)
}

// MockRecorder is a mock implementation of usecase.Recorder.
type MockRecorder struct {
	mu         sync.Mutex
	Operations []string
	ErrClasses []string
	Refreshes  int
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{}
}

func (m *MockRecorder) ObserveOperation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Operations = append(m.Operations, op)
	m.ErrClasses = append(m.ErrClasses, domain.ErrorClass(err))
}

func (m *MockRecorder) ObserveRefresh(d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}
