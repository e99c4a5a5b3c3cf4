package usecase

import (
	"context"
	"time"

	"github.com/iho/walletflow/internal/domain"
)

// LedgerGateway is the typed wire contract with the ledger service. Every
// mutating call carries an idempotency key; resubmitting the same key with
// the same payload is safe any number of times and produces at most one
// ledger effect.
type LedgerGateway interface {
	// CreateOrFetchAccount is idempotent by email: repeated calls for the
	// same email return the same account.
	CreateOrFetchAccount(ctx context.Context, email, name string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	// ListTransactions returns entries newest first.
	ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.TransactionItem, error)
	DepositSimulate(ctx context.Context, accountID, amountCents int64, key string) (*domain.DepositResult, error)
	CreatePaymentIntent(ctx context.Context, amountCents int64, key string) (*domain.PaymentIntent, error)
	// CreditAfterConfirmation asks the ledger to post a credit for a
	// confirmed intent. The server independently verifies the intent with
	// the processor; the client never asserts success on its own.
	CreditAfterConfirmation(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error)
}

// CardConfirmer is the card-network confirmation provider, treated as an
// opaque capability: it collects the card details and confirms a
// previously created intent directly with the processor.
type CardConfirmer interface {
	Confirm(ctx context.Context, intentSecret string) (*domain.Confirmation, error)
}

// KeyFactory mints idempotency keys. One key per logical user action,
// minted exactly once and reused verbatim across every retry of that
// action.
type KeyFactory interface {
	NewKey() string
}

// Recorder observes orchestrator outcomes.
type Recorder interface {
	ObserveOperation(op string, err error)
	ObserveRefresh(d time.Duration, err error)
}
