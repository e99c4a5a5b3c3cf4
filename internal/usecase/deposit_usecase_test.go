package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
	"github.com/iho/walletflow/internal/usecase"
	"github.com/iho/walletflow/internal/usecase/mocks"
)

type depositFixture struct {
	ledger    *mocks.MockLedgerGateway
	confirmer *mocks.MockCardConfirmer
	rec       *mocks.MockRecorder
	gate      *usecase.ActionGate
	uc        *usecase.DepositUseCase
	accountID int64
}

func newDepositFixture(t *testing.T) *depositFixture {
	t.Helper()

	ledger := mocks.NewMockLedgerGateway()
	account, err := ledger.CreateOrFetchAccount(context.Background(), "dep@example.com", "")
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	confirmer := mocks.NewMockCardConfirmer()
	rec := mocks.NewMockRecorder()
	gate := usecase.NewActionGate()
	view := usecase.NewAccountView(ledger, rec, 0)
	uc := usecase.NewDepositUseCase(ledger, confirmer, mocks.NewMockKeyFactory(), view, gate, rec, zerolog.Nop())

	return &depositFixture{
		ledger:    ledger,
		confirmer: confirmer,
		rec:       rec,
		gate:      gate,
		uc:        uc,
		accountID: account.AccountID,
	}
}

func TestDepositUseCase_Simulate(t *testing.T) {
	ctx := context.Background()

	t.Run("posts once and refreshes before reporting", func(t *testing.T) {
		f := newDepositFixture(t)

		receipt, err := f.uc.Simulate(ctx, f.accountID, 2500)
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		if receipt.NewBalanceCents != 2500 {
			t.Errorf("expected balance 2500, got %d", receipt.NewBalanceCents)
		}
		if len(f.ledger.Keys) != 1 || f.ledger.Keys[0] != "key-1" {
			t.Errorf("expected exactly one fresh key, got %v", f.ledger.Keys)
		}
		if f.rec.Refreshes != 1 {
			t.Errorf("expected one refresh, got %d", f.rec.Refreshes)
		}
	})

	t.Run("each action mints its own key", func(t *testing.T) {
		f := newDepositFixture(t)

		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Fatalf("first simulate: %v", err)
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 200); err != nil {
			t.Fatalf("second simulate: %v", err)
		}
		if len(f.ledger.Keys) != 2 || f.ledger.Keys[0] == f.ledger.Keys[1] {
			t.Errorf("expected two distinct keys, got %v", f.ledger.Keys)
		}
	})

	t.Run("invalid amount rejected before any call", func(t *testing.T) {
		f := newDepositFixture(t)

		for _, amount := range []int64{0, -1} {
			if _, err := f.uc.Simulate(ctx, f.accountID, amount); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("amount %d: expected ErrValidation, got %v", amount, err)
			}
		}
		if len(f.ledger.Keys) != 0 {
			t.Errorf("no key may be minted, got %v", f.ledger.Keys)
		}
	})

	t.Run("refresh failure after posting is surfaced", func(t *testing.T) {
		f := newDepositFixture(t)
		f.ledger.GetAccountFunc = func(ctx context.Context, accountID int64) (*domain.Account, error) {
			return nil, errors.New("refresh down")
		}

		_, err := f.uc.Simulate(ctx, f.accountID, 100)
		if err == nil || !strings.Contains(err.Error(), "posted but refresh failed") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejected while gate is held", func(t *testing.T) {
		f := newDepositFixture(t)

		release, err := f.gate.TryAcquire()
		if err != nil {
			t.Fatalf("acquire gate: %v", err)
		}
		defer release()

		if _, err := f.uc.Simulate(ctx, f.accountID, 100); !errors.Is(err, domain.ErrOperationInFlight) {
			t.Errorf("expected ErrOperationInFlight, got %v", err)
		}
	})
}

func TestDepositUseCase_BeginCard(t *testing.T) {
	ctx := context.Background()

	t.Run("fails fast without a confirmation provider", func(t *testing.T) {
		f := newDepositFixture(t)
		uc := usecase.NewDepositUseCase(f.ledger, nil, mocks.NewMockKeyFactory(),
			usecase.NewAccountView(f.ledger, nil, 0), f.gate, f.rec, zerolog.Nop())

		_, err := uc.BeginCard(ctx, f.accountID, 100)
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
		if len(f.ledger.Keys) != 0 {
			t.Errorf("no intent may be created, got keys %v", f.ledger.Keys)
		}
		// The gate must still be free for other actions.
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free after configuration failure: %v", err)
		}
	})

	t.Run("holds the gate for the whole handshake", func(t *testing.T) {
		f := newDepositFixture(t)

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if card.Phase() != domain.PhaseAwaitingConfirmation {
			t.Errorf("expected awaiting_confirmation, got %s", card.Phase())
		}

		if _, err := f.uc.Simulate(ctx, f.accountID, 100); !errors.Is(err, domain.ErrOperationInFlight) {
			t.Errorf("expected ErrOperationInFlight during handshake, got %v", err)
		}
	})

	t.Run("intent creation failure releases the gate", func(t *testing.T) {
		f := newDepositFixture(t)
		f.ledger.CreatePaymentIntentFunc = func(ctx context.Context, amountCents int64, key string) (*domain.PaymentIntent, error) {
			return nil, &domain.ServerError{Status: 503, Detail: "try later"}
		}

		if _, err := f.uc.BeginCard(ctx, f.accountID, 1000); err == nil {
			t.Fatal("expected error")
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free after failed begin: %v", err)
		}
	})
}

func TestCardDeposit_ConfirmAndCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("credit key is fresh and distinct from the intent key", func(t *testing.T) {
		f := newDepositFixture(t)

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if card.Phase() != domain.PhaseConfirmed {
			t.Fatalf("expected confirmed, got %s", card.Phase())
		}

		receipt, err := card.Credit(ctx)
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
		if receipt.NewBalanceCents != 1000 {
			t.Errorf("expected balance 1000, got %d", receipt.NewBalanceCents)
		}
		if card.Phase() != domain.PhaseCredited {
			t.Errorf("expected credited, got %s", card.Phase())
		}

		// Two mutating calls, two distinct keys: intent then credit.
		if len(f.ledger.Keys) != 2 || f.ledger.Keys[0] == f.ledger.Keys[1] {
			t.Errorf("expected distinct intent and credit keys, got %v", f.ledger.Keys)
		}

		// Terminal state releases the gate.
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free after credited: %v", err)
		}
	})

	t.Run("decline voids the intent and releases the gate", func(t *testing.T) {
		f := newDepositFixture(t)
		f.confirmer.ConfirmFunc = func(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
			return &domain.Confirmation{Status: domain.ConfirmationRequiresPaymentMethod}, nil
		}

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}

		err = card.Confirm(ctx)
		if !errors.Is(err, domain.ErrProcessorDeclined) {
			t.Fatalf("expected ErrProcessorDeclined, got %v", err)
		}
		if card.IntentID() != "" {
			t.Error("declined intent id must be erased")
		}

		// Credit after a decline is a phase violation, not a retry.
		if _, err := card.Credit(ctx); !errors.Is(err, domain.ErrPhase) {
			t.Errorf("expected ErrPhase, got %v", err)
		}
		// Only the intent-creation key was ever used.
		if len(f.ledger.Keys) != 1 {
			t.Errorf("declined deposit must never credit, got keys %v", f.ledger.Keys)
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free after decline: %v", err)
		}
	})

	t.Run("transport failure leaves confirmation retryable", func(t *testing.T) {
		f := newDepositFixture(t)
		calls := 0
		f.confirmer.ConfirmFunc = func(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("socket closed")
			}
			return &domain.Confirmation{Status: domain.ConfirmationSucceeded}, nil
		}

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}

		if err := card.Confirm(ctx); err == nil {
			t.Fatal("expected transport error")
		}
		if card.Phase() != domain.PhaseAwaitingConfirmation {
			t.Fatalf("phase must be unchanged after transport failure, got %s", card.Phase())
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("second confirm: %v", err)
		}
	})

	t.Run("second confirm in confirmed phase is rejected", func(t *testing.T) {
		f := newDepositFixture(t)

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := card.Confirm(ctx); !errors.Is(err, domain.ErrPhase) {
			t.Errorf("expected ErrPhase, got %v", err)
		}
	})
}

func TestCardDeposit_CreditFailure(t *testing.T) {
	ctx := context.Background()

	confirmedCard := func(t *testing.T, f *depositFixture) *usecase.CardDeposit {
		t.Helper()
		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		return card
	}

	t.Run("failed credit is a reconciliation gap with a stable key", func(t *testing.T) {
		f := newDepositFixture(t)
		fails := 2
		real := f.ledger.CreditAfterConfirmationFunc
		f.ledger.CreditAfterConfirmationFunc = func(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
			if fails > 0 {
				fails--
				return nil, &domain.ServerError{Status: 503, Detail: "ledger busy"}
			}
			if real != nil {
				return real(ctx, accountID, intentID, amountCents, key)
			}
			return &domain.DepositResult{TransactionID: 9, NewBalanceCents: amountCents}, nil
		}

		card := confirmedCard(t, f)

		_, err := card.Credit(ctx)
		var gap *domain.ReconciliationGapError
		if !errors.As(err, &gap) {
			t.Fatalf("expected ReconciliationGapError, got %v", err)
		}
		if gap.AmountCents != 1000 {
			t.Errorf("gap must carry the amount, got %d", gap.AmountCents)
		}
		if card.Phase() != domain.PhaseCreditFailed {
			t.Fatalf("expected credit_failed, got %s", card.Phase())
		}

		// The gate stays held: the session has a pending credit.
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); !errors.Is(err, domain.ErrOperationInFlight) {
			t.Errorf("expected ErrOperationInFlight with pending credit, got %v", err)
		}

		// Resubmit until it lands; every attempt must reuse the same key.
		if _, err := card.Credit(ctx); err == nil {
			t.Fatal("second attempt should still fail")
		}
		if _, err := card.Credit(ctx); err != nil {
			t.Fatalf("third attempt should succeed: %v", err)
		}

		// Keys: intent, then one credit key repeated three times.
		if len(f.ledger.Keys) != 4 {
			t.Fatalf("expected 4 mutating calls, got %v", f.ledger.Keys)
		}
		creditKey := f.ledger.Keys[1]
		for _, k := range f.ledger.Keys[1:] {
			if k != creditKey {
				t.Errorf("credit key changed between attempts: %v", f.ledger.Keys)
			}
		}
	})

	t.Run("abandon is refused while a credit is pending", func(t *testing.T) {
		f := newDepositFixture(t)
		f.ledger.CreditAfterConfirmationFunc = func(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
			return nil, &domain.ServerError{Status: 503, Detail: "ledger busy"}
		}

		card := confirmedCard(t, f)
		if _, err := card.Credit(ctx); err == nil {
			t.Fatal("expected credit failure")
		}

		err := card.Abandon()
		var gap *domain.ReconciliationGapError
		if !errors.As(err, &gap) {
			t.Errorf("expected refusal as ReconciliationGapError, got %v", err)
		}
	})

	t.Run("abandon is refused after a succeeded confirmation", func(t *testing.T) {
		f := newDepositFixture(t)

		// Confirmed means the processor already captured the charge;
		// walking away here would strand the funds.
		card := confirmedCard(t, f)

		err := card.Abandon()
		var gap *domain.ReconciliationGapError
		if !errors.As(err, &gap) {
			t.Fatalf("expected refusal as ReconciliationGapError, got %v", err)
		}
		if gap.AmountCents != 1000 {
			t.Errorf("gap must carry the amount, got %d", gap.AmountCents)
		}
		if card.Phase() != domain.PhaseConfirmed {
			t.Fatalf("refused abandon must not change the phase, got %s", card.Phase())
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); !errors.Is(err, domain.ErrOperationInFlight) {
			t.Errorf("gate must stay held after refused abandon, got %v", err)
		}

		// The captured charge is still creditable.
		receipt, err := card.Credit(ctx)
		if err != nil {
			t.Fatalf("credit after refused abandon: %v", err)
		}
		if receipt.NewBalanceCents != 1000 {
			t.Errorf("expected balance 1000, got %d", receipt.NewBalanceCents)
		}
	})

	t.Run("abandon after a decline is a no-op", func(t *testing.T) {
		f := newDepositFixture(t)
		f.confirmer.ConfirmFunc = func(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
			return &domain.Confirmation{Status: domain.ConfirmationRequiresPaymentMethod}, nil
		}

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); !errors.Is(err, domain.ErrProcessorDeclined) {
			t.Fatalf("expected ErrProcessorDeclined, got %v", err)
		}

		// The decline already voided the handshake and freed the gate.
		if err := card.Abandon(); err != nil {
			t.Fatalf("abandon after decline: %v", err)
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free, got %v", err)
		}
	})

	t.Run("abandon before confirmation frees the session", func(t *testing.T) {
		f := newDepositFixture(t)

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Abandon(); err != nil {
			t.Fatalf("abandon: %v", err)
		}
		if card.Phase() != domain.PhaseIdle {
			t.Errorf("expected idle after abandon, got %s", card.Phase())
		}
		if _, err := f.uc.Simulate(ctx, f.accountID, 100); err != nil {
			t.Errorf("gate should be free after abandon: %v", err)
		}
	})

	t.Run("refresh failure after a posted credit stays retryable", func(t *testing.T) {
		f := newDepositFixture(t)
		refreshDown := true
		f.ledger.GetAccountFunc = func(ctx context.Context, accountID int64) (*domain.Account, error) {
			if refreshDown {
				return nil, errors.New("refresh down")
			}
			return &domain.Account{AccountID: accountID, UserID: accountID, Currency: "USD", BalanceCents: 1000}, nil
		}

		card := confirmedCard(t, f)

		if _, err := card.Credit(ctx); err == nil || !strings.Contains(err.Error(), "posted but refresh failed") {
			t.Fatalf("unexpected error: %v", err)
		}
		if card.Phase() != domain.PhaseCreditFailed {
			t.Fatalf("expected credit_failed, got %s", card.Phase())
		}

		refreshDown = false
		if _, err := card.Credit(ctx); err != nil {
			t.Fatalf("retry after refresh recovery: %v", err)
		}
	})
}

func TestCardDeposit_CreditWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries transport failures with the same key", func(t *testing.T) {
		f := newDepositFixture(t)
		fails := 2
		real := f.ledger.CreditAfterConfirmationFunc
		f.ledger.CreditAfterConfirmationFunc = func(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
			if fails > 0 {
				fails--
				return nil, domain.ErrNetwork
			}
			if real != nil {
				return real(ctx, accountID, intentID, amountCents, key)
			}
			return &domain.DepositResult{TransactionID: 9, NewBalanceCents: amountCents}, nil
		}

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}

		receipt, err := card.CreditWithRetry(ctx, 5*time.Second)
		if err != nil {
			t.Fatalf("credit with retry: %v", err)
		}
		if receipt.NewBalanceCents != 1000 {
			t.Errorf("expected balance 1000, got %d", receipt.NewBalanceCents)
		}

		creditKey := f.ledger.Keys[1]
		for _, k := range f.ledger.Keys[1:] {
			if k != creditKey {
				t.Errorf("key changed across retries: %v", f.ledger.Keys)
			}
		}
	})

	t.Run("non-transport failure is permanent", func(t *testing.T) {
		f := newDepositFixture(t)
		attempts := 0
		f.ledger.CreditAfterConfirmationFunc = func(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
			attempts++
			return nil, &domain.ServerError{Status: 400, Detail: "Amount mismatch"}
		}

		card, err := f.uc.BeginCard(ctx, f.accountID, 1000)
		if err != nil {
			t.Fatalf("begin card: %v", err)
		}
		if err := card.Confirm(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}

		_, err = card.CreditWithRetry(ctx, 5*time.Second)
		var gap *domain.ReconciliationGapError
		if !errors.As(err, &gap) {
			t.Fatalf("expected ReconciliationGapError, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("server rejection must not be retried, got %d attempts", attempts)
		}
	})
}
