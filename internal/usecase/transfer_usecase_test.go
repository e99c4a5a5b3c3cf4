package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
	"github.com/iho/walletflow/internal/usecase"
	"github.com/iho/walletflow/internal/usecase/mocks"
)

func newTransferFixture(ledger *mocks.MockLedgerGateway) (*usecase.TransferUseCase, *usecase.ActionGate) {
	gate := usecase.NewActionGate()
	view := usecase.NewAccountView(ledger, nil, 0)
	uc := usecase.NewTransferUseCase(ledger, mocks.NewMockKeyFactory(), view, gate, mocks.NewMockRecorder(), zerolog.Nop())
	return uc, gate
}

func TestTransferUseCase_SendByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("successful transfer uses one fresh key", func(t *testing.T) {
		ledger := mocks.NewMockLedgerGateway()
		uc, _ := newTransferFixture(ledger)

		sender, err := ledger.CreateOrFetchAccount(ctx, "sender@example.com", "")
		if err != nil {
			t.Fatalf("seed sender: %v", err)
		}
		if _, err := ledger.DepositSimulate(ctx, sender.AccountID, 5000, "seed"); err != nil {
			t.Fatalf("seed balance: %v", err)
		}

		receipt, err := uc.SendByEmail(ctx, sender.AccountID, "friend@example.com", 2000)
		if err != nil {
			t.Fatalf("transfer failed: %v", err)
		}
		if receipt.FromBalanceCents != 3000 {
			t.Errorf("expected sender balance 3000, got %d", receipt.FromBalanceCents)
		}
		if receipt.ToBalanceCents != 2000 {
			t.Errorf("expected recipient balance 2000, got %d", receipt.ToBalanceCents)
		}
		if receipt.RecipientAccountID == sender.AccountID {
			t.Error("recipient resolved to the sender")
		}
		// Keys: the seed deposit, then exactly one for the transfer.
		if len(ledger.Keys) != 2 || ledger.Keys[1] != "key-1" {
			t.Errorf("expected one fresh transfer key, got %v", ledger.Keys)
		}
	})

	t.Run("validation failures never reach the ledger", func(t *testing.T) {
		tests := []struct {
			name   string
			from   int64
			email  string
			amount int64
		}{
			{"zero amount", 1, "friend@example.com", 0},
			{"negative amount", 1, "friend@example.com", -100},
			{"malformed email", 1, "not-an-email", 100},
			{"bad from account", 0, "friend@example.com", 100},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ledger := mocks.NewMockLedgerGateway()
				ledger.TransferFunc = func(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error) {
					t.Error("transfer must not be submitted")
					return nil, nil
				}
				uc, _ := newTransferFixture(ledger)

				_, err := uc.SendByEmail(ctx, tt.from, tt.email, tt.amount)
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if len(ledger.Keys) != 0 {
					t.Errorf("no key may be minted for invalid input, got %v", ledger.Keys)
				}
			})
		}
	})

	t.Run("self transfer rejected after recipient resolution", func(t *testing.T) {
		ledger := mocks.NewMockLedgerGateway()
		uc, _ := newTransferFixture(ledger)

		sender, err := ledger.CreateOrFetchAccount(ctx, "solo@example.com", "")
		if err != nil {
			t.Fatalf("seed sender: %v", err)
		}

		_, err = uc.SendByEmail(ctx, sender.AccountID, "solo@example.com", 100)
		if !errors.Is(err, domain.ErrSameAccount) {
			t.Errorf("expected ErrSameAccount, got %v", err)
		}
		if len(ledger.Keys) != 0 {
			t.Errorf("no transfer key may be minted, got %v", ledger.Keys)
		}
	})

	t.Run("ledger rejection surfaces verbatim", func(t *testing.T) {
		ledger := mocks.NewMockLedgerGateway()
		ledger.TransferFunc = func(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error) {
			return nil, &domain.ServerError{Status: 402, Detail: "Insufficient funds"}
		}
		uc, _ := newTransferFixture(ledger)

		_, err := uc.SendByEmail(ctx, 99, "friend@example.com", 100)
		var srv *domain.ServerError
		if !errors.As(err, &srv) || srv.Status != 402 {
			t.Errorf("expected 402 ServerError, got %v", err)
		}
	})

	t.Run("refresh failure after posting is surfaced", func(t *testing.T) {
		ledger := mocks.NewMockLedgerGateway()
		ledger.GetAccountFunc = func(ctx context.Context, accountID int64) (*domain.Account, error) {
			return nil, errors.New("refresh down")
		}
		uc, _ := newTransferFixture(ledger)

		_, err := uc.SendByEmail(ctx, 99, "friend@example.com", 100)
		if err == nil {
			t.Fatal("expected error")
		}
		// The transfer itself was posted; the error must say so rather
		// than imply the transfer failed.
		if got := err.Error(); !strings.Contains(got, "posted but refresh failed") {
			t.Errorf("unexpected error text: %q", got)
		}
	})

	t.Run("rejected while another action holds the gate", func(t *testing.T) {
		ledger := mocks.NewMockLedgerGateway()
		uc, gate := newTransferFixture(ledger)

		release, err := gate.TryAcquire()
		if err != nil {
			t.Fatalf("acquire gate: %v", err)
		}
		defer release()

		_, err = uc.SendByEmail(ctx, 1, "friend@example.com", 100)
		if !errors.Is(err, domain.ErrOperationInFlight) {
			t.Errorf("expected ErrOperationInFlight, got %v", err)
		}
	})
}
