package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
)

// TransferUseCase drives peer-to-peer transfers by recipient email.
type TransferUseCase struct {
	ledger LedgerGateway
	keys   KeyFactory
	view   *AccountView
	gate   *ActionGate
	rec    Recorder
	log    zerolog.Logger
}

// NewTransferUseCase creates a TransferUseCase.
func NewTransferUseCase(
	ledger LedgerGateway,
	keys KeyFactory,
	view *AccountView,
	gate *ActionGate,
	rec Recorder,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		ledger: ledger,
		keys:   keys,
		view:   view,
		gate:   gate,
		rec:    rec,
		log:    log,
	}
}

// TransferReceipt reports a completed transfer, including the recipient
// account that was resolved (or provisioned) for the email.
type TransferReceipt struct {
	TransferGroupID    string
	RecipientAccountID int64
	FromBalanceCents   int64
	ToBalanceCents     int64
}

// SendByEmail resolves the recipient by email, submits the transfer under
// a fresh key, and refreshes the sender's view. An unseen recipient is
// auto-provisioned; that is the product decision, not an error path.
func (uc *TransferUseCase) SendByEmail(ctx context.Context, fromAccountID int64, recipientEmail string, amountCents int64) (*TransferReceipt, error) {
	if err := domain.ValidateAccountID(fromAccountID); err != nil {
		return nil, uc.done(err)
	}
	if err := domain.ValidateEmail(recipientEmail); err != nil {
		return nil, uc.done(err)
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, uc.done(err)
	}

	release, err := uc.gate.TryAcquire()
	if err != nil {
		return nil, uc.done(err)
	}
	defer release()

	recipient, err := uc.ledger.CreateOrFetchAccount(ctx, recipientEmail, "")
	if err != nil {
		return nil, uc.done(err)
	}
	if recipient.AccountID == fromAccountID {
		return nil, uc.done(domain.ErrSameAccount)
	}

	key := uc.keys.NewKey()
	uc.log.Debug().Int64("from", fromAccountID).Int64("to", recipient.AccountID).
		Int64("amount_cents", amountCents).Str("idempotency_key", key).
		Msg("submitting transfer")

	res, err := uc.ledger.Transfer(ctx, fromAccountID, recipient.AccountID, amountCents, key)
	if err != nil {
		return nil, uc.done(err)
	}

	if err := uc.view.Refresh(ctx, fromAccountID); err != nil {
		return nil, uc.done(
			fmt.Errorf("transfer %s posted but refresh failed: %w", res.TransferGroupID, err))
	}

	uc.log.Info().Str("transfer_group_id", res.TransferGroupID).
		Int64("from_balance_cents", res.FromBalanceCents).Msg("transfer done")

	uc.done(nil)
	return &TransferReceipt{
		TransferGroupID:    res.TransferGroupID,
		RecipientAccountID: recipient.AccountID,
		FromBalanceCents:   res.FromBalanceCents,
		ToBalanceCents:     res.ToBalanceCents,
	}, nil
}

func (uc *TransferUseCase) done(err error) error {
	if uc.rec != nil {
		uc.rec.ObserveOperation("transfer", err)
	}
	return err
}
