package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
)

// DepositUseCase drives the two deposit paths: server-simulated instant
// credit and externally confirmed card payment.
type DepositUseCase struct {
	ledger    LedgerGateway
	confirmer CardConfirmer // nil when no provider is configured
	keys      KeyFactory
	view      *AccountView
	gate      *ActionGate
	rec       Recorder
	log       zerolog.Logger
}

// NewDepositUseCase creates a DepositUseCase. confirmer may be nil; the
// card path then fails fast with a configuration error.
func NewDepositUseCase(
	ledger LedgerGateway,
	confirmer CardConfirmer,
	keys KeyFactory,
	view *AccountView,
	gate *ActionGate,
	rec Recorder,
	log zerolog.Logger,
) *DepositUseCase {
	return &DepositUseCase{
		ledger:    ledger,
		confirmer: confirmer,
		keys:      keys,
		view:      view,
		gate:      gate,
		rec:       rec,
		log:       log,
	}
}

// DepositReceipt reports a completed deposit. It is only produced after
// the account view has been refreshed from the ledger.
type DepositReceipt struct {
	TransactionID   int64
	NewBalanceCents int64
}

// Simulate performs a server-simulated instant deposit: one fresh key,
// one ledger call, then a mandatory refresh before completion is
// reported.
func (uc *DepositUseCase) Simulate(ctx context.Context, accountID, amountCents int64) (*DepositReceipt, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, uc.done("deposit_simulate", err)
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, uc.done("deposit_simulate", err)
	}

	release, err := uc.gate.TryAcquire()
	if err != nil {
		return nil, uc.done("deposit_simulate", err)
	}
	defer release()

	key := uc.keys.NewKey()
	uc.log.Debug().Str("phase", string(domain.PhaseSimulatedPosting)).
		Int64("account_id", accountID).Int64("amount_cents", amountCents).
		Str("idempotency_key", key).Msg("posting simulated deposit")

	res, err := uc.ledger.DepositSimulate(ctx, accountID, amountCents, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("phase", string(domain.PhaseSimulatedFailed)).
			Int64("account_id", accountID).Msg("simulated deposit failed")
		return nil, uc.done("deposit_simulate", err)
	}

	if err := uc.view.Refresh(ctx, accountID); err != nil {
		// The deposit is posted; only the local view is stale. The caller
		// must not report completion until a refresh lands.
		return nil, uc.done("deposit_simulate",
			fmt.Errorf("deposit %d posted but refresh failed: %w", res.TransactionID, err))
	}

	uc.log.Info().Str("phase", string(domain.PhaseSimulatedDone)).
		Int64("transaction_id", res.TransactionID).
		Int64("new_balance_cents", res.NewBalanceCents).Msg("simulated deposit done")

	uc.done("deposit_simulate", nil)
	return &DepositReceipt{
		TransactionID:   res.TransactionID,
		NewBalanceCents: res.NewBalanceCents,
	}, nil
}

// CardDeposit is one in-flight externally confirmed deposit. It owns the
// payment-intent handshake and the session gate for the whole
// confirmation window; it is discarded after a terminal transition or
// Abandon. Not safe for concurrent use: it models a single user flow.
type CardDeposit struct {
	uc          *DepositUseCase
	accountID   int64
	amountCents int64
	handshake   domain.PaymentIntentHandshake
	creditKey   string
	release     func()
}

// BeginCard opens the card deposit path: it registers a payment intent
// with the ledger under a fresh key and hands back the handshake awaiting
// confirmation. On failure nothing is retained and the gate is released.
func (uc *DepositUseCase) BeginCard(ctx context.Context, accountID, amountCents int64) (*CardDeposit, error) {
	if uc.confirmer == nil {
		return nil, uc.done("card_begin",
			fmt.Errorf("%w: card confirmation provider is not configured", domain.ErrConfiguration))
	}
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, uc.done("card_begin", err)
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, uc.done("card_begin", err)
	}

	release, err := uc.gate.TryAcquire()
	if err != nil {
		return nil, uc.done("card_begin", err)
	}

	key := uc.keys.NewKey()
	uc.log.Debug().Str("phase", string(domain.PhaseIntentRequested)).
		Int64("amount_cents", amountCents).Str("idempotency_key", key).
		Msg("creating payment intent")

	intent, err := uc.ledger.CreatePaymentIntent(ctx, amountCents, key)
	if err != nil {
		release()
		return nil, uc.done("card_begin", err)
	}

	uc.done("card_begin", nil)
	return &CardDeposit{
		uc:          uc,
		accountID:   accountID,
		amountCents: amountCents,
		handshake: domain.PaymentIntentHandshake{
			IntentID:     intent.IntentID,
			IntentSecret: intent.IntentSecret,
			Phase:        domain.PhaseAwaitingConfirmation,
		},
		release: release,
	}, nil
}

// Phase exposes the current state of this deposit.
func (d *CardDeposit) Phase() domain.DepositPhase { return d.handshake.Phase }

// IntentID exposes the ledger-registered intent, empty once voided.
func (d *CardDeposit) IntentID() string { return d.handshake.IntentID }

// Confirm delegates to the confirmation provider using the intent secret.
// Only an observed "succeeded" status unlocks the credit step; any other
// status voids the intent and ends the attempt with a decline error. A
// transport failure leaves the phase unchanged so Confirm may be called
// again.
func (d *CardDeposit) Confirm(ctx context.Context) error {
	if !domain.ValidPhaseTransition(d.handshake.Phase, domain.PhaseConfirmed) {
		return fmt.Errorf("%w: confirm called in phase %s", domain.ErrPhase, d.handshake.Phase)
	}

	conf, err := d.uc.confirmer.Confirm(ctx, d.handshake.IntentSecret)
	if err != nil {
		return d.uc.done("card_confirm", err)
	}

	if !conf.Succeeded() {
		d.uc.log.Warn().Str("intent_id", d.handshake.IntentID).
			Str("status", conf.Status).Msg("confirmation declined, voiding intent")
		d.handshake.Void()
		d.release()
		return d.uc.done("card_confirm",
			fmt.Errorf("%w: status %q for intent %s", domain.ErrProcessorDeclined, conf.Status, conf.IntentID))
	}
	if conf.IntentID != "" && conf.IntentID != d.handshake.IntentID {
		d.handshake.Void()
		d.release()
		return d.uc.done("card_confirm",
			fmt.Errorf("%w: provider confirmed intent %s, expected %s",
				domain.ErrProcessorDeclined, conf.IntentID, d.handshake.IntentID))
	}

	d.handshake.Phase = domain.PhaseConfirmed
	// The credit key is minted exactly once, here, distinct from the
	// intent-creation key, and bound to (account, intent, amount) for
	// every subsequent credit attempt.
	d.creditKey = d.uc.keys.NewKey()

	d.uc.log.Info().Str("intent_id", d.handshake.IntentID).Msg("confirmation succeeded")
	return d.uc.done("card_confirm", nil)
}

// Credit asks the ledger to post the confirmed deposit. Legal only from
// Confirmed or CreditFailed; every attempt reuses the key minted at
// confirmation, so resubmission is safe. A failure is a reconciliation
// gap: the processor may already hold the funds, so the attempt must be
// resubmitted, never discarded.
func (d *CardDeposit) Credit(ctx context.Context) (*DepositReceipt, error) {
	if !domain.ValidPhaseTransition(d.handshake.Phase, domain.PhaseCrediting) {
		return nil, fmt.Errorf("%w: credit called in phase %s", domain.ErrPhase, d.handshake.Phase)
	}

	d.handshake.Phase = domain.PhaseCrediting
	res, err := d.uc.ledger.CreditAfterConfirmation(ctx, d.accountID, d.handshake.IntentID, d.amountCents, d.creditKey)
	if err != nil {
		d.handshake.Phase = domain.PhaseCreditFailed
		gap := &domain.ReconciliationGapError{
			IntentID:    d.handshake.IntentID,
			AmountCents: d.amountCents,
			Err:         err,
		}
		d.uc.log.Error().Err(err).Str("intent_id", d.handshake.IntentID).
			Msg("credit failed after succeeded confirmation, funds may be captured")
		return nil, d.uc.done("card_credit", gap)
	}

	if err := d.uc.view.Refresh(ctx, d.accountID); err != nil {
		// Credit is posted; replaying the same key is harmless and will
		// re-run the refresh, so stay in the retryable state.
		d.handshake.Phase = domain.PhaseCreditFailed
		return nil, d.uc.done("card_credit",
			fmt.Errorf("credit %d posted but refresh failed: %w", res.TransactionID, err))
	}

	d.handshake.Phase = domain.PhaseCredited
	d.handshake.IntentSecret = ""
	d.release()

	d.uc.log.Info().Int64("transaction_id", res.TransactionID).
		Int64("new_balance_cents", res.NewBalanceCents).Msg("card deposit credited")

	d.uc.done("card_credit", nil)
	return &DepositReceipt{
		TransactionID:   res.TransactionID,
		NewBalanceCents: res.NewBalanceCents,
	}, nil
}

// CreditWithRetry resubmits Credit with exponential backoff while the
// failure is transport-level. Every attempt carries the same key; any
// other failure class is returned immediately for the caller to decide.
func (d *CardDeposit) CreditWithRetry(ctx context.Context, maxElapsed time.Duration) (*DepositReceipt, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed

	var receipt *DepositReceipt
	operation := func() error {
		r, err := d.Credit(ctx)
		if err == nil {
			receipt = r
			return nil
		}
		if errors.Is(err, domain.ErrNetwork) {
			d.uc.log.Warn().Err(err).Msg("credit resubmission pending, retrying with same key")
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Abandon discards the handshake without crediting, e.g. when the user
// navigates away while awaiting confirmation. It is refused anywhere from
// the Confirmed phase on: the processor has already reported a capture,
// so that state must be resubmitted or surfaced as a pending credit,
// never dropped.
func (d *CardDeposit) Abandon() error {
	switch d.handshake.Phase {
	case domain.PhaseConfirmed, domain.PhaseCrediting, domain.PhaseCreditFailed:
		return &domain.ReconciliationGapError{
			IntentID:    d.handshake.IntentID,
			AmountCents: d.amountCents,
			Err:         errors.New("abandon refused while credit is pending"),
		}
	}
	if d.handshake.Phase.Terminal() {
		return nil
	}
	if !domain.ValidPhaseTransition(d.handshake.Phase, domain.PhaseIdle) {
		// Already voided, by a decline or an earlier abandon.
		return nil
	}

	d.uc.log.Debug().Str("intent_id", d.handshake.IntentID).Msg("card deposit abandoned")
	d.handshake.Void()
	d.handshake.Phase = domain.PhaseIdle
	d.release()
	return nil
}

func (uc *DepositUseCase) done(op string, err error) error {
	if uc.rec != nil {
		uc.rec.ObserveOperation(op, err)
	}
	return err
}
