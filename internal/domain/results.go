package domain

// DepositResult is the ledger's answer to a deposit or credit request.
// NewBalanceCents is the authoritative balance; callers still refresh
// before treating the operation as done.
type DepositResult struct {
	TransactionID   int64
	NewBalanceCents int64
}

// PaymentIntent is a server-registered, not-yet-captured card charge.
// The secret authorizes a single client-side confirmation.
type PaymentIntent struct {
	IntentID     string
	IntentSecret string
}

// TransferResult is the ledger's answer to a transfer request.
type TransferResult struct {
	TransferGroupID  string
	FromBalanceCents int64
	ToBalanceCents   int64
}

// Confirmation statuses reported by the card network.
const (
	ConfirmationSucceeded             = "succeeded"
	ConfirmationRequiresPaymentMethod = "requires_payment_method"
)

// Confirmation is the card network's verdict for one payment intent.
type Confirmation struct {
	IntentID string
	Status   string
}

// Succeeded reports whether the intent may proceed to the credit step.
// Anything else voids the intent.
func (c *Confirmation) Succeeded() bool {
	return c.Status == ConfirmationSucceeded
}
