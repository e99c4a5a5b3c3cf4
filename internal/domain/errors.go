package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input caught before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrConfiguration marks a required external capability left unset.
	ErrConfiguration = errors.New("configuration missing")
	// ErrNetwork marks a request that never reached the ledger. Safe to
	// resubmit with the same idempotency key.
	ErrNetwork = errors.New("ledger unreachable")
	// ErrProcessorDeclined marks a confirmation the card network did not
	// report as succeeded. The intent is void; no credit may follow.
	ErrProcessorDeclined = errors.New("card confirmation declined")

	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrOperationInFlight = errors.New("another mutating operation is in flight")
	ErrPhase             = errors.New("operation not allowed in current phase")
)

// ServerError is a non-2xx ledger response, surfaced with status and
// detail verbatim. Retries are never automatic; the caller may resubmit
// with the same key.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("ledger returned %d: %s", e.Status, e.Detail)
}

// ReconciliationGapError is a failed credit after a succeeded
// confirmation: funds may already be captured by the processor but not
// yet credited. Retry-required, not abandon-safe.
type ReconciliationGapError struct {
	IntentID    string
	AmountCents int64
	Err         error
}

func (e *ReconciliationGapError) Error() string {
	return fmt.Sprintf("credit of %d cents for intent %s not posted, resubmit with the same key: %v",
		e.AmountCents, e.IntentID, e.Err)
}

func (e *ReconciliationGapError) Unwrap() error { return e.Err }

// ErrorClass maps an error to its taxonomy bucket, used for metrics
// labels and CLI reporting.
func ErrorClass(err error) string {
	var gap *ReconciliationGapError
	var srv *ServerError
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &gap):
		return "reconciliation_gap"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSameAccount):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrProcessorDeclined):
		return "processor_declined"
	case errors.As(err, &srv):
		return "server"
	default:
		return "other"
	}
}
