package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Transaction list limits, matching the ledger's query bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateAmountCents validates a minor-unit amount for any mutating
// call. Amounts are integer cents end to end; there is no float currency
// arithmetic anywhere in this layer.
func ValidateAmountCents(amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("%w: amount must be a positive number of cents", ErrValidation)
	}
	return nil
}

// ValidateEmail validates a recipient or owner identifier.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: %q is not a valid email", ErrValidation, email)
	}
	return nil
}

// ValidateAccountID validates a ledger account reference.
func ValidateAccountID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: account id must be positive", ErrValidation)
	}
	return nil
}

// ClampListLimit bounds a transaction listing limit to what the ledger
// accepts.
func ClampListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
