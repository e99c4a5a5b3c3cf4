// Package idgen provides the idempotency key factory.
package idgen

import "github.com/oklog/ulid/v2"

// ULIDFactory mints ULID idempotency keys. ULIDs are unique and sortable,
// which makes key reuse across retries easy to spot in server logs.
type ULIDFactory struct{}

// NewULIDFactory creates a new ULIDFactory.
func NewULIDFactory() *ULIDFactory {
	return &ULIDFactory{}
}

// NewKey mints a fresh key. Callers mint one key per logical user action
// and thread it through every retry of that action.
func (f *ULIDFactory) NewKey() string {
	return ulid.Make().String()
}
