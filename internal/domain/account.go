package domain

// Account is the client-side copy of a ledger account. The ledger service
// owns the balance; this value is replaced wholesale on refresh and never
// mutated locally.
type Account struct {
	AccountID    int64
	UserID       int64
	Currency     string
	BalanceCents int64
}
