package domain

import "time"

// EntryType categorizes a ledger entry.
type EntryType string

const (
	EntryDeposit     EntryType = "deposit"
	EntryTransferIn  EntryType = "transfer_in"
	EntryTransferOut EntryType = "transfer_out"
	EntryAdjustment  EntryType = "adjustment"
)

// EntryStatus is the posting status of a ledger entry.
type EntryStatus string

const (
	StatusPending EntryStatus = "pending"
	StatusPosted  EntryStatus = "posted"
	StatusFailed  EntryStatus = "failed"
)

// TransactionItem is one immutable ledger entry as reported by the ledger
// service. Two items sharing a TransferGroupID are the two legs of one
// transfer and always exist together.
type TransactionItem struct {
	ID              int64
	AccountID       int64
	Type            EntryType
	Status          EntryStatus
	AmountCents     int64
	Currency        string
	TransferGroupID string
	RelatedEntryID  *int64
	CreatedAt       time.Time
}
