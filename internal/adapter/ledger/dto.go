package ledger

import (
	"time"

	"github.com/iho/walletflow/internal/domain"
)

// Wire shapes of the ledger contract. Field names follow the service's
// JSON exactly.

type createAccountRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type accountResponse struct {
	UserID       int64  `json:"userId"`
	AccountID    int64  `json:"accountId"`
	Currency     string `json:"currency"`
	BalanceCents int64  `json:"balanceCents"`
}

func (r *accountResponse) toDomain() *domain.Account {
	return &domain.Account{
		AccountID:    r.AccountID,
		UserID:       r.UserID,
		Currency:     r.Currency,
		BalanceCents: r.BalanceCents,
	}
}

type depositRequest struct {
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Simulate    bool   `json:"simulate"`
}

type depositResponse struct {
	TransactionID   int64 `json:"transactionId"`
	NewBalanceCents int64 `json:"newBalanceCents"`
}

type createIntentRequest struct {
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

type createIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type stripeDepositRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
}

type transferRequest struct {
	FromAccountID int64  `json:"fromAccountId"`
	ToAccountID   int64  `json:"toAccountId"`
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
}

type transferResponse struct {
	TransferGroupID  string `json:"transferGroupId"`
	FromBalanceCents int64  `json:"fromBalanceCents"`
	ToBalanceCents   int64  `json:"toBalanceCents"`
}

type transactionItem struct {
	ID              int64     `json:"id"`
	AccountID       int64     `json:"accountId"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	TransferGroupID *string   `json:"transferGroupId"`
	RelatedEntryID  *int64    `json:"relatedEntryId"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (t *transactionItem) toDomain() domain.TransactionItem {
	item := domain.TransactionItem{
		ID:             t.ID,
		AccountID:      t.AccountID,
		Type:           domain.EntryType(t.Type),
		Status:         domain.EntryStatus(t.Status),
		AmountCents:    t.AmountCents,
		Currency:       t.Currency,
		RelatedEntryID: t.RelatedEntryID,
		CreatedAt:      t.CreatedAt,
	}
	if t.TransferGroupID != nil {
		item.TransferGroupID = *t.TransferGroupID
	}
	return item
}

type transactionsResponse struct {
	AccountID int64             `json:"accountId"`
	Items     []transactionItem `json:"items"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
