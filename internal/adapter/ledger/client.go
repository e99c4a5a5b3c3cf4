// Package ledger is the typed HTTP client for the ledger service. It owns
// the wire contract only; sequencing and retry policy live in the
// orchestrators.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
)

// IdempotencyKeyHeader is the request header carrying the client key for
// mutating calls.
const IdempotencyKeyHeader = "Idempotency-Key"

// Client talks to the ledger service over its HTTP contract.
type Client struct {
	baseURL  string
	currency string
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a Client for the given base URL. All amounts are
// integer minor units in the configured currency.
func NewClient(baseURL, currency string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: currency,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// CreateOrFetchAccount creates or fetches the account for an email.
// Idempotent by email on the server: repeated calls return the same
// account.
func (c *Client) CreateOrFetchAccount(ctx context.Context, email, name string) (*domain.Account, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	var resp accountResponse
	err := c.do(ctx, http.MethodPost, "/accounts", nil, createAccountRequest{Email: email, Name: name}, "", &resp)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// GetAccount fetches the authoritative account snapshot.
func (c *Client) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	var resp accountResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+strconv.FormatInt(accountID, 10), nil, nil, "", &resp)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// ListTransactions lists entries for an account, newest first.
func (c *Client) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.TransactionItem, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("accountId", strconv.FormatInt(accountID, 10))
	query.Set("limit", strconv.Itoa(domain.ClampListLimit(limit)))

	var resp transactionsResponse
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, "", &resp); err != nil {
		return nil, err
	}

	items := make([]domain.TransactionItem, len(resp.Items))
	for i, it := range resp.Items {
		items[i] = it.toDomain()
	}
	return items, nil
}

// DepositSimulate posts a server-simulated instant deposit. The amount is
// rejected locally, before any network call, unless it is a positive
// number of cents.
func (c *Client) DepositSimulate(ctx context.Context, accountID, amountCents int64, key string) (*domain.DepositResult, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, err
	}

	var resp depositResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/accounts/%d/deposit", accountID), nil, depositRequest{
		AmountCents: amountCents,
		Currency:    c.currency,
		Simulate:    true,
	}, key, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.DepositResult{TransactionID: resp.TransactionID, NewBalanceCents: resp.NewBalanceCents}, nil
}

// CreatePaymentIntent registers a card charge with the processor via the
// ledger and returns the handshake material.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64, key string) (*domain.PaymentIntent, error) {
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, err
	}

	var resp createIntentResponse
	err := c.do(ctx, http.MethodPost, "/stripe/create-payment-intent", nil, createIntentRequest{
		AmountCents: amountCents,
		Currency:    c.currency,
	}, key, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ClientSecret == "" {
		return nil, &domain.ServerError{Status: http.StatusOK, Detail: "ledger did not return a client secret"}
	}
	return &domain.PaymentIntent{IntentID: resp.PaymentIntentID, IntentSecret: resp.ClientSecret}, nil
}

// CreditAfterConfirmation requests the ledger credit for a confirmed
// intent. The server re-verifies the intent with the processor before
// posting; this call only ever requests.
func (c *Client) CreditAfterConfirmation(ctx context.Context, accountID int64, intentID string, amountCents int64, key string) (*domain.DepositResult, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, err
	}
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment intent id is required", domain.ErrValidation)
	}

	var resp depositResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/accounts/%d/deposit/stripe", accountID), nil, stripeDepositRequest{
		PaymentIntentID: intentID,
		AmountCents:     amountCents,
		Currency:        c.currency,
	}, key, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.DepositResult{TransactionID: resp.TransactionID, NewBalanceCents: resp.NewBalanceCents}, nil
}

// Transfer moves funds between two accounts as one double-entry group.
func (c *Client) Transfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, key string) (*domain.TransferResult, error) {
	if err := domain.ValidateAccountID(fromAccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountID(toAccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmountCents(amountCents); err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, domain.ErrSameAccount
	}

	var resp transferResponse
	err := c.do(ctx, http.MethodPost, "/transfers", nil, transferRequest{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		AmountCents:   amountCents,
		Currency:      c.currency,
	}, key, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		TransferGroupID:  resp.TransferGroupID,
		FromBalanceCents: resp.FromBalanceCents,
		ToBalanceCents:   resp.ToBalanceCents,
	}, nil
}

// do performs one request. A non-empty key is attached as the
// Idempotency-Key header. Transport failures map to domain.ErrNetwork,
// non-2xx responses to *domain.ServerError with the JSON detail verbatim
// when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, key string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(data)
		var payload errorResponse
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			detail = payload.Detail
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("detail", detail).
			Msg("ledger rejected request")
		return &domain.ServerError{Status: resp.StatusCode, Detail: detail}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
