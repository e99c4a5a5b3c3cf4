// Package stripe confirms payment intents against the Stripe API in test
// mode. It is the headless stand-in for the browser payment element: it
// only ever confirms a previously created intent and reports the status
// the processor returns.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
)

const (
	// DefaultAPIBaseURL is the live Stripe API endpoint.
	DefaultAPIBaseURL = "https://api.stripe.com"
	// DefaultPaymentMethod is the shared test card.
	DefaultPaymentMethod = "pm_card_visa"
)

// Confirmer implements usecase.CardConfirmer over the Stripe REST API
// using only the publishable key and the intent secret, the same
// capability surface the browser SDK has.
type Confirmer struct {
	publishableKey string
	baseURL        string
	paymentMethod  string
	http           *http.Client
	log            zerolog.Logger
}

// NewConfirmer creates a Confirmer. The publishable key is required; the
// orchestrator treats a nil confirmer as "card path unconfigured".
func NewConfirmer(publishableKey, baseURL string, timeout time.Duration, log zerolog.Logger) (*Confirmer, error) {
	if publishableKey == "" {
		return nil, fmt.Errorf("%w: stripe publishable key is required", domain.ErrConfiguration)
	}
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	return &Confirmer{
		publishableKey: publishableKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		paymentMethod:  DefaultPaymentMethod,
		http:           &http.Client{Timeout: timeout},
		log:            log,
	}, nil
}

// Confirm confirms the intent identified by its secret and returns the
// processor-reported status verbatim. A decline is not an error here; the
// orchestrator decides what a non-succeeded status means.
func (c *Confirmer) Confirm(ctx context.Context, intentSecret string) (*domain.Confirmation, error) {
	intentID, err := IntentIDFromSecret(intentSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("key", c.publishableKey)
	form.Set("client_secret", intentSecret)
	form.Set("payment_method", c.paymentMethod)

	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", c.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading confirm response: %v", domain.ErrNetwork, err)
	}

	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  *struct {
			Message       string `json:"message"`
			PaymentIntent *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"payment_intent"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode confirm response: %w", err)
	}

	if payload.Error != nil {
		// Card declines come back as an error object wrapping the intent,
		// which is then back in requires_payment_method. Report that
		// status; the intent is void for our purposes either way.
		status := domain.ConfirmationRequiresPaymentMethod
		id := intentID
		if pi := payload.Error.PaymentIntent; pi != nil {
			id = pi.ID
			if pi.Status != "" {
				status = pi.Status
			}
		}
		c.log.Warn().Str("intent_id", id).Str("status", status).
			Str("message", payload.Error.Message).Msg("processor declined confirmation")
		return &domain.Confirmation{IntentID: id, Status: status}, nil
	}

	return &domain.Confirmation{IntentID: payload.ID, Status: payload.Status}, nil
}

// IntentIDFromSecret extracts the intent id from a client secret of the
// form "pi_<id>_secret_<nonce>".
func IntentIDFromSecret(secret string) (string, error) {
	idx := strings.Index(secret, "_secret_")
	if !strings.HasPrefix(secret, "pi_") || idx <= 0 {
		return "", fmt.Errorf("%w: malformed intent secret", domain.ErrValidation)
	}
	return secret[:idx], nil
}
