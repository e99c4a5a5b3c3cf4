// Package ledgertest is an in-memory, simulate-first implementation of
// the ledger wire contract. It backs the ledgerd development server and
// the scenario tests; the production ledger is an external service and is
// not part of this repository. Nothing here is persisted.
package ledgertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/walletflow/internal/domain"
	"github.com/iho/walletflow/internal/infrastructure/metrics"
)

// Config holds server settings.
type Config struct {
	Currency   string
	MaxTxCents int64 // per-transaction ceiling, 0 disables the check
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics // optional
}

type user struct {
	id    int64
	email string
	name  string
}

type account struct {
	id           int64
	userID       int64
	currency     string
	balanceCents int64
}

type entry struct {
	id              int64
	accountID       int64
	typ             domain.EntryType
	status          domain.EntryStatus
	amountCents     int64
	currency        string
	transferGroupID *string
	relatedEntryID  *int64
	createdAt       time.Time
}

type intent struct {
	id          string
	secret      string
	amountCents int64
	currency    string
	status      string
}

// Server is one in-memory ledger instance. Safe for concurrent use.
type Server struct {
	cfg Config

	mu               sync.Mutex
	usersByEmail     map[string]*user
	accounts         map[int64]*account
	entriesByAccount map[int64][]*entry
	intentsByID      map[string]*intent
	intentsBySecret  map[string]*intent
	idem             map[string][]byte
	nextUserID       int64
	nextAccountID    int64
	nextEntryID      int64

	failCredits int // pending injected credit failures

	handler http.Handler
}

// NewServer creates a ledger with empty state.
func NewServer(cfg Config) *Server {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	s := &Server{
		cfg:              cfg,
		usersByEmail:     make(map[string]*user),
		accounts:         make(map[int64]*account),
		entriesByAccount: make(map[int64][]*entry),
		intentsByID:      make(map[string]*intent),
		intentsBySecret:  make(map[string]*intent),
		idem:             make(map[string][]byte),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP surface of the ledger.
func (s *Server) Handler() http.Handler { return s.handler }

// FailNextCredits makes the next n credit requests fail with a 503 before
// any state change, to exercise the reconciliation-gap path.
func (s *Server) FailNextCredits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCredits = n
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if s.cfg.Metrics != nil {
		r.Use(metricsMiddleware(s.cfg.Metrics))
	}
	r.Use(s.idempotencyMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/accounts", s.handleCreateAccount)
	r.Get("/accounts/{id}", s.handleGetAccount)
	r.Get("/transactions", s.handleListTransactions)
	r.Post("/accounts/{id}/deposit", s.handleDeposit)
	r.Post("/stripe/create-payment-intent", s.handleCreateIntent)
	r.Post("/accounts/{id}/deposit/stripe", s.handleStripeCredit)
	r.Post("/transfers", s.handleTransfer)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ledgerd"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid email")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersByEmail[req.Email]
	if !ok {
		s.nextUserID++
		u = &user{id: s.nextUserID, email: req.Email, name: req.Name}
		s.usersByEmail[req.Email] = u
	}

	acct := s.accountForUser(u.id)
	if acct == nil {
		s.nextAccountID++
		acct = &account{id: s.nextAccountID, userID: u.id, currency: s.cfg.Currency}
		s.accounts[acct.id] = acct
	}

	writeJSON(w, http.StatusOK, accountJSON(acct))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid account id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, accountJSON(acct))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(r.URL.Query().Get("accountId"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid accountId")
		return
	}
	limit := domain.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > domain.MaxListLimit {
			writeDetail(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		writeDetail(w, http.StatusNotFound, "Account not found")
		return
	}

	entries := s.entriesByAccount[accountID]
	items := make([]map[string]any, 0, limit)
	// Newest first.
	for i := len(entries) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, entryJSON(entries[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{"accountId": accountID, "items": items})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req struct {
		AmountCents int64  `json:"amountCents"`
		Currency    string `json:"currency"`
		Simulate    bool   `json:"simulate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, detail := s.checkAmountAndCurrency(req.AmountCents, req.Currency); detail != "" {
		writeDetail(w, status, detail)
		return
	}
	if !req.Simulate {
		writeDetail(w, http.StatusNotImplemented, "card deposits go through /deposit/stripe; set simulate=true")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Account not found")
		return
	}

	e := s.postEntry(acct, domain.EntryDeposit, req.AmountCents, nil, nil)
	acct.balanceCents += req.AmountCents

	s.cfg.Logger.Debug().Int64("account_id", acct.id).Int64("amount_cents", req.AmountCents).
		Msg("simulated deposit posted")

	writeJSON(w, http.StatusOK, map[string]any{
		"transactionId":   e.id,
		"newBalanceCents": acct.balanceCents,
	})
}

func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountCents int64  `json:"amountCents"`
		Currency    string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, detail := s.checkAmountAndCurrency(req.AmountCents, req.Currency); detail != "" {
		writeDetail(w, status, detail)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := "pi_" + ulid.Make().String()
	in := &intent{
		id:          id,
		secret:      id + "_secret_" + ulid.Make().String(),
		amountCents: req.AmountCents,
		currency:    s.cfg.Currency,
		status:      "requires_payment_method",
	}
	s.intentsByID[in.id] = in
	s.intentsBySecret[in.secret] = in

	writeJSON(w, http.StatusOK, map[string]string{
		"clientSecret":    in.secret,
		"paymentIntentId": in.id,
	})
}

func (s *Server) handleStripeCredit(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req struct {
		PaymentIntentID string `json:"paymentIntentId"`
		AmountCents     int64  `json:"amountCents"`
		Currency        string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, detail := s.checkAmountAndCurrency(req.AmountCents, req.Currency); detail != "" {
		writeDetail(w, status, detail)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCredits > 0 {
		s.failCredits--
		writeDetail(w, http.StatusServiceUnavailable, "ledger temporarily unavailable")
		return
	}

	acct, ok := s.accounts[accountID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Account not found")
		return
	}

	// Independently verify the intent with the processor before posting;
	// the client's word is never enough.
	in, ok := s.intentsByID[req.PaymentIntentID]
	if !ok {
		writeDetail(w, http.StatusBadRequest, "unknown payment intent")
		return
	}
	if in.status != domain.ConfirmationSucceeded {
		writeDetail(w, http.StatusPaymentRequired, fmt.Sprintf("PaymentIntent not succeeded (status=%s)", in.status))
		return
	}
	if in.amountCents != req.AmountCents {
		writeDetail(w, http.StatusBadRequest,
			fmt.Sprintf("Amount mismatch: expected %d, got %d", in.amountCents, req.AmountCents))
		return
	}
	if in.currency != s.cfg.Currency {
		writeDetail(w, http.StatusBadRequest, "Currency mismatch")
		return
	}

	e := s.postEntry(acct, domain.EntryDeposit, req.AmountCents, nil, nil)
	acct.balanceCents += req.AmountCents

	s.cfg.Logger.Debug().Int64("account_id", acct.id).Str("intent_id", in.id).
		Msg("card deposit credited")

	writeJSON(w, http.StatusOK, map[string]any{
		"transactionId":   e.id,
		"newBalanceCents": acct.balanceCents,
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromAccountID int64  `json:"fromAccountId"`
		ToAccountID   int64  `json:"toAccountId"`
		AmountCents   int64  `json:"amountCents"`
		Currency      string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, detail := s.checkAmountAndCurrency(req.AmountCents, req.Currency); detail != "" {
		writeDetail(w, status, detail)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[req.FromAccountID]
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Account %d not found", req.FromAccountID))
		return
	}
	to, ok := s.accounts[req.ToAccountID]
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Account %d not found", req.ToAccountID))
		return
	}
	if from.id == to.id {
		writeDetail(w, http.StatusBadRequest, "Cannot transfer to the same account")
		return
	}
	if from.balanceCents < req.AmountCents {
		writeDetail(w, http.StatusPaymentRequired, "Insufficient funds")
		return
	}

	// Both legs exist together or not at all; the lock makes the pair
	// atomic.
	groupID := ulid.Make().String()
	debit := s.postEntry(from, domain.EntryTransferOut, req.AmountCents, &groupID, nil)
	credit := s.postEntry(to, domain.EntryTransferIn, req.AmountCents, &groupID, &debit.id)
	debit.relatedEntryID = &credit.id
	from.balanceCents -= req.AmountCents
	to.balanceCents += req.AmountCents

	s.cfg.Logger.Debug().Str("transfer_group_id", groupID).
		Int64("from", from.id).Int64("to", to.id).Msg("transfer posted")

	writeJSON(w, http.StatusOK, map[string]any{
		"transferGroupId":  groupID,
		"fromBalanceCents": from.balanceCents,
		"toBalanceCents":   to.balanceCents,
	})
}

// postEntry appends a posted entry; callers hold s.mu.
func (s *Server) postEntry(acct *account, typ domain.EntryType, amountCents int64, groupID *string, related *int64) *entry {
	s.nextEntryID++
	e := &entry{
		id:              s.nextEntryID,
		accountID:       acct.id,
		typ:             typ,
		status:          domain.StatusPosted,
		amountCents:     amountCents,
		currency:        s.cfg.Currency,
		transferGroupID: groupID,
		relatedEntryID:  related,
		createdAt:       time.Now().UTC(),
	}
	s.entriesByAccount[acct.id] = append(s.entriesByAccount[acct.id], e)
	return e
}

func (s *Server) accountForUser(userID int64) *account {
	for _, a := range s.accounts {
		if a.userID == userID {
			return a
		}
	}
	return nil
}

func (s *Server) checkAmountAndCurrency(amountCents int64, currency string) (int, string) {
	if amountCents <= 0 {
		return http.StatusBadRequest, "Amount must be a positive integer of cents"
	}
	if s.cfg.MaxTxCents > 0 && amountCents > s.cfg.MaxTxCents {
		return http.StatusPaymentRequired, fmt.Sprintf("Amount exceeds per-transaction limit of %d cents", s.cfg.MaxTxCents)
	}
	if currency != "" && currency != s.cfg.Currency {
		return http.StatusBadRequest, "Unsupported currency"
	}
	return 0, ""
}

func accountJSON(a *account) map[string]any {
	return map[string]any{
		"userId":       a.userID,
		"accountId":    a.id,
		"currency":     a.currency,
		"balanceCents": a.balanceCents,
	}
}

func entryJSON(e *entry) map[string]any {
	return map[string]any{
		"id":              e.id,
		"accountId":       e.accountID,
		"type":            string(e.typ),
		"status":          string(e.status),
		"amountCents":     e.amountCents,
		"currency":        e.currency,
		"transferGroupId": e.transferGroupID,
		"relatedEntryId":  e.relatedEntryID,
		"createdAt":       e.createdAt.Format(time.RFC3339Nano),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
