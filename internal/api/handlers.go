package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abkawan/banking-core/internal/dispatch"
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// Handler exposes the dispatcher over HTTP. Requests arrive as the
// same flat shapes the batch command layer uses.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	ctx        *dispatch.Context
}

func NewHandler(dispatcher *dispatch.Dispatcher, ctx *dispatch.Context) *Handler {
	return &Handler{dispatcher: dispatcher, ctx: ctx}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// for error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFromKind maps the domain error taxonomy to HTTP statuses.
func statusFromKind(err error) int {
	switch errs.KindOf(err) {
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Unauthorized:
		return http.StatusForbidden
	case errs.InvalidArgument:
		return http.StatusBadRequest
	case errs.InsufficientFunds, errs.InvalidOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// run executes an operation and renders its result. Silent errors are
// rendered as success: only the audit trail records them.
func (h *Handler) run(w http.ResponseWriter, op dispatch.Operation, created bool) {
	res := h.dispatcher.Execute(op, h.ctx)
	if res.Err != nil && !res.Silent {
		respondError(w, statusFromKind(res.Err), res.Err.Error())
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if res.Payload == nil {
		respondJSON(w, status, map[string]string{"status": "ok"})
		return
	}
	respondJSON(w, status, res.Payload)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// directory setup: users, merchants and exchange rates are not
// operations, they build the world operations run against

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decode(w, r, &user) {
		return
	}
	if user.Plan == "" {
		user.Plan = models.PlanStandard
	}
	if err := h.ctx.Ledger.RegisterUser(&user); err != nil {
		respondError(w, statusFromKind(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) RegisterMerchant(w http.ResponseWriter, r *http.Request) {
	var merchant models.Merchant
	if !decode(w, r, &merchant) {
		return
	}
	if err := h.ctx.Ledger.RegisterMerchant(&merchant); err != nil {
		respondError(w, statusFromKind(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, merchant)
}

type rateRequest struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

func (h *Handler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ctx.Converter.UpdateRate(req.From, req.To, req.Rate); err != nil {
		respondError(w, statusFromKind(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// account handlers

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.CreateAccount{
		OwnerEmail:   req.OwnerEmail,
		Currency:     req.Currency,
		Type:         models.AccountType(req.Type),
		InterestRate: req.InterestRate,
	}, true)
}

type accountActionRequest struct {
	Email  string  `json:"email"`
	Amount float64 `json:"amount,omitempty"`
	Alias  string  `json:"alias,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.DeleteAccount{IBAN: mux.Vars(r)["iban"], Email: req.Email}, false)
}

func (h *Handler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.AddFunds{IBAN: mux.Vars(r)["iban"], Email: req.Email, Amount: req.Amount}, false)
}

func (h *Handler) SetMinBalance(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.SetMinBalance{IBAN: mux.Vars(r)["iban"], Email: req.Email, Amount: req.Amount}, false)
}

func (h *Handler) SetAlias(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.SetAlias{IBAN: mux.Vars(r)["iban"], Email: req.Email, Alias: req.Alias}, false)
}

func (h *Handler) ChangeInterestRate(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.ChangeInterestRate{IBAN: mux.Vars(r)["iban"], Email: req.Email, Rate: req.Rate}, false)
}

func (h *Handler) CollectInterest(w http.ResponseWriter, r *http.Request) {
	var req accountActionRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.CollectInterest{IBAN: mux.Vars(r)["iban"], Email: req.Email}, false)
}

// GetAuditLog returns the account's history, optionally bounded by
// RFC3339 start/end query parameters (inclusive).
func (h *Handler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	iban := mux.Vars(r)["iban"]
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" && endStr == "" {
		respondJSON(w, http.StatusOK, h.ctx.Audit.QueryAll(iban))
		return
	}

	start := time.Time{}
	end := time.Now()
	var err error
	if startStr != "" {
		if start, err = time.Parse(time.RFC3339, startStr); err != nil {
			respondError(w, http.StatusBadRequest, "invalid start timestamp")
			return
		}
	}
	if endStr != "" {
		if end, err = time.Parse(time.RFC3339, endStr); err != nil {
			respondError(w, http.StatusBadRequest, "invalid end timestamp")
			return
		}
	}
	respondJSON(w, http.StatusOK, h.ctx.Audit.Query(iban, start, end))
}

// card and payment handlers

type cardRequest struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	OneTime bool   `json:"one_time,omitempty"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.CreateCard{IBAN: req.Account, Email: req.Email, OneTime: req.OneTime}, true)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.DeleteCard{Number: mux.Vars(r)["number"], Email: req.Email}, false)
}

type paymentRequest struct {
	CardNumber string  `json:"card_number"`
	Email      string  `json:"email"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Merchant   string  `json:"merchant"`
}

func (h *Handler) PayOnline(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.PayOnline{
		CardNumber: req.CardNumber,
		Email:      req.Email,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Merchant:   req.Merchant,
	}, false)
}

type transferRequest struct {
	Sender      string  `json:"sender"`
	Receiver    string  `json:"receiver"`
	Email       string  `json:"email"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func (h *Handler) SendMoney(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.SendMoney{
		SenderIBAN:  req.Sender,
		Receiver:    req.Receiver,
		Email:       req.Email,
		Amount:      req.Amount,
		Description: req.Description,
	}, false)
}

func (h *Handler) CashWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.CashWithdrawal{CardNumber: req.CardNumber, Email: req.Email, Amount: req.Amount}, false)
}

type planRequest struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	NewPlan string `json:"new_plan"`
}

func (h *Handler) UpgradePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.UpgradePlan{IBAN: req.Account, Email: req.Email, NewPlan: models.PlanType(req.NewPlan)}, false)
}

// split payment handlers

type splitRequest struct {
	Accounts  []string  `json:"accounts,omitempty"`
	Amounts   []float64 `json:"amounts,omitempty"`
	Total     float64   `json:"total,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	SplitType string    `json:"split_type"`
	Email     string    `json:"email,omitempty"`
}

func (h *Handler) RequestSplitPayment(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.RequestSplitPayment{
		AccountIBANs: req.Accounts,
		Amounts:      req.Amounts,
		Total:        req.Total,
		Currency:     req.Currency,
		Type:         models.SplitType(req.SplitType),
	}, true)
}

func (h *Handler) ConfirmSplitPayment(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.ConfirmSplitPayment{Email: req.Email, Type: models.SplitType(req.SplitType)}, false)
}

func (h *Handler) RejectSplitPayment(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, dispatch.RejectSplitPayment{Email: req.Email, Type: models.SplitType(req.SplitType)}, false)
}

// handles health check
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sets up the API routes
func SetupRoutes(r *mux.Router, dispatcher *dispatch.Dispatcher, ctx *dispatch.Context) {
	h := NewHandler(dispatcher, ctx)

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// directories
	r.HandleFunc("/users", h.RegisterUser).Methods("POST")
	r.HandleFunc("/merchants", h.RegisterMerchant).Methods("POST")
	r.HandleFunc("/rates", h.UpdateRate).Methods("POST")

	// accounts
	r.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	r.HandleFunc("/accounts/{iban}", h.DeleteAccount).Methods("DELETE")
	r.HandleFunc("/accounts/{iban}/funds", h.AddFunds).Methods("POST")
	r.HandleFunc("/accounts/{iban}/min-balance", h.SetMinBalance).Methods("POST")
	r.HandleFunc("/accounts/{iban}/alias", h.SetAlias).Methods("POST")
	r.HandleFunc("/accounts/{iban}/interest-rate", h.ChangeInterestRate).Methods("POST")
	r.HandleFunc("/accounts/{iban}/interest", h.CollectInterest).Methods("POST")
	r.HandleFunc("/accounts/{iban}/audit", h.GetAuditLog).Methods("GET")

	// cards and payments
	r.HandleFunc("/cards", h.CreateCard).Methods("POST")
	r.HandleFunc("/cards/{number}", h.DeleteCard).Methods("DELETE")
	r.HandleFunc("/payments/online", h.PayOnline).Methods("POST")
	r.HandleFunc("/payments/cash-withdrawal", h.CashWithdrawal).Methods("POST")
	r.HandleFunc("/transfers", h.SendMoney).Methods("POST")
	r.HandleFunc("/plan-upgrades", h.UpgradePlan).Methods("POST")

	// split payments
	r.HandleFunc("/split-payments", h.RequestSplitPayment).Methods("POST")
	r.HandleFunc("/split-payments/confirm", h.ConfirmSplitPayment).Methods("POST")
	r.HandleFunc("/split-payments/reject", h.RejectSplitPayment).Methods("POST")
}
