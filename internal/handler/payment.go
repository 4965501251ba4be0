package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type PaymentHandler struct {
	paymentStore *store.PaymentStore
	logger       *slog.Logger
}

func NewPaymentHandler(ps *store.PaymentStore, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentStore: ps, logger: logger}
}

type paymentRequest struct {
	MemberID     int64           `json:"member_id"`
	MembershipID *int64          `json:"membership_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MemberID == 0 || req.Method == "" {
		badRequest(w, "member_id and method are required")
		return
	}
	if req.Amount.IsNegative() {
		badRequest(w, "amount must not be negative")
		return
	}

	payment, err := h.paymentStore.Create(req.MemberID, req.MembershipID, req.Amount, req.Method)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "payment recorded", payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	respond(w, http.StatusOK, "payments", payments)
}

func (h *PaymentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	payments, err := h.paymentStore.ListByMember(memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	respond(w, http.StatusOK, "payments", payments)
}
