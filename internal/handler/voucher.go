package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
	"github.com/gymledger/gymledger/internal/websocket"
)

type VoucherHandler struct {
	voucherStore   *store.VoucherStore
	accessLogStore *store.AccessLogStore
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewVoucherHandler(vs *store.VoucherStore, als *store.AccessLogStore, hub *websocket.Hub, logger *slog.Logger) *VoucherHandler {
	return &VoucherHandler{voucherStore: vs, accessLogStore: als, hub: hub, logger: logger}
}

type voucherRequest struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	PointsRequired int             `json:"points_required"`
	MinSpend       decimal.Decimal `json:"min_spend"`
	MaxUses        int             `json:"max_uses"`
	ValidFrom      string          `json:"valid_from"`
	ValidUntil     string          `json:"valid_until"`
}

func (req *voucherRequest) validate() string {
	if req.DiscountType != model.DiscountPercentage && req.DiscountType != model.DiscountFixed {
		return "discount_type must be PERCENTAGE or FIXED"
	}
	if req.PointsRequired < 0 {
		return "points_required must be >= 0"
	}
	if req.MaxUses < 1 {
		return "max_uses must be >= 1"
	}
	for _, d := range []string{req.ValidFrom, req.ValidUntil} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "valid_from and valid_until must be YYYY-MM-DD dates"
		}
	}
	if req.ValidUntil < req.ValidFrom {
		return "valid_until must not precede valid_from"
	}
	return ""
}

func (req *voucherRequest) params() store.VoucherParams {
	return store.VoucherParams{
		Code:           strings.TrimSpace(req.Code),
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		PointsRequired: req.PointsRequired,
		MinSpend:       req.MinSpend,
		MaxUses:        req.MaxUses,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
	}
}

func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req voucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	voucher, err := h.voucherStore.Create(req.params())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "voucher created", voucher)
}

func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.voucherStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}
	respond(w, http.StatusOK, "vouchers", vouchers)
}

func (h *VoucherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	existing, err := h.voucherStore.GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if existing == nil {
		respond(w, http.StatusNotFound, "voucher not found", nil)
		return
	}

	var req voucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	voucher, err := h.voucherStore.Update(id, req.params())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "voucher updated", voucher)
}

func (h *VoucherHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	if err := h.voucherStore.Deactivate(id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "voucher deactivated", nil)
}

type useVoucherRequest struct {
	VoucherID int64 `json:"voucher_id"`
}

// Use applies a voucher directly, without spending ledger points.
func (h *VoucherHandler) Use(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	var req useVoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VoucherID == 0 {
		badRequest(w, "voucher_id is required")
		return
	}

	voucher, err := h.voucherStore.Use(req.VoucherID, memberID, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.accessLogStore.Record(&memberID, model.AccessVoucherUse, fmt.Sprintf("voucher %s", voucher.Code)); err != nil {
		h.logger.Warn("record access log", "error", err)
	}
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("voucher", "used", voucher.ID, map[string]any{
			"member_id": memberID,
		}))
	}

	respond(w, http.StatusOK, "voucher applied", map[string]any{
		"code":           voucher.Code,
		"remaining_uses": voucher.RemainingUses(),
	})
}

type resetUseRequest struct {
	VoucherID int64 `json:"voucher_id"`
}

func (h *VoucherHandler) ResetUse(w http.ResponseWriter, r *http.Request) {
	var req resetUseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VoucherID == 0 {
		badRequest(w, "voucher_id is required")
		return
	}

	voucher, err := h.voucherStore.ResetUse(req.VoucherID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "voucher usage reset", voucher)
}
