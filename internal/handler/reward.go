package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
	"github.com/gymledger/gymledger/internal/websocket"
)

type RewardHandler struct {
	rewardStore    *store.RewardStore
	accessLogStore *store.AccessLogStore
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewRewardHandler(rs *store.RewardStore, als *store.AccessLogStore, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewardStore: rs, accessLogStore: als, hub: hub, logger: logger}
}

func (h *RewardHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Load returns the caller's active balance plus full ledger history.
func (h *RewardHandler) Load(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	balance, err := h.rewardStore.Balance(memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	history, err := h.rewardStore.History(memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if history == nil {
		history = []model.RewardPointEntry{}
	}

	respond(w, http.StatusOK, "reward points", model.RewardSummary{
		MemberID: memberID,
		Balance:  balance,
		History:  history,
	})
}

type convertRequest struct {
	AttendanceID int64 `json:"attendance_id"`
}

func (h *RewardHandler) ConvertAttendance(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	var req convertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AttendanceID == 0 {
		badRequest(w, "attendance_id is required")
		return
	}

	entry, err := h.rewardStore.ConvertAttendance(req.AttendanceID, memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, "attendance converted to reward points", entry)
}

type redeemRequest struct {
	VoucherID int64 `json:"voucher_id"`
}

func (h *RewardHandler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	var req redeemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VoucherID == 0 {
		badRequest(w, "voucher_id is required")
		return
	}

	result, err := h.rewardStore.RedeemVoucher(memberID, req.VoucherID, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.accessLogStore.Record(&memberID, model.AccessVoucherRedeem, fmt.Sprintf("voucher %s", result.VoucherCode)); err != nil {
		h.logger.Warn("record access log", "error", err)
	}
	h.broadcast(websocket.NewMessage("voucher", "redeemed", req.VoucherID, map[string]any{
		"member_id": memberID,
	}))

	respond(w, http.StatusOK, "voucher redeemed", result)
}
