package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
	"github.com/gymledger/gymledger/internal/websocket"
)

type AttendanceHandler struct {
	attendanceStore *store.AttendanceStore
	accessLogStore  *store.AccessLogStore
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewAttendanceHandler(as *store.AttendanceStore, als *store.AccessLogStore, hub *websocket.Hub, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{attendanceStore: as, accessLogStore: als, hub: hub, logger: logger}
}

func (h *AttendanceHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *AttendanceHandler) logAccess(memberID int64, event, detail string) {
	if err := h.accessLogStore.Record(&memberID, event, detail); err != nil {
		h.logger.Warn("record access log", "error", err)
	}
}

type checkInRequest struct {
	SessionID *int64 `json:"session_id"`
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	var req checkInRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.attendanceStore.CheckIn(memberID, req.SessionID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respond(w, http.StatusConflict, "already checked in", nil)
			return
		}
		writeError(w, h.logger, err)
		return
	}

	h.logAccess(memberID, model.AccessCheckIn, fmt.Sprintf("attendance %d", record.ID))
	h.broadcast(websocket.NewMessage("attendance", "checked_in", record.ID, map[string]any{
		"member_id": memberID,
	}))

	respond(w, http.StatusCreated, "checked in", record)
}

type checkOutRequest struct {
	AttendanceID int64 `json:"attendance_id"`
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	var req checkOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AttendanceID == 0 {
		badRequest(w, "attendance_id is required")
		return
	}

	record, summary, err := h.attendanceStore.Checkout(req.AttendanceID, memberID, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logAccess(memberID, model.AccessCheckOut, fmt.Sprintf("attendance %d, %d points", record.ID, summary.PointsEarned))
	h.broadcast(websocket.NewMessage("attendance", "checked_out", record.ID, map[string]any{
		"member_id":     memberID,
		"points_earned": summary.PointsEarned,
	}))

	respond(w, http.StatusOK, "checked out", map[string]any{
		"attendance": record,
		"summary":    summary,
	})
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	records, err := h.attendanceStore.ListByMember(memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	respond(w, http.StatusOK, "attendance history", records)
}
