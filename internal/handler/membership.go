package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type MembershipHandler struct {
	membershipStore *store.MembershipStore
	logger          *slog.Logger
}

func NewMembershipHandler(ms *store.MembershipStore, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{membershipStore: ms, logger: logger}
}

type membershipRequest struct {
	MemberID  int64           `json:"member_id"`
	PlanName  string          `json:"plan_name"`
	Price     decimal.Decimal `json:"price"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Status    string          `json:"status"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (h *MembershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MemberID == 0 || req.PlanName == "" {
		badRequest(w, "member_id and plan_name are required")
		return
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		badRequest(w, "start_date and end_date must be YYYY-MM-DD dates")
		return
	}

	membership, err := h.membershipStore.Create(req.MemberID, req.PlanName, req.Price, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "membership created", membership)
}

func (h *MembershipHandler) List(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.membershipStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if memberships == nil {
		memberships = []model.Membership{}
	}
	respond(w, http.StatusOK, "memberships", memberships)
}

// Mine lists the calling member's own memberships.
func (h *MembershipHandler) Mine(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())

	memberships, err := h.membershipStore.ListByMember(memberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if memberships == nil {
		memberships = []model.Membership{}
	}
	respond(w, http.StatusOK, "memberships", memberships)
}

func (h *MembershipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	var req membershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		badRequest(w, "start_date and end_date must be YYYY-MM-DD dates")
		return
	}
	switch req.Status {
	case model.MembershipActive, model.MembershipExpired, model.MembershipCancelled:
	default:
		badRequest(w, "status must be ACTIVE, EXPIRED or CANCELLED")
		return
	}

	membership, err := h.membershipStore.Update(id, req.PlanName, req.Price, req.StartDate, req.EndDate, req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "membership updated", membership)
}
