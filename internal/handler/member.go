package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type MemberHandler struct {
	memberStore *store.MemberStore
	logger      *slog.Logger
}

func NewMemberHandler(ms *store.MemberStore, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{memberStore: ms, logger: logger}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	respond(w, http.StatusOK, "members", members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	member, err := h.memberStore.GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if member == nil {
		respond(w, http.StatusNotFound, "member not found", nil)
		return
	}
	respond(w, http.StatusOK, "member", member)
}

type updateMemberRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	var req updateMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		badRequest(w, "name and email are required")
		return
	}
	if req.Role != model.RoleMember && req.Role != model.RoleAdmin {
		badRequest(w, "role must be member or admin")
		return
	}

	member, err := h.memberStore.Update(id, req.Name, req.Email, req.Role, req.Active)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "member updated", member)
}

func (h *MemberHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	if err := h.memberStore.Deactivate(id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "member deactivated", nil)
}
