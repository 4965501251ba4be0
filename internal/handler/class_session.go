package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type ClassSessionHandler struct {
	sessionStore *store.ClassSessionStore
	logger       *slog.Logger
}

func NewClassSessionHandler(cs *store.ClassSessionStore, logger *slog.Logger) *ClassSessionHandler {
	return &ClassSessionHandler{sessionStore: cs, logger: logger}
}

type classSessionRequest struct {
	Name     string    `json:"name"`
	Trainer  string    `json:"trainer"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity int       `json:"capacity"`
}

func (req *classSessionRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if !req.EndsAt.After(req.StartsAt) {
		return "ends_at must be after starts_at"
	}
	if req.Capacity < 1 {
		return "capacity must be >= 1"
	}
	return ""
}

func (h *ClassSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req classSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	session, err := h.sessionStore.Create(req.Name, req.Trainer, req.StartsAt, req.EndsAt, req.Capacity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "class session created", session)
}

func (h *ClassSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if sessions == nil {
		sessions = []model.ClassSession{}
	}
	respond(w, http.StatusOK, "class sessions", sessions)
}

func (h *ClassSessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	var req classSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	session, err := h.sessionStore.Update(id, req.Name, req.Trainer, req.StartsAt, req.EndsAt, req.Capacity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "class session updated", session)
}

func (h *ClassSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	if err := h.sessionStore.Delete(id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "class session deleted", nil)
}
