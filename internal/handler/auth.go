package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type AuthHandler struct {
	memberStore *store.MemberStore
	tokens      *auth.TokenManager
	logger      *slog.Logger
}

func NewAuthHandler(ms *store.MemberStore, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{memberStore: ms, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		badRequest(w, "name and email are required")
		return
	}
	if len(req.Password) < 8 {
		badRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	member, err := h.memberStore.Create(req.Name, req.Email, string(hash), model.RoleMember)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, "account created", member)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, hash, err := h.memberStore.GetCredentials(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if member == nil || !member.Active {
		respond(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respond(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, err := h.tokens.Issue(member.ID, member.Role, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, http.StatusOK, "login successful", map[string]any{
		"token":  token,
		"member": member,
	})
}
