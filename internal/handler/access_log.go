package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type AccessLogHandler struct {
	accessLogStore *store.AccessLogStore
	logger         *slog.Logger
}

func NewAccessLogHandler(als *store.AccessLogStore, logger *slog.Logger) *AccessLogHandler {
	return &AccessLogHandler{accessLogStore: als, logger: logger}
}

func (h *AccessLogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.accessLogStore.List(limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if logs == nil {
		logs = []model.AccessLog{}
	}
	respond(w, http.StatusOK, "access logs", logs)
}
