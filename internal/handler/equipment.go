package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/store"
)

type EquipmentHandler struct {
	equipmentStore *store.EquipmentStore
	logger         *slog.Logger
}

func NewEquipmentHandler(es *store.EquipmentStore, logger *slog.Logger) *EquipmentHandler {
	return &EquipmentHandler{equipmentStore: es, logger: logger}
}

type equipmentRequest struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Condition   string     `json:"condition"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	if req.Quantity < 0 {
		badRequest(w, "quantity must not be negative")
		return
	}

	equipment, err := h.equipmentStore.Create(req.Name, req.Category, req.Quantity, req.Condition, req.PurchasedAt)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "equipment created", equipment)
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.equipmentStore.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []model.Equipment{}
	}
	respond(w, http.StatusOK, "equipment", items)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	var req equipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	equipment, err := h.equipmentStore.Update(id, req.Name, req.Category, req.Quantity, req.Condition)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "equipment updated", equipment)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	if err := h.equipmentStore.SoftDelete(id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "equipment removed", nil)
}
