package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/movement"
	"github.com/waretrack/inventory-service/internal/movement/dto"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type MovementHandler struct {
	uc     movement.UseCase
	logger logger.ZapLogger
}

func NewMovementHandler(uc movement.UseCase, log logger.ZapLogger) *MovementHandler {
	return &MovementHandler{uc: uc, logger: log}
}

func (h *MovementHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/movement/unit", h.MoveUnit)
	mux.HandleFunc("POST /api/movement/quantity", h.MoveQuantity)
}

func (h *MovementHandler) MoveUnit(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveUnitInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	if req.Warehouse == "" {
		req.Warehouse = user.Warehouse
	}
	req.UserID = user.UserID

	txs, err := h.uc.MoveUnit(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

func (h *MovementHandler) MoveQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveQuantityInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	if req.Warehouse == "" {
		req.Warehouse = user.Warehouse
	}
	req.UserID = user.UserID

	txs, err := h.uc.MoveQuantity(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

func (h *MovementHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrScanNotFound),
		errors.Is(err, ledger.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrScanConflict),
		errors.Is(err, ledger.ErrDuplicateScan),
		errors.Is(err, ledger.ErrWrongLocation):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrLocationInactive),
		errors.Is(err, ledger.ErrWarehouseMismatch),
		errors.Is(err, ledger.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrBusy):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("movement request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
