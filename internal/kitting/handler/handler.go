package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/kitting"
	"github.com/waretrack/inventory-service/internal/kitting/dto"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type KittingHandler struct {
	uc     kitting.UseCase
	logger logger.ZapLogger
}

func NewKittingHandler(uc kitting.UseCase, log logger.ZapLogger) *KittingHandler {
	return &KittingHandler{uc: uc, logger: log}
}

func (h *KittingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/kitting/build", h.Build)
	mux.HandleFunc("POST /api/kitting/adjust", h.Adjust)
	mux.HandleFunc("POST /api/kitting/decompose", h.Decompose)
}

func (h *KittingHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildKitInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.fill(r, &req.Warehouse, &req.UserID)

	txs, err := h.uc.BuildKit(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

func (h *KittingHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.fill(r, &req.Warehouse, &req.UserID)

	txs, err := h.uc.AdjustPostKitting(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

func (h *KittingHandler) Decompose(w http.ResponseWriter, r *http.Request) {
	var req dto.DecomposeInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.fill(r, &req.Warehouse, &req.UserID)

	txs, err := h.uc.DecomposePallet(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

func (h *KittingHandler) fill(r *http.Request, warehouse, userID *string) {
	user := auth.FromContext(r.Context())
	if *warehouse == "" {
		*warehouse = user.Warehouse
	}
	*userID = user.UserID
}

func (h *KittingHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, kitting.ErrItemNotFound),
		errors.Is(err, ledger.ErrScanNotFound),
		errors.Is(err, ledger.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateScan),
		errors.Is(err, ledger.ErrScanConflict):
		status = http.StatusConflict
	case errors.Is(err, kitting.ErrNotKit),
		errors.Is(err, kitting.ErrNoComponents),
		errors.Is(err, kitting.ErrReasonRequired),
		errors.Is(err, kitting.ErrScanSplit),
		errors.Is(err, kitting.ErrPackMismatch),
		errors.Is(err, kitting.ErrNotPacked),
		errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrLocationInactive),
		errors.Is(err, ledger.ErrWarehouseMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrBusy):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("kitting request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
