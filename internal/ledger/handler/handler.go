package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, log logger.ZapLogger) *LedgerHandler {
	return &LedgerHandler{uc: uc, logger: log}
}

func (h *LedgerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ledger/scans/place", h.PlaceScan)
	mux.HandleFunc("POST /api/ledger/scans/move", h.MoveScan)
	mux.HandleFunc("POST /api/ledger/scans/release", h.ReleaseScan)
	mux.HandleFunc("GET /api/ledger/placements/{scanCode}", h.GetPlacement)
	mux.HandleFunc("GET /api/ledger/transactions", h.ListTransactions)
	mux.HandleFunc("GET /api/ledger/verifications", h.ListVerifications)
}

type placeScanRequest struct {
	LocationID    string  `json:"location_id"`
	ItemCode      string  `json:"item_code"`
	ScanCode      string  `json:"scan_code"`
	Quantity      float64 `json:"quantity"`
	ReferenceType string  `json:"reference_type"`
	ReferenceID   string  `json:"reference_id"`
	Note          string  `json:"note"`
}

func (h *LedgerHandler) PlaceScan(w http.ResponseWriter, r *http.Request) {
	var req placeScanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	tx, err := h.uc.PlaceScan(r.Context(), &dto.PlaceScanInput{
		Warehouse:     user.Warehouse,
		LocationID:    req.LocationID,
		ItemCode:      req.ItemCode,
		ScanCode:      req.ScanCode,
		Quantity:      req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Note:          req.Note,
		UserID:        user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

type moveScanRequest struct {
	FromLocationID string  `json:"from_location_id"`
	ToLocationID   string  `json:"to_location_id"`
	ItemCode       string  `json:"item_code"`
	ScanCode       string  `json:"scan_code"`
	Quantity       float64 `json:"quantity"`
	Note           string  `json:"note"`
}

func (h *LedgerHandler) MoveScan(w http.ResponseWriter, r *http.Request) {
	var req moveScanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	txs, err := h.uc.MoveScan(r.Context(), &dto.MoveScanInput{
		Warehouse:      user.Warehouse,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		ItemCode:       req.ItemCode,
		ScanCode:       req.ScanCode,
		Quantity:       req.Quantity,
		Note:           req.Note,
		UserID:         user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

type releaseScanRequest struct {
	ScanCode string  `json:"scan_code"`
	Quantity float64 `json:"quantity"`
	Note     string  `json:"note"`
}

func (h *LedgerHandler) ReleaseScan(w http.ResponseWriter, r *http.Request) {
	var req releaseScanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	tx, err := h.uc.ReleaseScan(r.Context(), &dto.ReleaseScanInput{
		ScanCode: req.ScanCode,
		Quantity: req.Quantity,
		Note:     req.Note,
		UserID:   user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *LedgerHandler) GetPlacement(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetPlacement(r.Context(), r.PathValue("scanCode"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if p == nil {
		httputil.WriteError(w, http.StatusNotFound, "scan code is not tracked")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	q := r.URL.Query()

	items, total, err := h.uc.ListTransactions(r.Context(), &dto.TransactionFilters{
		Warehouse:       user.Warehouse,
		ItemCode:        q.Get("item_code"),
		LocationID:      q.Get("location_id"),
		TransactionType: q.Get("transaction_type"),
		ReferenceID:     q.Get("reference_id"),
		Page:            httputil.QueryInt(r, "page", 1),
		PageSize:        httputil.QueryInt(r, "page_size", 50),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *LedgerHandler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	q := r.URL.Query()

	items, total, err := h.uc.ListVerifications(r.Context(), &dto.VerificationFilters{
		Warehouse: user.Warehouse,
		ScanCode:  q.Get("scan_code"),
		Status:    q.Get("status"),
		Page:      httputil.QueryInt(r, "page", 1),
		PageSize:  httputil.QueryInt(r, "page_size", 50),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *LedgerHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrDuplicateScan),
		errors.Is(err, ledger.ErrScanConflict),
		errors.Is(err, ledger.ErrWrongLocation):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrScanNotFound),
		errors.Is(err, ledger.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrLocationInactive),
		errors.Is(err, ledger.ErrWarehouseMismatch),
		errors.Is(err, ledger.ErrEmptyPosting):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrBusy):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("ledger request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
