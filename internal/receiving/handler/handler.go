package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/receiving"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
	"go.uber.org/zap"
)

type ReceivingHandler struct {
	uc     receiving.UseCase
	logger logger.ZapLogger
}

func NewReceivingHandler(uc receiving.UseCase, log logger.ZapLogger) *ReceivingHandler {
	return &ReceivingHandler{uc: uc, logger: log}
}

func (h *ReceivingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/receiving/receive", h.Receive)
	mux.HandleFunc("POST /api/pulltags", h.CreateLines)
	mux.HandleFunc("POST /api/pulltags/import", h.Import)
	mux.HandleFunc("GET /api/pulltags", h.List)
}

type receiveRequest struct {
	PulltagID  string   `json:"pulltag_id"`
	LocationID string   `json:"location_id"`
	Quantity   float64  `json:"quantity"`
	ScanCodes  []string `json:"scan_codes"`
	Note       string   `json:"note"`
}

func (h *ReceivingHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req receiveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	txs, err := h.uc.ReceiveLine(r.Context(), &dto.ReceiveLineInput{
		PulltagID:  req.PulltagID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		ScanCodes:  req.ScanCodes,
		Note:       req.Note,
		UserID:     user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txs)
}

type createLinesRequest struct {
	PulltagNumber string                 `json:"pulltag_number"`
	JobNumber     string                 `json:"job_number"`
	Lines         []dto.PulltagLineInput `json:"lines"`
}

func (h *ReceivingHandler) CreateLines(w http.ResponseWriter, r *http.Request) {
	var req createLinesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	tags, err := h.uc.CreateLines(r.Context(), &dto.CreatePulltagsInput{
		Warehouse:     user.Warehouse,
		PulltagNumber: req.PulltagNumber,
		JobNumber:     req.JobNumber,
		Lines:         req.Lines,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tags)
}

// Import accepts the raw CSV as the request body.
func (h *ReceivingHandler) Import(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	defer r.Body.Close()

	result, err := h.uc.ImportPulltags(r.Context(), user.Warehouse, r.Body)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *ReceivingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	q := r.URL.Query()

	items, total, err := h.uc.ListPulltags(r.Context(), &dto.PulltagFilters{
		Warehouse:     user.Warehouse,
		PulltagNumber: q.Get("pulltag_number"),
		Status:        q.Get("status"),
		ItemCode:      q.Get("item_code"),
		Page:          httputil.QueryInt(r, "page", 1),
		PageSize:      httputil.QueryInt(r, "page_size", 50),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *ReceivingHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, receiving.ErrPulltagNotFound):
		status = http.StatusNotFound
	case errors.Is(err, receiving.ErrDuplicateLine),
		errors.Is(err, ledger.ErrDuplicateScan),
		errors.Is(err, ledger.ErrScanConflict):
		status = http.StatusConflict
	case errors.Is(err, receiving.ErrPulltagClosed),
		errors.Is(err, receiving.ErrOverReceipt),
		errors.Is(err, receiving.ErrScanSplit),
		errors.Is(err, receiving.ErrNotReceivingLoc),
		errors.Is(err, ledger.ErrLocationInactive),
		errors.Is(err, ledger.ErrWarehouseMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrBusy):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("receiving request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
