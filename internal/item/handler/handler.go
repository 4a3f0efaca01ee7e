package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/item"
	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type ItemHandler struct {
	uc     item.UseCase
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: log}
}

func (h *ItemHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/items", h.Create)
	mux.HandleFunc("PUT /api/items/{id}", h.Update)
	mux.HandleFunc("GET /api/items", h.List)
	mux.HandleFunc("GET /api/items/{itemCode}", h.Get)
}

type itemRequest struct {
	ItemCode     string  `json:"item_code"`
	Description  string  `json:"description"`
	UOM          string  `json:"uom"`
	Kit          bool    `json:"kit"`
	PackQuantity float64 `json:"pack_quantity"`
	Active       bool    `json:"active"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.uc.CreateItem(r.Context(), &dto.CreateItemInput{
		ItemCode:     req.ItemCode,
		Description:  req.Description,
		UOM:          req.UOM,
		Kit:          req.Kit,
		PackQuantity: req.PackQuantity,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.uc.UpdateItem(r.Context(), &dto.UpdateItemInput{
		ID:           r.PathValue("id"),
		ItemCode:     req.ItemCode,
		Description:  req.Description,
		UOM:          req.UOM,
		Kit:          req.Kit,
		PackQuantity: req.PackQuantity,
		Active:       req.Active,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.uc.GetItem(r.Context(), r.PathValue("itemCode"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var kit, active *bool
	if raw := q.Get("kit"); raw != "" {
		b := raw == "true"
		kit = &b
	}
	if raw := q.Get("active"); raw != "" {
		b := raw == "true"
		active = &b
	}

	items, total, err := h.uc.ListItems(r.Context(), &dto.ItemFilters{
		SearchQuery: q.Get("q"),
		Kit:         kit,
		Active:      active,
		Page:        httputil.QueryInt(r, "page", 1),
		PageSize:    httputil.QueryInt(r, "page_size", 50),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *ItemHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, item.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, item.ErrCodeTaken):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("item request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
