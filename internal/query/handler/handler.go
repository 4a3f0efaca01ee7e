package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/query"
	"github.com/waretrack/inventory-service/internal/query/dto"
	"go.uber.org/zap"
)

type QueryHandler struct {
	uc     query.UseCase
	logger logger.ZapLogger
}

func NewQueryHandler(uc query.UseCase, log logger.ZapLogger) *QueryHandler {
	return &QueryHandler{uc: uc, logger: log}
}

func (h *QueryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query/ask", h.Ask)
	mux.HandleFunc("POST /api/query/run", h.Run)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	result, err := h.uc.Ask(r.Context(), &dto.AskInput{
		Question: req.Question,
		Admin:    user.Role == "admin",
		UserID:   user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type runRequest struct {
	SQL string `json:"sql"`
}

func (h *QueryHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	result, err := h.uc.Run(r.Context(), &dto.RunInput{
		SQL:    req.SQL,
		Admin:  user.Role == "admin",
		UserID: user.UserID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *QueryHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, query.ErrEmptyQuery),
		errors.Is(err, query.ErrNotSelect),
		errors.Is(err, query.ErrMultipleStatements),
		errors.Is(err, query.ErrForbiddenKeyword):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, query.ErrSystemCatalog):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("console query failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
