package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"consultancy-ledger/internal/api/handler/dto"
	"consultancy-ledger/internal/domain/ledger"
	"consultancy-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewCatalogHandler(s ledger.LedgerService, l *slog.Logger) *CatalogHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CatalogHandler{
		service: s,
		logger:  l.With("component", "CatalogHandler"),
	}
}

func getEntryIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "entryID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: entryID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid entryID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// ListCatalog handles GET /catalog
//
// @Summary List service catalog entries
// @Description Lists catalog entries ordered by name. Pass active=true to exclude retired entries.
// @Tags Catalog
// @Produce json
// @Param active query bool false "Only list active entries" Example(true)
// @Success 200 {array} dto.CatalogEntryResponse "List of catalog entries"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog [get]
// @Security BearerAuth
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	entries, err := h.service.ListCatalog(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list catalog", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CatalogEntryResponse, len(entries))
	for i := range entries {
		resp[i] = dto.NewCatalogEntryResponse(&entries[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// CreateCatalogEntry handles POST /catalog
//
// @Summary Create a service catalog entry
// @Description Adds a new named service with its default charge. Names are unique.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateCatalogEntryRequest true "Catalog entry payload"
// @Success 201 {object} dto.CatalogEntryResponse "Entry successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Entry name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog [post]
// @Security BearerAuth
func (h *CatalogHandler) CreateCatalogEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCatalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	entry, err := h.service.AddCatalogEntry(r.Context(), req.Name, req.ParsedDefaultCharge())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, ledger.ErrDuplicateCatalogName) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create catalog entry", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Catalog entry created successfully", slog.Int64("entryID", entry.EntryID))
	respondJSON(w, http.StatusCreated, dto.NewCatalogEntryResponse(entry))
}

// UpdateCatalogEntry handles PUT /catalog/{entryID}
//
// @Summary Update a service catalog entry
// @Description Updates the default charge and/or active flag of a catalog entry. Existing charges keep their snapshotted values.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param entryID path int true "Catalog entry ID" Minimum(1)
// @Param request body dto.UpdateCatalogEntryRequest true "Fields to update"
// @Success 200 {object} dto.CatalogEntryResponse "Updated entry"
// @Failure 400 {object} dto.ErrorResponse "Invalid entry ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/{entryID} [put]
// @Security BearerAuth
func (h *CatalogHandler) UpdateCatalogEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := getEntryIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateCatalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	entry, err := h.service.UpdateCatalogEntry(r.Context(), entryID, req.ParsedDefaultCharge(), req.Active)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, ledger.ErrCatalogEntryNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update catalog entry", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Catalog entry updated successfully", slog.Int64("entryID", entry.EntryID))
	respondJSON(w, http.StatusOK, dto.NewCatalogEntryResponse(entry))
}
