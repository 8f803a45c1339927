package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"consultancy-ledger/internal/api/handler/dto"
	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/domain/ledger"
	"consultancy-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type LedgerHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewLedgerHandler(s ledger.LedgerService, l *slog.Logger) *LedgerHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LedgerHandler{
		service: s,
		logger:  l.With("component", "LedgerHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, customer.ErrNotFound),
		errors.Is(err, ledger.ErrChargeNotFound),
		errors.Is(err, ledger.ErrCatalogEntryNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, customer.ErrDuplicateMobile),
		errors.Is(err, ledger.ErrDuplicateCatalogName),
		errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInvalidAmount):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getChargeIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "chargeID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: chargeID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid chargeID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// AddCharge handles POST /customers/{customerID}/charges
//
// @Summary Add a service charge
// @Description Adds a service charge to a customer's ledger. When catalogEntryId is given, label and amount default to a snapshot of the catalog entry.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.AddChargeRequest true "Charge payload"
// @Success 201 {object} dto.ChargeResponse "Charge successfully added"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer or catalog entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/charges [post]
// @Security BearerAuth
func (h *LedgerHandler) AddCharge(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.AddChargeRequest
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

	charge, err := h.service.AddCharge(r.Context(), customerID, req.Label, req.ParsedAmount(), req.CatalogEntryID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, ledger.ErrCatalogEntryNotFound) &&
			!errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrInvalidAmount) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to add charge", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Charge added successfully", slog.Int64("chargeID", charge.ChargeID))
	respondJSON(w, http.StatusCreated, dto.NewChargeResponse(charge))
}

// ListCharges handles GET /customers/{customerID}/charges
//
// @Summary List service charges
// @Description Lists all service charges on a customer's ledger, oldest first.
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.ChargeResponse "List of charges"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/charges [get]
// @Security BearerAuth
func (h *LedgerHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	charges, err := h.service.ListCharges(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list charges", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ChargeResponse, len(charges))
	for i := range charges {
		resp[i] = dto.NewChargeResponse(&charges[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// DeleteCharge handles DELETE /charges/{chargeID}
//
// @Summary Delete a service charge
// @Description Removes a single service charge by its ID.
// @Tags Ledger
// @Produce json
// @Param chargeID path int true "Charge ID" Minimum(1)
// @Success 204 "Charge successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid charge ID"
// @Failure 404 {object} dto.ErrorResponse "Charge not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /charges/{chargeID} [delete]
// @Security BearerAuth
func (h *LedgerHandler) DeleteCharge(w http.ResponseWriter, r *http.Request) {
	chargeID, err := getChargeIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCharge(r.Context(), chargeID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, ledger.ErrChargeNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete charge", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Charge deleted successfully", slog.Int64("chargeID", chargeID))
	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteCharges handles POST /customers/{customerID}/charges/delete
//
// @Summary Delete multiple service charges
// @Description Removes a batch of service charges belonging to one customer and reports how many were deleted.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.BulkDeleteChargesRequest true "Charge IDs to delete"
// @Success 200 {object} dto.BulkDeleteChargesResponse "Number of charges deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/charges/delete [post]
// @Security BearerAuth
func (h *LedgerHandler) DeleteCharges(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.BulkDeleteChargesRequest
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

	deleted, err := h.service.DeleteCharges(r.Context(), customerID, req.ChargeIDs)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete charges", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Charges deleted", slog.Int64("deleted", deleted))
	respondJSON(w, http.StatusOK, dto.BulkDeleteChargesResponse{Deleted: deleted})
}

// RecordPayment handles POST /customers/{customerID}/payments
//
// @Summary Record a payment
// @Description Records a payment against a customer's ledger. The payment date may be backdated; it defaults to today when omitted.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} dto.PaymentResponse "Payment successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [post]
// @Security BearerAuth
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.RecordPaymentRequest
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

	payment, err := h.service.RecordPayment(r.Context(), customerID, req.ParsedDate(), req.ParsedAmount())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidAmount) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record payment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment recorded successfully", slog.Int64("paymentID", payment.PaymentID))
	respondJSON(w, http.StatusCreated, dto.NewPaymentResponse(payment))
}

// ListPayments handles GET /customers/{customerID}/payments
//
// @Summary List payments
// @Description Lists all payments on a customer's ledger ordered by payment date.
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.PaymentResponse "List of payments"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [get]
// @Security BearerAuth
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		resp[i] = dto.NewPaymentResponse(&payments[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetLedger handles GET /customers/{customerID}/ledger
//
// @Summary Retrieve the computed ledger
// @Description Returns the full computed ledger for a customer: totals, running balances and the ordered row sequence.
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} ledger.Ledger "Computed ledger"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/ledger [get]
// @Security BearerAuth
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	led, err := h.service.GetLedger(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to compute ledger", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, led)
}
