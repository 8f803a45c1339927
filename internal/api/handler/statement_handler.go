package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/domain/ledger"
	"consultancy-ledger/internal/infrastructure/monitoring"
)

type StatementHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewStatementHandler(s ledger.LedgerService, l *slog.Logger) *StatementHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &StatementHandler{
		service: s,
		logger:  l.With("component", "StatementHandler"),
	}
}

// GetStatement handles GET /customers/{customerID}/statement
//
// @Summary Retrieve a formatted account statement
// @Description Returns the display-ready statement document for a customer: branded header, formatted rows and the settlement summary.
// @Tags Statements
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} ledger.Statement "Formatted statement"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/statement [get]
// @Security BearerAuth
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	statement, err := h.service.GetStatement(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to build statement", slog.Any("error", err))
		respondError(w, err)
		return
	}

	monitoring.RecordStatementGenerated("json")
	h.logger.InfoContext(r.Context(), "Statement generated", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, statement)
}

// ExportStatement handles GET /customers/{customerID}/statement/export
//
// @Summary Download the account statement as CSV
// @Description Streams the customer's statement as a CSV attachment. The filename follows the Ledger_<name>_<date> convention.
// @Tags Statements
// @Produce text/csv
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {string} string "CSV statement"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/statement/export [get]
// @Security BearerAuth
func (h *StatementHandler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	statement, err := h.service.GetStatement(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to build statement for export", slog.Any("error", err))
		respondError(w, err)
		return
	}

	fileName := h.service.StatementFileName(statement.Header.CustomerName)
	fileName = strings.TrimSuffix(fileName, ".pdf") + ".csv"

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	w.WriteHeader(http.StatusOK)

	if err := writeStatementCSV(w, statement); err != nil {
		// Headers are already out; nothing left to do but log.
		h.logger.ErrorContext(r.Context(), "Failed to stream statement CSV", slog.Any("error", err))
		return
	}

	monitoring.RecordStatementGenerated("csv")
	h.logger.InfoContext(r.Context(), "Statement exported", slog.Int64("customerID", customerID), slog.String("fileName", fileName))
}

func writeStatementCSV(w http.ResponseWriter, statement *ledger.Statement) error {
	cw := csv.NewWriter(w)

	headerLines := [][]string{
		{statement.Header.CompanyName},
		{statement.Header.Tagline},
		{"Customer", statement.Header.CustomerName},
		{"Mobile", statement.Header.Mobile},
		{"Village", statement.Header.Village},
		{"Bank", statement.Header.BankName},
		{"Loan Amount", statement.Header.LoanAmount},
		{"Statement Date", statement.Header.StatementDate},
		{},
		{"Date", "Particulars", "Credit", "Received", "Balance"},
	}
	for _, line := range headerLines {
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	for _, row := range statement.Rows {
		record := []string{row.Date, row.Particulars, row.Credit, row.Received, row.Balance}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{statement.Summary}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
