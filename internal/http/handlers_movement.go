package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/storage"
)

type createMovementRequest struct {
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Date         string `json:"date,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	Paid         bool   `json:"paid,omitempty"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Installments int    `json:"installments,omitempty"`
	IntervalDays int    `json:"interval_days,omitempty"`
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid due_date, expected YYYY-MM-DD")
		return
	}

	in := services.CreateMovementInput{
		Description:  sanitizeInput(req.Description),
		Amount:       core.Money{Cents: cents},
		Date:         date,
		DueDate:      dueDate,
		Paid:         req.Paid,
		Category:     sanitizeInput(req.Category),
		Type:         core.MovementType(req.Type),
		Installments: req.Installments,
		IntervalDays: req.IntervalDays,
	}

	created, err := s.service.CreateMovement(r.Context(), in)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create movement failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to save movement")
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, toMovementResponses(created))
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	led, err := s.service.LoadLedger(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load ledger failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load movements")
		return
	}

	year, err := queryInt(r, "year", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	if t := r.URL.Query().Get("type"); t != "" {
		led = led.ByType(core.MovementType(t))
	}
	if c := r.URL.Query().Get("category"); c != "" {
		led = led.ByCategory(c)
	}

	var movements []core.Movement
	switch {
	case year != 0 && month != 0:
		movements = led.InMonth(year, month)
	case limit > 0:
		movements = led.Recent(limit)
	default:
		movements = led.All()
	}

	writeJSON(w, http.StatusOK, toMovementResponses(movements))
}

func (s *Server) handleGetMovement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	m, err := s.service.GetMovement(r.Context(), id)
	if errors.Is(err, storage.ErrMovementNotFound) {
		writeError(w, http.StatusNotFound, "movement not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get movement failed", log.FieldMovementID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load movement")
		return
	}
	writeJSON(w, http.StatusOK, toMovementResponse(m))
}

func (s *Server) handleTogglePaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	updated, err := s.service.TogglePaid(r.Context(), id)
	if errors.Is(err, storage.ErrMovementNotFound) {
		writeError(w, http.StatusNotFound, "movement not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Toggle paid failed", log.FieldMovementID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to update movement")
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, toMovementResponse(updated))
}

func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.service.DeleteMovement(r.Context(), id)
	if errors.Is(err, storage.ErrMovementNotFound) {
		writeError(w, http.StatusNotFound, "movement not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete movement failed", log.FieldMovementID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to delete movement")
		return
	}

	s.invalidateAggregates()
	w.WriteHeader(http.StatusNoContent)
}
