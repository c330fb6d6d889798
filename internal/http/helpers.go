package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"caixa/internal/core"
	"caixa/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", log.FieldError, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// queryMovementType reads the type filter for aggregate endpoints.
// Averages follow the revenue ledger unless despesa is asked for explicitly;
// the two types never mix in one aggregate.
func queryMovementType(r *http.Request) (core.MovementType, error) {
	v := strings.TrimSpace(r.URL.Query().Get("type"))
	if v == "" {
		return core.Revenue, nil
	}
	t := core.MovementType(v)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// parseDate reads a YYYY-MM-DD value. Empty input yields the zero Date.
func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type movementResponse struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	DueDate      string `json:"due_date,omitempty"`
	Paid         bool   `json:"paid"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Installments int    `json:"installments"`
	IntervalDays int    `json:"interval_days"`
}

func toMovementResponse(m core.Movement) movementResponse {
	resp := movementResponse{
		ID:           m.ID,
		Description:  m.Description,
		AmountCents:  m.Amount.Cents,
		Amount:       m.Amount.Decimal(),
		Date:         m.Date.String(),
		Paid:         m.Paid,
		Category:     m.Category,
		Type:         string(m.Type),
		Installments: m.Installments,
		IntervalDays: m.IntervalDays,
	}
	if !m.DueDate.IsEmpty() {
		resp.DueDate = m.DueDate.String()
	}
	return resp
}

func toMovementResponses(movements []core.Movement) []movementResponse {
	out := make([]movementResponse, len(movements))
	for i, m := range movements {
		out[i] = toMovementResponse(m)
	}
	return out
}
