package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"caixa/internal/analytics"
	"caixa/internal/calendar"
	"caixa/internal/core"
	"caixa/internal/ledger"
	"caixa/internal/log"
)

type averageResponse struct {
	TargetDay    int    `json:"target_day"`
	Type         string `json:"type"`
	AverageCents int64  `json:"average_cents"`
	Average      string `json:"average"`
	DataPoints   int    `json:"data_points"`
	HasData      bool   `json:"has_data"`
}

func (s *Server) handleDailyAverage(w http.ResponseWriter, r *http.Request) {
	today := core.Today()

	targetDay, err := queryInt(r, "target_day", today.Day())
	if err != nil || targetDay < 1 || targetDay > 31 {
		writeError(w, http.StatusBadRequest, "target_day must be between 1 and 31")
		return
	}
	monthsBack, err := queryInt(r, "months_back", s.targetWindowMonths)
	if err != nil || monthsBack < 1 {
		writeError(w, http.StatusBadRequest, "months_back must be at least 1")
		return
	}
	movType, err := queryMovementType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be receita or despesa")
		return
	}

	key := fmt.Sprintf("d:%s:%d:%d:%s", today, targetDay, monthsBack, movType)
	result, found := s.dailyCache.Get(key)
	if !found {
		led, err := s.loadLedger(w, r)
		if err != nil {
			return
		}
		result = analytics.CalculateDailyAverage(today, targetDay, monthsBack, led.ByType(movType))
		s.dailyCache.Set(key, result)
	}

	writeJSON(w, http.StatusOK, averageResponse{
		TargetDay:    result.TargetDay,
		Type:         string(movType),
		AverageCents: result.Average.Cents,
		Average:      result.Average.Decimal(),
		DataPoints:   result.DataPoints,
		HasData:      result.HasData(),
	})
}

type weeklyAverageResponse struct {
	Week         int    `json:"week"`
	Year         int    `json:"year"`
	Type         string `json:"type"`
	AverageCents int64  `json:"average_cents"`
	Average      string `json:"average"`
	DataPoints   int    `json:"data_points"`
	HasData      bool   `json:"has_data"`
}

func (s *Server) handleWeeklyAverage(w http.ResponseWriter, r *http.Request) {
	isoYear, isoWeek := core.Today().ISOWeek()

	week, err := queryInt(r, "week", isoWeek)
	if err != nil || week < 1 || week > 53 {
		writeError(w, http.StatusBadRequest, "week must be between 1 and 53")
		return
	}
	year, err := queryInt(r, "year", isoYear)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	movType, err := queryMovementType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be receita or despesa")
		return
	}

	key := fmt.Sprintf("w:%d:%d:%s", year, week, movType)
	result, found := s.weeklyCache.Get(key)
	if !found {
		led, err := s.loadLedger(w, r)
		if err != nil {
			return
		}
		result = analytics.CalculateWeeklyAverage(week, year, led.ByType(movType))
		s.weeklyCache.Set(key, result)
	}

	writeJSON(w, http.StatusOK, weeklyAverageResponse{
		Week:         result.Week,
		Year:         result.Year,
		Type:         string(movType),
		AverageCents: result.Average.Cents,
		Average:      result.Average.Decimal(),
		DataPoints:   result.DataPoints,
		HasData:      result.HasData(),
	})
}

type monthlyAverageResponse struct {
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	Type         string `json:"type"`
	AverageCents int64  `json:"average_cents"`
	Average      string `json:"average"`
	TotalCents   int64  `json:"total_cents"`
	Total        string `json:"total"`
	DataPoints   int    `json:"data_points"`
	HasData      bool   `json:"has_data"`
}

func (s *Server) handleMonthlyAverage(w http.ResponseWriter, r *http.Request) {
	today := core.Today()

	month, err := queryInt(r, "month", today.Month())
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	year, err := queryInt(r, "year", today.Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	movType, err := queryMovementType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be receita or despesa")
		return
	}

	key := fmt.Sprintf("m:%d:%d:%s", year, month, movType)
	result, found := s.monthlyCache.Get(key)
	if !found {
		led, err := s.loadLedger(w, r)
		if err != nil {
			return
		}
		result = analytics.CalculateMonthlyAverage(month, year, led.ByType(movType))
		s.monthlyCache.Set(key, result)
	}

	writeJSON(w, http.StatusOK, monthlyAverageResponse{
		Month:        result.Month,
		Year:         result.Year,
		Type:         string(movType),
		AverageCents: result.Average.Cents,
		Average:      result.Average.Decimal(),
		TotalCents:   result.Total.Cents,
		Total:        result.Total.Decimal(),
		DataPoints:   result.DataPoints,
		HasData:      result.HasData(),
	})
}

type targetsResponse struct {
	DailyCents    int64  `json:"daily_cents"`
	Daily         string `json:"daily"`
	WeeklyCents   int64  `json:"weekly_cents"`
	Weekly        string `json:"weekly"`
	MonthlyCents  int64  `json:"monthly_cents"`
	Monthly       string `json:"monthly"`
	MonthsSampled int    `json:"months_sampled"`
	HasData       bool   `json:"has_data"`

	ReferenceDay    string `json:"reference_day"`
	IsClosedDay     bool   `json:"is_closed_day"`
	PreviousOpenDay string `json:"previous_open_day,omitempty"`
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	reference, err := parseDate(r.URL.Query().Get("reference_day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reference_day, expected YYYY-MM-DD")
		return
	}
	if reference.IsEmpty() {
		reference = core.Today()
	}
	monthsBack, err := queryInt(r, "months_back", s.targetWindowMonths)
	if err != nil || monthsBack < 1 {
		writeError(w, http.StatusBadRequest, "months_back must be at least 1")
		return
	}

	key := fmt.Sprintf("t:%s:%d", reference, monthsBack)
	projection, found := s.targetCache.Get(key)
	if !found {
		led, err := s.loadLedger(w, r)
		if err != nil {
			return
		}
		projection = analytics.ProjectTargets(reference, monthsBack, led)
		s.targetCache.Set(key, projection)
	}

	resp := targetsResponse{
		DailyCents:    projection.Daily.Cents,
		Daily:         projection.Daily.Decimal(),
		WeeklyCents:   projection.Weekly.Cents,
		Weekly:        projection.Weekly.Decimal(),
		MonthlyCents:  projection.Monthly.Cents,
		Monthly:       projection.Monthly.Decimal(),
		MonthsSampled: projection.MonthsSampled,
		HasData:       projection.HasData(),
		ReferenceDay:  reference.String(),
		IsClosedDay:   calendar.IsClosedDay(reference),
	}
	if resp.IsClosedDay {
		resp.PreviousOpenDay = calendar.PreviousOpenDay(reference).String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExportCSV streams the full live ledger as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	led, err := s.loadLedger(w, r)
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="movimentos.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "date", "description", "amount", "type", "category", "paid", "due_date", "installments", "interval_days"})
	for _, m := range led.All() {
		due := ""
		if !m.DueDate.IsEmpty() {
			due = m.DueDate.String()
		}
		paid := "false"
		if m.Paid {
			paid = "true"
		}
		_ = cw.Write([]string{
			m.ID,
			m.Date.String(),
			m.Description,
			m.Amount.Decimal(),
			string(m.Type),
			m.Category,
			paid,
			due,
			strconv.Itoa(m.Installments),
			strconv.Itoa(m.IntervalDays),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", log.FieldError, err)
	}
}

// loadLedger reads the ledger snapshot, answering 500 on failure.
func (s *Server) loadLedger(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, error) {
	led, err := s.service.LoadLedger(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load ledger failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load movements")
		return nil, err
	}
	return led, nil
}
