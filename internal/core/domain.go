package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Revenue MovementType = "receita"
	Expense MovementType = "despesa"
)

type (
	// MovementType tags a movement as incoming (receita) or outgoing (despesa).
	MovementType string

	// Date is a calendar date with day precision. It is always stored at
	// midnight UTC so two dates compare equal iff their (year, month, day)
	// triples match, regardless of the wall clock they were built from.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Movement is a single recorded cash event in the shop ledger.
	Movement struct {
		ID          string
		Description string
		Amount      Money
		Date        Date
		DueDate     Date // zero when the movement has no scheduled payment
		Paid        bool
		Category    string
		Type        MovementType

		// Installment plan metadata, informational only. Zero for
		// movements that are not part of a plan.
		Installments int
		IntervalDays int
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid movement type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// NewDate creates a Date from calendar components, normalized to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today is the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty reports whether the date is absent or malformed. Records carrying
// an empty date never match any date-based filter.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameDay compares two dates on their (year, month, day) triples.
func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}

// AddDays returns the date n calendar days later (earlier when negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// ISOWeek returns the ISO 8601 year and week number of the date.
func (d Date) ISOWeek() (year, week int) {
	return d.Time.ISOWeek()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (t MovementType) Validate() error {
	switch t {
	case Revenue, Expense:
		return nil
	}
	return ErrInvalidType
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (mv Movement) Validate() error {
	if err := mv.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(mv.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(mv.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := mv.Amount.Validate(); err != nil {
		return err
	}
	if err := mv.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(mv.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
