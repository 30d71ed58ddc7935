/*
 * @module service/models/qc_enums
 * @description Enumerations shared by the QC models: control types, slot status and production shifts
 * @architecture Layered architecture - data model layer
 * @stateFlow ScheduledControl: pending -> completed | skipped | overdue
 * @rules Shift buckets: [06:00,14:00) A, [14:00,22:00) B, otherwise C
 * @dependencies time
 * @refs service/models/scheduled_control.go, service/models/measurement.go
 */

package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout and ClockLayout are the storage formats for dates and times of day.
// Both sort lexicographically in the same order as chronologically.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ControlType is the data shape of a measurement.
type ControlType string

const (
	ControlTypeNumeric     ControlType = "numeric"
	ControlTypeVisual      ControlType = "visual"
	ControlTypeCategorical ControlType = "categorical"
	ControlTypeBoolean     ControlType = "boolean"
)

// Valid reports whether t is one of the known control types.
func (t ControlType) Valid() bool {
	switch t {
	case ControlTypeNumeric, ControlTypeVisual, ControlTypeCategorical, ControlTypeBoolean:
		return true
	}
	return false
}

// ScheduleStatus is the state of a scheduled slot.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusSkipped   ScheduleStatus = "skipped"
	ScheduleStatusOverdue   ScheduleStatus = "overdue"
)

// AllScheduleStatuses lists statuses in display order.
var AllScheduleStatuses = []ScheduleStatus{
	ScheduleStatusPending,
	ScheduleStatusCompleted,
	ScheduleStatusOverdue,
	ScheduleStatusSkipped,
}

// IsTerminal reports whether no automatic transition leaves s.
func (s ScheduleStatus) IsTerminal() bool {
	return s != ScheduleStatusPending
}

// Shift is one of the three 8-hour production periods.
type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
	ShiftC Shift = "C"
)

// AllShifts lists shifts in production order.
var AllShifts = []Shift{ShiftA, ShiftB, ShiftC}

// Label returns the hour range printed on control sheets.
func (s Shift) Label() string {
	switch s {
	case ShiftA:
		return "06H-14H"
	case ShiftB:
		return "14H-22H"
	case ShiftC:
		return "22H-06H"
	}
	return string(s)
}

// ShiftForMinute buckets a minute of the day (0..1439) into a shift.
func ShiftForMinute(minute int) Shift {
	switch {
	case minute >= 6*60 && minute < 14*60:
		return ShiftA
	case minute >= 14*60 && minute < 22*60:
		return ShiftB
	default:
		return ShiftC
	}
}

// ShiftAt returns the shift covering the wall-clock time of t.
func ShiftAt(t time.Time) Shift {
	return ShiftForMinute(t.Hour()*60 + t.Minute())
}

// ShiftForClock returns the shift for an "HH:MM" time of day.
func ShiftForClock(clock string) (Shift, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return ShiftAt(t), nil
}

// ParseShift accepts a shift code ("A") or its label ("06H-14H").
func ParseShift(s string) (Shift, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, shift := range AllShifts {
		if v == string(shift) || v == shift.Label() {
			return shift, nil
		}
	}
	return "", fmt.Errorf("unknown shift %q", s)
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock renders t in ClockLayout.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ClockFromMinute renders a minute of the day as "HH:MM".
func ClockFromMinute(minute int) string {
	minute = ((minute % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// StrPtr returns nil for the empty string, otherwise a pointer to a copy of s.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to a copy of v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// BoolPtr returns a pointer to a copy of v.
func BoolPtr(v bool) *bool {
	return &v
}

// StrValue dereferences p, returning "" for nil.
func StrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ParseDate parses a DateLayout string in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// IsMonday reports whether t falls on the first weekday of the production week.
func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}
