package domain

import (
	"strings"

	"github.com/fastygo/taskboard/pkg/calendar"
)

// DefaultNearDueHorizon is how many days ahead a due date counts as near.
const DefaultNearDueHorizon = 2

// ParseDueDate reads a YYYY-MM-DD due date, ignoring any time suffix.
func ParseDueDate(s string) (calendar.Date, error) {
	d, err := calendar.Parse(strings.TrimSpace(s))
	if err != nil {
		return calendar.Date{}, WrapError(ErrCodeInvalid, ErrInvalidDateFormat.Message, err)
	}
	return d, nil
}

// OverdueOn reports whether due is strictly before today. A zero due date is
// never overdue.
func OverdueOn(due, today calendar.Date) bool {
	return !due.IsZero() && due.Before(today)
}

// NearDueOn reports whether due falls within [today, today+horizonDays].
func NearDueOn(due, today calendar.Date, horizonDays int) bool {
	if due.IsZero() {
		return false
	}
	diff := calendar.DaysBetween(today, due)
	return diff >= 0 && diff <= int64(horizonDays)
}

// DueStatus derives the effective status of a task. Every place that infers
// status goes through here.
func DueStatus(due calendar.Date, completed bool, today calendar.Date) TaskStatus {
	if completed {
		return StatusCompleted
	}
	if OverdueOn(due, today) {
		return StatusOverdue
	}
	return StatusPending
}

// IsOverdue is OverdueOn for a wire-format date. An empty string is not
// overdue; a malformed one is an error.
func IsOverdue(dueDate string, today calendar.Date) (bool, error) {
	if strings.TrimSpace(dueDate) == "" {
		return false, nil
	}
	due, err := ParseDueDate(dueDate)
	if err != nil {
		return false, err
	}
	return OverdueOn(due, today), nil
}

// IsNearDue is NearDueOn for a wire-format date.
func IsNearDue(dueDate string, today calendar.Date, horizonDays int) (bool, error) {
	if strings.TrimSpace(dueDate) == "" {
		return false, nil
	}
	due, err := ParseDueDate(dueDate)
	if err != nil {
		return false, err
	}
	return NearDueOn(due, today, horizonDays), nil
}

// StatusFromDueDate is DueStatus for a wire-format date. Completion wins
// before the date is even looked at.
func StatusFromDueDate(dueDate string, completed bool, today calendar.Date) (TaskStatus, error) {
	if completed {
		return StatusCompleted, nil
	}
	if strings.TrimSpace(dueDate) == "" {
		return StatusPending, nil
	}
	due, err := ParseDueDate(dueDate)
	if err != nil {
		return "", err
	}
	return DueStatus(due, false, today), nil
}

// FormatDueDate renders a wire-format date for display in locale.
func FormatDueDate(dueDate, locale string) (string, error) {
	if strings.TrimSpace(dueDate) == "" {
		return "", nil
	}
	due, err := ParseDueDate(dueDate)
	if err != nil {
		return "", err
	}
	return due.Format(locale), nil
}
