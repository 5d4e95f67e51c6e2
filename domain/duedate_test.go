package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/pkg/calendar"
)

var today = calendar.MustParse("2026-02-23")

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		due  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"2020-01-01", true},
		{"2026-02-22", true},
		{"2026-02-22T23:59:59Z", true},
		{"2026-02-23", false},
		{"2026-02-23T00:00:00Z", false},
		{"2026-02-24", false},
		{"2099-01-01", false},
	}
	for _, tt := range tests {
		got, err := IsOverdue(tt.due, today)
		require.NoError(t, err, tt.due)
		assert.Equal(t, tt.want, got, tt.due)
	}
}

func TestIsOverdueRejectsMalformed(t *testing.T) {
	for _, due := range []string{"23/02/2026", "2026-2-3", "tomorrow", "2026-02-30"} {
		_, err := IsOverdue(due, today)
		require.Error(t, err, due)
		assert.ErrorIs(t, err, ErrInvalidDateFormat)
		assert.True(t, IsDomainError(err, ErrCodeInvalid))
		assert.True(t, errors.Is(err, calendar.ErrInvalidFormat))
	}
}

func TestIsNearDue(t *testing.T) {
	tests := []struct {
		offset int
		want   bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		due := today.AddDays(tt.offset).String()
		got, err := IsNearDue(due, today, DefaultNearDueHorizon)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}

	got, err := IsNearDue("", today, DefaultNearDueHorizon)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = IsNearDue(today.AddDays(5).String(), today, 7)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = IsNearDue("02/25/2026", today, DefaultNearDueHorizon)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestNearDueAcrossMonthAndYear(t *testing.T) {
	assert.True(t, NearDueOn(calendar.MustParse("2026-03-01"), calendar.MustParse("2026-02-27"), 2))
	assert.False(t, NearDueOn(calendar.MustParse("2026-03-02"), calendar.MustParse("2026-02-27"), 2))
	assert.True(t, NearDueOn(calendar.MustParse("2027-01-01"), calendar.MustParse("2026-12-30"), 2))
	assert.False(t, NearDueOn(calendar.Date{}, today, 2))
}

func TestStatusFromDueDate(t *testing.T) {
	for _, due := range []string{"", "2020-01-01", "2099-01-01", "garbage", "2026-13-45"} {
		st, err := StatusFromDueDate(due, true, today)
		require.NoError(t, err, due)
		assert.Equal(t, StatusCompleted, st, due)
	}

	st, err := StatusFromDueDate("2026-02-22", false, today)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, st)

	st, err = StatusFromDueDate("2026-02-23", false, today)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	st, err = StatusFromDueDate("", false, today)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	_, err = StatusFromDueDate("garbage", false, today)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDueStatusAgreesWithStringForm(t *testing.T) {
	for offset := -5; offset <= 5; offset++ {
		due := today.AddDays(offset)
		for _, completed := range []bool{true, false} {
			fromString, err := StatusFromDueDate(due.String()+"T00:00:00Z", completed, today)
			require.NoError(t, err)
			assert.Equal(t, DueStatus(due, completed, today), fromString)
		}
	}
}

func TestSuffixTolerance(t *testing.T) {
	plain, suffixed := "2026-02-23", "2026-02-23T00:00:00Z"
	for offset := -3; offset <= 3; offset++ {
		ref := today.AddDays(offset)

		a, err := IsOverdue(plain, ref)
		require.NoError(t, err)
		b, err := IsOverdue(suffixed, ref)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		a, err = IsNearDue(plain, ref, DefaultNearDueHorizon)
		require.NoError(t, err)
		b, err = IsNearDue(suffixed, ref, DefaultNearDueHorizon)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}

	x, err := FormatDueDate(plain, "pt-BR")
	require.NoError(t, err)
	y, err := FormatDueDate(suffixed, "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "23/02/2026", x)
	assert.Equal(t, x, y)
}

func TestFormatDueDate(t *testing.T) {
	got, err := FormatDueDate("", "pt-BR")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = FormatDueDate("nope", "pt-BR")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
