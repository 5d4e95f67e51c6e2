package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/pkg/calendar"
)

func TestNormalizeProjectName(t *testing.T) {
	name, err := NormalizeProjectName("  Website redesign  ")
	require.NoError(t, err)
	assert.Equal(t, "Website redesign", name)

	name, err = NormalizeProjectName("Ação")
	require.NoError(t, err)
	assert.Equal(t, "Ação", name)

	_, err = NormalizeProjectName("ab")
	assert.ErrorIs(t, err, ErrInvalidProjectName)

	_, err = NormalizeProjectName("   ab   ")
	assert.ErrorIs(t, err, ErrInvalidProjectName)

	_, err = NormalizeProjectName(strings.Repeat("x", 51))
	assert.ErrorIs(t, err, ErrInvalidProjectName)

	_, err = NormalizeProjectName(strings.Repeat("x", 50))
	assert.NoError(t, err)

	_, err = NormalizeProjectName("bad\x00name")
	assert.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestSummarize(t *testing.T) {
	tasks := []Task{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusCompleted},
		{Status: StatusOverdue},
	}
	assert.Equal(t, TaskSummary{Total: 4, Pending: 2, Completed: 1, Overdue: 1}, Summarize(tasks))
	assert.Equal(t, TaskSummary{}, Summarize(nil))
}

func TestFilterTasks(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusCompleted},
		{ID: "3", Status: StatusOverdue},
		{ID: "4", Status: StatusPending},
	}

	all, err := FilterTasks(tasks, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := FilterTasks(tasks, FilterPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].ID)
	assert.Equal(t, "4", pending[1].ID)

	overdue, err := FilterTasks(tasks, "VENCIDA")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "3", overdue[0].ID)

	_, err = FilterTasks(tasks, "ARCHIVED")
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestTaskValidate(t *testing.T) {
	valid := Task{
		ProjectID:   "p1",
		Title:       "Write report",
		Responsible: "Ana",
		DueDate:     calendar.MustParse("2026-02-23"),
	}
	assert.NoError(t, valid.Validate())

	missingTitle := valid
	missingTitle.Title = ""
	assert.True(t, IsDomainError(missingTitle.Validate(), ErrCodeInvalid))

	missingDue := valid
	missingDue.DueDate = calendar.Date{}
	assert.True(t, IsDomainError(missingDue.Validate(), ErrCodeInvalid))

	badStatus := valid
	badStatus.Status = "DONE"
	assert.ErrorIs(t, badStatus.Validate(), ErrInvalidStatus)

	var nilTask *Task
	assert.ErrorIs(t, nilTask.Validate(), ErrInvalidPayload)
}

func TestParseTaskStatus(t *testing.T) {
	for _, s := range []string{"PENDENTE", "CONCLUIDA", "VENCIDA"} {
		st, err := ParseTaskStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TaskStatus(s), st)
	}
	for _, s := range []string{"", "pendente", "DONE", "Concluída"} {
		_, err := ParseTaskStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, s)
	}
}

func TestErrorsMatchWrappedSentinels(t *testing.T) {
	err := Unavailable(assert.AnError)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, IsDomainError(err, ErrCodeUnavailable))
	assert.NotErrorIs(t, err, ErrTaskNotFound)
	assert.Nil(t, Unavailable(nil))
}
