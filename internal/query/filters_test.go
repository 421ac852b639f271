package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestBuilderEmpty(t *testing.T) {
	b := &builder{}
	assert.Equal(t, "", b.where())
	assert.Empty(t, b.args)
}

func TestBuilderNumbersPlaceholders(t *testing.T) {
	b := &builder{}
	b.add("owner_id = $%d", "abc")
	b.add("task_list_id = $%d", 7)
	b.raw("due_date IS NULL")

	assert.Equal(t, " WHERE owner_id = $1 AND task_list_id = $2 AND due_date IS NULL", b.where())
	assert.Equal(t, []interface{}{"abc", 7}, b.args)
}

func TestTaskFilterApply(t *testing.T) {
	f := TaskFilter{
		Text:        strPtr("milk"),
		IsCompleted: boolPtr(true),
		HasDueDate:  boolPtr(false),
		DueDateGT:   strPtr("2026-01-01"),
		Priority:    strPtr("2"),
		Label:       intPtr(3),
	}
	b := &builder{}
	f.apply(b, "")

	assert.Equal(t,
		" WHERE text ILIKE $1 AND is_completed = $2 AND due_date IS NULL AND due_date > $3 AND label_id = $4 AND priority = $5",
		b.where())
	assert.Equal(t, []interface{}{"%milk%", true, "2026-01-01", 3, "2"}, b.args)
}

func TestTaskFilterPrefix(t *testing.T) {
	f := TaskFilter{Text: strPtr("x")}
	b := &builder{}
	f.apply(b, "t.")
	assert.Equal(t, " WHERE t.text ILIKE $1", b.where())
}

func TestTaskListFilterPresence(t *testing.T) {
	b := &builder{}
	TaskListFilter{HasGroup: boolPtr(true)}.apply(b)
	assert.Equal(t, " WHERE group_id IS NOT NULL", b.where())

	b = &builder{}
	TaskListFilter{Name: strPtr("work"), Group: intPtr(5)}.apply(b)
	assert.Equal(t, " WHERE name ILIKE $1 AND group_id = $2", b.where())
}

func TestStepFilterApply(t *testing.T) {
	b := &builder{}
	StepFilter{Text: strPtr("step"), Task: intPtr(9)}.apply(b)
	assert.Equal(t, " WHERE s.text ILIKE $1 AND s.task_id = $2", b.where())
}
