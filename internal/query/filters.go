package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// builder mengumpulkan kondisi WHERE dengan placeholder posisi.
// Ekspresi memakai %d untuk nomor argumen berikutnya.
type builder struct {
	conds []string
	args  []interface{}
}

func (b *builder) add(expr string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

// raw menambahkan kondisi tanpa argumen (IS NULL / IS NOT NULL).
func (b *builder) raw(expr string) {
	b.conds = append(b.conds, expr)
}

func (b *builder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// TaskFilter adalah permukaan filter untuk koleksi task.
// Field nil berarti filter tidak dipakai.
type TaskFilter struct {
	Text        *string
	Note        *string
	IsCompleted *bool
	IsImportant *bool
	HasDueDate  *bool
	HasReminder *bool
	DueDateGT   *string
	DueDateLTE  *string
	DueDate     *string
	Label       *int
	Priority    *string
	TaskList    *int
}

func (f TaskFilter) apply(b *builder, prefix string) {
	if f.Text != nil {
		b.add(prefix+"text ILIKE $%d", "%"+*f.Text+"%")
	}
	if f.Note != nil {
		b.add(prefix+"note ILIKE $%d", "%"+*f.Note+"%")
	}
	if f.IsCompleted != nil {
		b.add(prefix+"is_completed = $%d", *f.IsCompleted)
	}
	if f.IsImportant != nil {
		b.add(prefix+"is_important = $%d", *f.IsImportant)
	}
	applyPresence(b, prefix+"due_date", f.HasDueDate)
	applyPresence(b, prefix+"reminder_date", f.HasReminder)
	if f.DueDateGT != nil {
		b.add(prefix+"due_date > $%d", *f.DueDateGT)
	}
	if f.DueDateLTE != nil {
		b.add(prefix+"due_date <= $%d", *f.DueDateLTE)
	}
	if f.DueDate != nil {
		b.add(prefix+"due_date = $%d", *f.DueDate)
	}
	if f.Label != nil {
		b.add(prefix+"label_id = $%d", *f.Label)
	}
	if f.Priority != nil {
		b.add(prefix+"priority = $%d", *f.Priority)
	}
	if f.TaskList != nil {
		b.add(prefix+"task_list_id = $%d", *f.TaskList)
	}
}

type TaskListFilter struct {
	Name     *string
	Group    *int
	HasGroup *bool
}

func (f TaskListFilter) apply(b *builder) {
	if f.Name != nil {
		b.add("name ILIKE $%d", "%"+*f.Name+"%")
	}
	if f.Group != nil {
		b.add("group_id = $%d", *f.Group)
	}
	applyPresence(b, "group_id", f.HasGroup)
}

type GroupListFilter struct {
	Name *string
}

func (f GroupListFilter) apply(b *builder) {
	if f.Name != nil {
		b.add("name ILIKE $%d", "%"+*f.Name+"%")
	}
}

type StepFilter struct {
	Text *string
	Task *int
}

func (f StepFilter) apply(b *builder) {
	if f.Text != nil {
		b.add("s.text ILIKE $%d", "%"+*f.Text+"%")
	}
	if f.Task != nil {
		b.add("s.task_id = $%d", *f.Task)
	}
}

// applyPresence menerjemahkan filter "has_*" menjadi IS [NOT] NULL.
func applyPresence(b *builder, col string, has *bool) {
	if has == nil {
		return
	}
	if *has {
		b.raw(col + " IS NOT NULL")
	} else {
		b.raw(col + " IS NULL")
	}
}

func ParseTaskFilter(c *fiber.Ctx) TaskFilter {
	return TaskFilter{
		Text:        queryString(c, "text"),
		Note:        queryString(c, "note"),
		IsCompleted: queryBool(c, "is_completed"),
		IsImportant: queryBool(c, "is_important"),
		HasDueDate:  queryBool(c, "has_due_date"),
		HasReminder: queryBool(c, "has_reminder"),
		DueDateGT:   queryDate(c, "due_date_gt"),
		DueDateLTE:  queryDate(c, "due_date_lte"),
		DueDate:     queryDate(c, "due_date"),
		Label:       queryInt(c, "label"),
		Priority:    queryString(c, "priority"),
		TaskList:    queryInt(c, "task_list"),
	}
}

func ParseTaskListFilter(c *fiber.Ctx) TaskListFilter {
	return TaskListFilter{
		Name:     queryString(c, "name"),
		Group:    queryInt(c, "group"),
		HasGroup: queryBool(c, "has_group"),
	}
}

func ParseGroupListFilter(c *fiber.Ctx) GroupListFilter {
	return GroupListFilter{Name: queryString(c, "name")}
}

func ParseStepFilter(c *fiber.Ctx) StepFilter {
	return StepFilter{
		Text: queryString(c, "text"),
		Task: queryInt(c, "task"),
	}
}

func queryString(c *fiber.Ctx, name string) *string {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	return &v
}

// queryDate memperlakukan tanggal yang tidak bisa di-parse seperti
// filter yang tidak dipakai, sama seperti queryBool dan queryInt.
// Nilai mentah tidak boleh sampai ke perbandingan kolom tanggal.
func queryDate(c *fiber.Ctx, name string) *string {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return nil
	}
	return &v
}

func queryBool(c *fiber.Ctx, name string) *bool {
	switch strings.ToLower(c.Query(name)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}

func queryInt(c *fiber.Ctx, name string) *int {
	v := c.QueryInt(name, -1)
	if v < 0 {
		return nil
	}
	return &v
}
