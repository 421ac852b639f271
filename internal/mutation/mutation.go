package mutation

import (
	"database/sql"

	"blazely/internal/apperr"
	"blazely/internal/identity"
	"blazely/internal/models"

	"github.com/forPelevin/gomoji"
)

// Mutation engine: create/update tervalidasi dan transaksional.
// Owner selalu diturunkan dari Scope caller, tidak pernah dari payload.
// Pengecekan uniqueness di sini hanya early-reject; constraint di store
// tetap menjadi arbiter terakhir dan pelanggarannya diterjemahkan
// menjadi ValidationError oleh apperr.FromStore.

func validEmoji(glyph string) bool {
	_, err := gomoji.GetInfo(glyph)
	return err == nil
}

// ---- Group lists ----

func CreateGroupList(db *sql.DB, sc identity.Scope, name string) (*models.GroupList, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM group_lists WHERE name = $1 AND owner_id = $2)",
		name, sc.ProfileID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("name", "Group list with given name already exists.")
	}

	group := models.GroupList{Name: name, OwnerID: sc.ProfileID, Lists: []models.TaskListWithoutGroup{}}
	err = tx.QueryRow(
		"INSERT INTO group_lists (name, owner_id) VALUES ($1, $2) RETURNING id, created_at",
		name, sc.ProfileID).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "name", "Group list with given name already exists.")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &group, nil
}

type GroupListUpdate struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=150"`
}

func UpdateGroupList(db *sql.DB, sc identity.Scope, id int, req GroupListUpdate) error {
	res, err := db.Exec(`
		UPDATE group_lists
		SET name = COALESCE($1, name)
		WHERE id = $2 AND ($3 OR owner_id = $4)`,
		req.Name, id, sc.IsAdmin(), sc.ProfileID,
	)
	if err != nil {
		return apperr.FromStore(err, "name", "Group list with given name already exists.")
	}
	return notFoundIfZero(res, "Group not found")
}

// ---- Task lists ----

type TaskListCreate struct {
	Name  string  `json:"name" validate:"required,min=1,max=150"`
	Emoji *string `json:"emoji"`
	Group *int    `json:"group"`
}

func CreateTaskList(db *sql.DB, sc identity.Scope, req TaskListCreate) (*models.TaskList, error) {
	emoji := models.DefaultEmoji
	if req.Emoji != nil {
		if !validEmoji(*req.Emoji) {
			return nil, apperr.Validation("emoji", "Invalid emoji.")
		}
		emoji = *req.Emoji
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM task_lists WHERE name = $1 AND owner_id = $2)",
		req.Name, sc.ProfileID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("name", "List with given name already exists.")
	}

	// Referensi group harus milik profile yang sama; relokasi menerima
	// id mentah sehingga ownership divalidasi di sini, bukan cuma FK.
	if req.Group != nil {
		if err := checkGroupOwned(tx, *req.Group, sc); err != nil {
			return nil, err
		}
	}

	list := models.TaskList{
		Name:    req.Name,
		Emoji:   emoji,
		Group:   req.Group,
		OwnerID: sc.ProfileID,
		Tasks:   []models.Task{},
	}
	err = tx.QueryRow(
		"INSERT INTO task_lists (name, emoji, group_id, owner_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		req.Name, emoji, req.Group, sc.ProfileID).Scan(&list.ID, &list.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "name", "List with given name already exists.")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &list, nil
}

type TaskListUpdate struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=150"`
	Emoji *string `json:"emoji"`
}

func UpdateTaskList(db *sql.DB, sc identity.Scope, id int, req TaskListUpdate) error {
	if req.Emoji != nil && !validEmoji(*req.Emoji) {
		return apperr.Validation("emoji", "Invalid emoji.")
	}

	res, err := db.Exec(`
		UPDATE task_lists
		SET name = COALESCE($1, name),
			emoji = COALESCE($2, emoji)
		WHERE id = $3 AND ($4 OR owner_id = $5)`,
		req.Name, req.Emoji, id, sc.IsAdmin(), sc.ProfileID,
	)
	if err != nil {
		return apperr.FromStore(err, "name", "List with given name already exists.")
	}
	return notFoundIfZero(res, "List not found")
}

func checkGroupOwned(tx *sql.Tx, groupID int, sc identity.Scope) error {
	var exists bool
	err := tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM group_lists WHERE id = $1 AND owner_id = $2)",
		groupID, sc.ProfileID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("group", "Group does not exist or is not yours.")
	}
	return nil
}

// ---- Labels ----

func CreateLabel(db *sql.DB, sc identity.Scope, name string) (*models.Label, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM labels WHERE name = $1 AND owner_id = $2)",
		name, sc.ProfileID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("name", "Label with given name already exists.")
	}

	label := models.Label{Name: name, OwnerID: sc.ProfileID}
	err = tx.QueryRow(
		"INSERT INTO labels (name, owner_id) VALUES ($1, $2) RETURNING id, created_at",
		name, sc.ProfileID).Scan(&label.ID, &label.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "name", "Label with given name already exists.")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &label, nil
}

func UpdateLabel(db *sql.DB, sc identity.Scope, id int, name string) error {
	res, err := db.Exec(
		"UPDATE labels SET name = $1 WHERE id = $2 AND ($3 OR owner_id = $4)",
		name, id, sc.IsAdmin(), sc.ProfileID,
	)
	if err != nil {
		return apperr.FromStore(err, "name", "Label with given name already exists.")
	}
	return notFoundIfZero(res, "Label not found")
}

// ---- Tasks ----

type TaskCreate struct {
	Text         string  `json:"text" validate:"required,max=255"`
	Note         *string `json:"note" validate:"omitempty,max=255"`
	IsCompleted  bool    `json:"is_completed"`
	IsImportant  bool    `json:"is_important"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	ReminderDate *string `json:"reminder_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=1 2 3 4"`
	Label        *int    `json:"label"`
}

// CreateTask membutuhkan list scope dari path; pembuatan task tanpa
// parent list ditolak di handler sebelum sampai ke sini.
func CreateTask(db *sql.DB, sc identity.Scope, req TaskCreate) (*models.Task, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM task_lists WHERE id = $1 AND owner_id = $2)",
		*sc.ListID, sc.ProfileID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.Validation("task_list", "Task list is required to create a task.")
	}

	if req.Label != nil {
		if err := checkLabelOwned(tx, *req.Label, sc); err != nil {
			return nil, err
		}
	}

	priority := models.Priority4
	if req.Priority != nil {
		priority = *req.Priority
	}

	task := models.Task{
		Text:         req.Text,
		Note:         req.Note,
		IsCompleted:  req.IsCompleted,
		IsImportant:  req.IsImportant,
		DueDate:      req.DueDate,
		Priority:     priority,
		Label:        req.Label,
		TaskListID:   *sc.ListID,
		OwnerID:      sc.ProfileID,
		Steps:        []models.TaskStep{},
	}
	var reminder sql.NullTime
	err = tx.QueryRow(`
		INSERT INTO tasks (text, note, is_completed, is_important, due_date, reminder_date, priority, label_id, task_list_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, reminder_date, created_at`,
		req.Text, req.Note, req.IsCompleted, req.IsImportant, req.DueDate,
		req.ReminderDate, priority, req.Label, *sc.ListID, sc.ProfileID,
	).Scan(&task.ID, &reminder, &task.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "task", "Invalid task data.")
	}
	if reminder.Valid {
		task.ReminderDate = &reminder.Time
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &task, nil
}

type TaskUpdate struct {
	Text         *string `json:"text" validate:"omitempty,max=255"`
	Note         *string `json:"note" validate:"omitempty,max=255"`
	IsCompleted  *bool   `json:"is_completed"`
	IsImportant  *bool   `json:"is_important"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	ReminderDate *string `json:"reminder_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=1 2 3 4"`
	Label        *int    `json:"label"`
	Archived     *bool   `json:"archived"`
}

func UpdateTask(db *sql.DB, sc identity.Scope, id int, req TaskUpdate) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if req.Label != nil {
		if err := checkLabelOwned(tx, *req.Label, sc); err != nil {
			return err
		}
	}

	res, err := tx.Exec(`
		UPDATE tasks
		SET text = COALESCE($1, text),
			note = COALESCE($2, note),
			is_completed = COALESCE($3, is_completed),
			is_important = COALESCE($4, is_important),
			due_date = COALESCE($5, due_date),
			reminder_date = COALESCE($6, reminder_date),
			priority = COALESCE($7, priority),
			label_id = COALESCE($8, label_id),
			archived = COALESCE($9, archived)
		WHERE id = $10 AND ($11 OR owner_id = $12)`,
		req.Text, req.Note, req.IsCompleted, req.IsImportant, req.DueDate,
		req.ReminderDate, req.Priority, req.Label, req.Archived,
		id, sc.IsAdmin(), sc.ProfileID,
	)
	if err != nil {
		return apperr.FromStore(err, "task", "Invalid task data.")
	}
	if err := notFoundIfZero(res, "Task not found"); err != nil {
		return err
	}
	return tx.Commit()
}

func checkLabelOwned(tx *sql.Tx, labelID int, sc identity.Scope) error {
	var exists bool
	err := tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM labels WHERE id = $1 AND owner_id = $2)",
		labelID, sc.ProfileID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("label", "Label does not exist or is not yours.")
	}
	return nil
}

// ---- Task steps ----

// CreateStep membutuhkan task scope dari path, dengan aturan penolakan
// yang sama seperti CreateTask.
func CreateStep(db *sql.DB, sc identity.Scope, text string) (*models.TaskStep, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND owner_id = $2)",
		*sc.TaskID, sc.ProfileID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.Validation("task", "Task is required to create a step.")
	}

	step := models.TaskStep{Text: text, TaskID: *sc.TaskID}
	err = tx.QueryRow(
		"INSERT INTO task_steps (text, task_id) VALUES ($1, $2) RETURNING id, created_at",
		text, *sc.TaskID).Scan(&step.ID, &step.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "step", "Invalid step data.")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &step, nil
}

func UpdateStep(db *sql.DB, sc identity.Scope, id int, text string) error {
	res, err := db.Exec(`
		UPDATE task_steps s
		SET text = $1
		FROM tasks t
		WHERE s.id = $2 AND t.id = s.task_id AND ($3 OR t.owner_id = $4)`,
		text, id, sc.IsAdmin(), sc.ProfileID,
	)
	if err != nil {
		return apperr.FromStore(err, "step", "Invalid step data.")
	}
	return notFoundIfZero(res, "Step not found")
}

// ---- Deletes ----

// Delete ownership-checked: 0 baris berarti tidak ada atau bukan milik
// caller, dua-duanya dilaporkan NotFound.

func DeleteGroupList(db *sql.DB, sc identity.Scope, id int) error {
	res, err := db.Exec(
		"DELETE FROM group_lists WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.ProfileID)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Group not found")
}

func DeleteTaskList(db *sql.DB, sc identity.Scope, id int) error {
	res, err := db.Exec(
		"DELETE FROM task_lists WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.ProfileID)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "List not found")
}

func DeleteTask(db *sql.DB, sc identity.Scope, id int) error {
	res, err := db.Exec(
		"DELETE FROM tasks WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.ProfileID)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Task not found")
}

func DeleteStep(db *sql.DB, sc identity.Scope, id int) error {
	res, err := db.Exec(`
		DELETE FROM task_steps s
		USING tasks t
		WHERE s.id = $1 AND t.id = s.task_id AND ($2 OR t.owner_id = $3)`,
		id, sc.IsAdmin(), sc.ProfileID)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Step not found")
}

func DeleteLabel(db *sql.DB, sc identity.Scope, id int) error {
	res, err := db.Exec(
		"DELETE FROM labels WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.ProfileID)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Label not found")
}

func notFoundIfZero(res sql.Result, message string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(message)
	}
	return nil
}
