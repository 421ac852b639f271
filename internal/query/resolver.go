package query

import (
	"database/sql"
	"errors"

	"blazely/internal/apperr"
	"blazely/internal/identity"
	"blazely/internal/models"

	"github.com/lib/pq"
)

// Resolver menghitung himpunan baris yang boleh dilihat caller.
// Kontraknya: caller biasa selalu difilter owner_id = profile caller
// (ditelusuri lewat rantai ownership untuk step), admin melewatinya;
// ancestor id dari path menjadi filter equality tambahan; semua list
// diurutkan created_at ASC, id ASC.

const stableOrder = " ORDER BY created_at, id"

// ---- Tasks ----

const taskColumns = "id, text, note, is_completed, is_important, due_date, reminder_date, priority, label_id, task_list_id, owner_id, archived, created_at"

func Tasks(db *sql.DB, sc identity.Scope, f TaskFilter) ([]models.Task, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}
	if sc.ListID != nil {
		b.add("task_list_id = $%d", *sc.ListID)
	}
	f.apply(b, "")

	rows, err := db.Query("SELECT "+taskColumns+" FROM tasks"+b.where()+stableOrder, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachSteps(db, tasks)
}

// TaskByID mengambil satu task. Untuk caller non-admin, task milik
// profile lain tidak terlihat dan dilaporkan sebagai NotFound, bukan
// Forbidden, supaya keberadaannya tidak bocor.
func TaskByID(db *sql.DB, sc identity.Scope, id int) (*models.Task, error) {
	b := &builder{}
	b.add("id = $%d", id)
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}
	if sc.ListID != nil {
		b.add("task_list_id = $%d", *sc.ListID)
	}

	row := db.QueryRow("SELECT "+taskColumns+" FROM tasks"+b.where(), b.args...)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, err
	}

	tasks, err := attachSteps(db, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(r rowScanner) (models.Task, error) {
	var (
		task     models.Task
		note     sql.NullString
		due      sql.NullTime
		reminder sql.NullTime
		label    sql.NullInt64
	)
	err := r.Scan(&task.ID, &task.Text, &note, &task.IsCompleted, &task.IsImportant,
		&due, &reminder, &task.Priority, &label, &task.TaskListID, &task.OwnerID,
		&task.Archived, &task.CreatedAt)
	if err != nil {
		return task, err
	}
	if note.Valid {
		task.Note = &note.String
	}
	if due.Valid {
		d := due.Time.Format("2006-01-02")
		task.DueDate = &d
	}
	if reminder.Valid {
		task.ReminderDate = &reminder.Time
	}
	if label.Valid {
		v := int(label.Int64)
		task.Label = &v
	}
	task.Steps = []models.TaskStep{}
	return task, nil
}

func attachSteps(db *sql.DB, tasks []models.Task) ([]models.Task, error) {
	if len(tasks) == 0 {
		return tasks, nil
	}
	ids := make([]int, len(tasks))
	index := make(map[int]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		index[t.ID] = i
	}

	rows, err := db.Query(
		"SELECT id, text, task_id, created_at FROM task_steps WHERE task_id = ANY($1)"+stableOrder,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var step models.TaskStep
		if err := rows.Scan(&step.ID, &step.Text, &step.TaskID, &step.CreatedAt); err != nil {
			return nil, err
		}
		i := index[step.TaskID]
		tasks[i].Steps = append(tasks[i].Steps, step)
	}
	return tasks, rows.Err()
}

// ---- Task steps ----

// Steps memfilter ownership lewat join ke task induk: step tidak punya
// kolom owner sendiri.
func Steps(db *sql.DB, sc identity.Scope, f StepFilter) ([]models.TaskStep, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("t.owner_id = $%d", sc.ProfileID)
	}
	if sc.TaskID != nil {
		b.add("s.task_id = $%d", *sc.TaskID)
	}
	f.apply(b)

	rows, err := db.Query(
		"SELECT s.id, s.text, s.task_id, s.created_at FROM task_steps s JOIN tasks t ON t.id = s.task_id"+
			b.where()+" ORDER BY s.created_at, s.id", b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.TaskStep{}
	for rows.Next() {
		var step models.TaskStep
		if err := rows.Scan(&step.ID, &step.Text, &step.TaskID, &step.CreatedAt); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func StepByID(db *sql.DB, sc identity.Scope, id int) (*models.TaskStep, error) {
	b := &builder{}
	b.add("s.id = $%d", id)
	if !sc.IsAdmin() {
		b.add("t.owner_id = $%d", sc.ProfileID)
	}
	if sc.TaskID != nil {
		b.add("s.task_id = $%d", *sc.TaskID)
	}

	var step models.TaskStep
	err := db.QueryRow(
		"SELECT s.id, s.text, s.task_id, s.created_at FROM task_steps s JOIN tasks t ON t.id = s.task_id"+b.where(),
		b.args...,
	).Scan(&step.ID, &step.Text, &step.TaskID, &step.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Step not found")
		}
		return nil, err
	}
	return &step, nil
}

// ---- Task lists ----

const listColumns = "id, name, group_id, archived, owner_id, emoji, created_at"

func TaskLists(db *sql.DB, sc identity.Scope, f TaskListFilter) ([]models.TaskList, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}
	if sc.GroupID != nil {
		b.add("group_id = $%d", *sc.GroupID)
	}
	f.apply(b)

	rows, err := db.Query("SELECT "+listColumns+" FROM task_lists"+b.where()+stableOrder, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.TaskList{}
	for rows.Next() {
		list, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachTasks(db, lists)
}

func TaskListByID(db *sql.DB, sc identity.Scope, id int) (*models.TaskList, error) {
	b := &builder{}
	b.add("id = $%d", id)
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}
	if sc.GroupID != nil {
		b.add("group_id = $%d", *sc.GroupID)
	}

	row := db.QueryRow("SELECT "+listColumns+" FROM task_lists"+b.where(), b.args...)
	list, err := scanTaskList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("List not found")
		}
		return nil, err
	}

	lists, err := attachTasks(db, []models.TaskList{list})
	if err != nil {
		return nil, err
	}
	return &lists[0], nil
}

func scanTaskList(r rowScanner) (models.TaskList, error) {
	var (
		list  models.TaskList
		group sql.NullInt64
	)
	err := r.Scan(&list.ID, &list.Name, &group, &list.Archived, &list.OwnerID, &list.Emoji, &list.CreatedAt)
	if err != nil {
		return list, err
	}
	if group.Valid {
		v := int(group.Int64)
		list.Group = &v
	}
	list.Tasks = []models.Task{}
	return list, nil
}

func attachTasks(db *sql.DB, lists []models.TaskList) ([]models.TaskList, error) {
	if len(lists) == 0 {
		return lists, nil
	}
	ids := make([]int, len(lists))
	index := make(map[int]int, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
		index[l.ID] = i
	}

	rows, err := db.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE task_list_id = ANY($1)"+stableOrder,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tasks, err = attachSteps(db, tasks)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		i := index[task.TaskListID]
		lists[i].Tasks = append(lists[i].Tasks, task)
	}
	return lists, nil
}

// ---- Group lists ----

func GroupLists(db *sql.DB, sc identity.Scope, f GroupListFilter) ([]models.GroupList, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}
	f.apply(b)

	rows, err := db.Query(
		"SELECT id, name, archived, owner_id, created_at FROM group_lists"+b.where()+stableOrder,
		b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.GroupList{}
	for rows.Next() {
		var g models.GroupList
		if err := rows.Scan(&g.ID, &g.Name, &g.Archived, &g.OwnerID, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Lists = []models.TaskListWithoutGroup{}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachLists(db, groups)
}

func GroupListByID(db *sql.DB, sc identity.Scope, id int) (*models.GroupList, error) {
	b := &builder{}
	b.add("id = $%d", id)
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}

	var g models.GroupList
	err := db.QueryRow(
		"SELECT id, name, archived, owner_id, created_at FROM group_lists"+b.where(),
		b.args...,
	).Scan(&g.ID, &g.Name, &g.Archived, &g.OwnerID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Group not found")
		}
		return nil, err
	}
	g.Lists = []models.TaskListWithoutGroup{}

	groups, err := attachLists(db, []models.GroupList{g})
	if err != nil {
		return nil, err
	}
	return &groups[0], nil
}

func attachLists(db *sql.DB, groups []models.GroupList) ([]models.GroupList, error) {
	if len(groups) == 0 {
		return groups, nil
	}
	ids := make([]int, len(groups))
	index := make(map[int]int, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		index[g.ID] = i
	}

	rows, err := db.Query(
		"SELECT "+listColumns+" FROM task_lists WHERE group_id = ANY($1)"+stableOrder,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.TaskList{}
	for rows.Next() {
		list, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lists, err = attachTasks(db, lists)
	if err != nil {
		return nil, err
	}
	for _, list := range lists {
		i := index[*list.Group]
		groups[i].Lists = append(groups[i].Lists, list.WithoutGroup())
	}
	return groups, nil
}

// ---- Labels ----

func Labels(db *sql.DB, sc identity.Scope) ([]models.Label, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}

	rows, err := db.Query(
		"SELECT id, name, owner_id, created_at FROM labels"+b.where()+stableOrder,
		b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func LabelByID(db *sql.DB, sc identity.Scope, id int) (*models.Label, error) {
	b := &builder{}
	b.add("id = $%d", id)
	if !sc.IsAdmin() {
		b.add("owner_id = $%d", sc.ProfileID)
	}

	var l models.Label
	err := db.QueryRow(
		"SELECT id, name, owner_id, created_at FROM labels"+b.where(), b.args...,
	).Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Label not found")
		}
		return nil, err
	}
	return &l, nil
}

// ---- Profiles ----

const profileColumns = "p.id, p.account_id, p.birth_date, p.profile_picture_url, p.created_at, a.username, a.email, a.first_name, a.last_name"

func Profiles(db *sql.DB, sc identity.Scope) ([]models.Profile, error) {
	b := &builder{}
	if !sc.IsAdmin() {
		b.add("p.id = $%d", sc.ProfileID)
	}

	rows, err := db.Query(
		"SELECT "+profileColumns+" FROM profiles p JOIN accounts a ON a.id = p.account_id"+
			b.where()+" ORDER BY p.created_at, p.id", b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func ProfileByID(db *sql.DB, sc identity.Scope, id string) (*models.Profile, error) {
	b := &builder{}
	b.add("p.id = $%d", id)
	if !sc.IsAdmin() {
		b.add("p.id = $%d", sc.ProfileID)
	}

	row := db.QueryRow(
		"SELECT "+profileColumns+" FROM profiles p JOIN accounts a ON a.id = p.account_id"+b.where(),
		b.args...)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, err
	}
	return &p, nil
}

// ProfileByAccount menyelesaikan profile milik caller sendiri ("me").
func ProfileByAccount(db *sql.DB, accountID int) (*models.Profile, error) {
	row := db.QueryRow(
		"SELECT "+profileColumns+" FROM profiles p JOIN accounts a ON a.id = p.account_id WHERE p.account_id = $1",
		accountID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, err
	}
	return &p, nil
}

func scanProfile(r rowScanner) (models.Profile, error) {
	var (
		p       models.Profile
		birth   sql.NullTime
		picture sql.NullString
	)
	err := r.Scan(&p.ID, &p.AccountID, &birth, &picture, &p.CreatedAt,
		&p.Account.Handle, &p.Account.Email, &p.Account.FirstName, &p.Account.LastName)
	if err != nil {
		return p, err
	}
	if birth.Valid {
		d := birth.Time.Format("2006-01-02")
		p.BirthDate = &d
	}
	if picture.Valid {
		p.ProfilePictureURL = &picture.String
	}
	return p, nil
}

// ---- Accounts ----

const accountColumns = "id, email, username, first_name, last_name, is_staff, is_superuser, is_active, auth_provider, created_at"

func Accounts(db *sql.DB) ([]models.Account, error) {
	rows, err := db.Query("SELECT " + accountColumns + " FROM accounts" + stableOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func AccountByID(db *sql.DB, id int) (*models.Account, error) {
	row := db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &a, nil
}

func scanAccount(r rowScanner) (models.Account, error) {
	var a models.Account
	err := r.Scan(&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName,
		&a.IsStaff, &a.IsSuperuser, &a.IsActive, &a.AuthProvider, &a.CreatedAt)
	return a, err
}
