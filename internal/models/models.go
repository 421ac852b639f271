package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth providers untuk kolom accounts.auth_provider.
const (
	PasswordProvider = "password"
	GoogleProvider   = "google"
	AppleProvider    = "apple"
)

// Priority ranks. "4" adalah rank paling rendah (default).
const (
	Priority1 = "1"
	Priority2 = "2"
	Priority3 = "3"
	Priority4 = "4"
)

const DefaultEmoji = "📃"

type Account struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

// SimpleAccount adalah bentuk minimal yang dilihat caller non-admin.
type SimpleAccount struct {
	Handle    string `json:"handle"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ElevatedAccount adalah bentuk yang dilihat admin (termasuk flag kredensial).
type ElevatedAccount struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	Email       string `json:"email"`
}

type Profile struct {
	ID                uuid.UUID     `json:"id"`
	AccountID         int           `json:"-"`
	BirthDate         *string       `json:"birth_date"`
	ProfilePictureURL *string       `json:"profile_picture_url"`
	Account           SimpleAccount `json:"account"`
	CreatedAt         time.Time     `json:"-"`
}

type Label struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"-"`
}

type GroupList struct {
	ID        int                    `json:"id"`
	Name      string                 `json:"name"`
	Archived  bool                   `json:"-"`
	OwnerID   uuid.UUID              `json:"-"`
	Lists     []TaskListWithoutGroup `json:"lists"`
	CreatedAt time.Time              `json:"-"`
}

type TaskList struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Group     *int      `json:"group"`
	Archived  bool      `json:"-"`
	OwnerID   uuid.UUID `json:"-"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"-"`
}

// TaskListWithoutGroup adalah bentuk TaskList di dalam sebuah group:
// kolom group tidak dikirim karena sudah implisit dari nesting.
type TaskListWithoutGroup struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Tasks []Task `json:"tasks"`
}

func (l TaskList) WithoutGroup() TaskListWithoutGroup {
	return TaskListWithoutGroup{ID: l.ID, Name: l.Name, Emoji: l.Emoji, Tasks: l.Tasks}
}

type Task struct {
	ID           int        `json:"id"`
	Text         string     `json:"text"`
	Note         *string    `json:"note"`
	IsCompleted  bool       `json:"is_completed"`
	IsImportant  bool       `json:"is_important"`
	DueDate      *string    `json:"due_date"`
	ReminderDate *time.Time `json:"reminder_date"`
	Priority     string     `json:"priority"`
	Label        *int       `json:"label"`
	TaskListID   int        `json:"-"`
	OwnerID      uuid.UUID  `json:"-"`
	Archived     bool       `json:"-"`
	Steps        []TaskStep `json:"steps"`
	CreatedAt    time.Time  `json:"-"`
}

type TaskStep struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	TaskID    int       `json:"-"`
	CreatedAt time.Time `json:"-"`
}
