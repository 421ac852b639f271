package repository

import (
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Aturan cascade ditulis eksplisit di DDL:
//   - profiles ikut terhapus bersama accounts
//   - group_lists/task_lists/tasks ikut terhapus bersama owner-nya
//   - tasks ikut terhapus bersama task_lists, task_steps bersama tasks
//   - tasks.label_id di-NULL-kan saat label dihapus
//   - labels menahan penghapusan profile (RESTRICT)
func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS accounts (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    username VARCHAR(255) NOT NULL UNIQUE,
    password VARCHAR(255) NOT NULL,
    first_name VARCHAR(100) NOT NULL DEFAULT '',
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    is_staff BOOLEAN NOT NULL DEFAULT FALSE,
    is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    auth_provider VARCHAR(30) NOT NULL DEFAULT 'password',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_accounts_auth_provider ON accounts (auth_provider);

CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    account_id INT NOT NULL UNIQUE REFERENCES accounts (id) ON DELETE CASCADE,
    birth_date DATE,
    profile_picture_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS labels (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    owner_id UUID NOT NULL REFERENCES profiles (id) ON DELETE RESTRICT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT unique_label UNIQUE (name, owner_id)
);

CREATE TABLE IF NOT EXISTS group_lists (
    id SERIAL PRIMARY KEY,
    name VARCHAR(150) NOT NULL,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    owner_id UUID NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT unique_group_list UNIQUE (name, owner_id)
);

CREATE TABLE IF NOT EXISTS task_lists (
    id SERIAL PRIMARY KEY,
    name VARCHAR(150) NOT NULL,
    group_id INT REFERENCES group_lists (id) ON DELETE CASCADE,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    owner_id UUID NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
    emoji VARCHAR(100) NOT NULL DEFAULT '📃',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT unique_task_list UNIQUE (name, owner_id)
);

CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    text VARCHAR(255) NOT NULL,
    note VARCHAR(255),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    is_important BOOLEAN NOT NULL DEFAULT FALSE,
    due_date DATE,
    reminder_date TIMESTAMPTZ,
    priority VARCHAR(1) NOT NULL DEFAULT '4' CHECK (priority IN ('1', '2', '3', '4')),
    label_id INT REFERENCES labels (id) ON DELETE SET NULL,
    task_list_id INT NOT NULL REFERENCES task_lists (id) ON DELETE CASCADE,
    owner_id UUID NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tasks_is_completed ON tasks (is_completed);
CREATE INDEX IF NOT EXISTS idx_tasks_is_important ON tasks (is_important);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks (priority);

CREATE TABLE IF NOT EXISTS task_steps (
    id SERIAL PRIMARY KEY,
    text TEXT NOT NULL,
    task_id INT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	}
}

// CreateSuperuser menyisipkan akun staff+superuser beserta profile-nya
// dalam satu transaksi. Dipakai untuk bootstrap dan test.
func CreateSuperuser(db *sql.DB, username, email, password string) (int, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID int
	err = tx.QueryRow(
		"INSERT INTO accounts (username, email, password, is_staff, is_superuser) VALUES ($1, $2, $3, TRUE, TRUE) RETURNING id",
		username, email, string(hashedPassword),
	).Scan(&accountID)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		"INSERT INTO profiles (id, account_id) VALUES (gen_random_uuid(), $1)",
		accountID,
	); err != nil {
		return 0, err
	}

	return accountID, tx.Commit()
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS task_steps;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS task_lists;
    DROP TABLE IF EXISTS group_lists;
    DROP TABLE IF EXISTS labels;
    DROP TABLE IF EXISTS profiles;
    DROP TABLE IF EXISTS accounts;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting table: %v", err)
	}
}
