package mutation

import (
	"database/sql"

	"blazely/internal/apperr"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

type ManageListsRequest struct {
	TaskListIDs []int `json:"tasklist_ids" validate:"required,min=1"`
}

// ManageLists memindahkan task list masuk/keluar sebuah group secara
// batch dengan semantik partial-validity: candidate set dihitung di
// dalam transaksi, id di luar candidate set diabaikan diam-diam, dan
// candidate set kosong menggagalkan seluruh operasi. Group sudah
// di-resolve dan ownership-checked oleh caller; candidate dibatasi ke
// list milik owner group supaya id mentah tidak bisa memindahkan list
// profile lain.
func ManageLists(db *sql.DB, groupID int, ownerID uuid.UUID, action string, ids []int) error {
	if action != ActionAdd && action != ActionRemove {
		return apperr.Validation("action", "Invalid or missing action. Expected 'add' or 'remove'.")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var candidateQuery, errMsg string
	if action == ActionAdd {
		candidateQuery = `
			SELECT id FROM task_lists
			WHERE id = ANY($1) AND owner_id = $2
			  AND (group_id IS NULL OR group_id <> $3)`
		errMsg = "already assigned to this group"
	} else {
		candidateQuery = `
			SELECT id FROM task_lists
			WHERE id = ANY($1) AND owner_id = $2 AND group_id = $3`
		errMsg = "not assigned to this group"
	}

	rows, err := tx.Query(candidateQuery, pq.Array(ids), ownerID, groupID)
	if err != nil {
		return err
	}
	candidates := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		candidates = append(candidates, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(candidates) == 0 {
		return apperr.Validation("tasklist_ids",
			"No valid tasklists found for this action - they may be "+errMsg+".")
	}

	var target sql.NullInt64
	if action == ActionAdd {
		target = sql.NullInt64{Int64: int64(groupID), Valid: true}
	}
	if _, err := tx.Exec(
		"UPDATE task_lists SET group_id = $1 WHERE id = ANY($2)",
		target, pq.Array(candidates),
	); err != nil {
		return err
	}

	return tx.Commit()
}
