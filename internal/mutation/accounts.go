package mutation

import (
	"database/sql"

	"blazely/internal/apperr"
	"blazely/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountCreate struct {
	Username    string `json:"username" validate:"required,excludesall=@?"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,min=2,max=100"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// CreateAccount menyisipkan account + profile dalam satu transaksi:
// sesudahnya dua-duanya ada, atau tidak sama sekali.
func CreateAccount(db *sql.DB, req AccountCreate) (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Error hashing password", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	account := models.Account{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
		IsActive:     true,
		AuthProvider: models.PasswordProvider,
	}
	err = tx.QueryRow(`
		INSERT INTO accounts (email, username, password, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		req.Email, req.Username, string(hashedPassword), req.FirstName, req.LastName,
		req.IsStaff, req.IsSuperuser,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return nil, apperr.FromStore(err, "email", "Account with given email or username already exists.")
	}

	if _, err := tx.Exec(
		"INSERT INTO profiles (id, account_id) VALUES ($1, $2)",
		uuid.New(), account.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountSelfUpdate: subset field yang boleh diubah user biasa.
// Field lain di payload diabaikan, bukan ditolak.
type AccountSelfUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=100"`
}

func UpdateAccountSelf(db *sql.DB, accountID int, req AccountSelfUpdate) error {
	res, err := db.Exec(`
		UPDATE accounts
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name)
		WHERE id = $3`,
		req.FirstName, req.LastName, accountID,
	)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "User not found")
}

// AccountAdminUpdate: field set admin, termasuk flag privilege dan
// kredensial (di-hash ulang bila dikirim).
type AccountAdminUpdate struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Username    *string `json:"username" validate:"omitempty,excludesall=@?"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func UpdateAccountAdmin(db *sql.DB, targetID int, req AccountAdminUpdate) error {
	var hashed *string
	if req.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperr.Internal("Error hashing password", err)
		}
		s := string(h)
		hashed = &s
	}

	res, err := db.Exec(`
		UPDATE accounts
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			username = COALESCE($3, username),
			password = COALESCE($4, password),
			is_staff = COALESCE($5, is_staff),
			is_superuser = COALESCE($6, is_superuser)
		WHERE id = $7`,
		req.FirstName, req.LastName, req.Username, hashed, req.IsStaff, req.IsSuperuser, targetID,
	)
	if err != nil {
		return apperr.FromStore(err, "username", "Account with given username already exists.")
	}
	return notFoundIfZero(res, "User not found")
}

// SetAccountActive adalah transisi state dengan idempotency guard:
// mengaktifkan akun yang sudah aktif (atau sebaliknya) gagal dengan
// Conflict supaya double-activation terdeteksi client.
func SetAccountActive(db *sql.DB, targetID int, active bool) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current bool
	err = tx.QueryRow("SELECT is_active FROM accounts WHERE id = $1", targetID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("User not found")
		}
		return err
	}

	if current == active {
		if active {
			return apperr.Conflict("User is already active")
		}
		return apperr.Conflict("User is already inactive")
	}

	if _, err := tx.Exec("UPDATE accounts SET is_active = $1 WHERE id = $2", active, targetID); err != nil {
		return err
	}
	return tx.Commit()
}

// ---- Profiles ----

// ProfileUpdate: hanya birth_date yang mutable lewat jalur update standar.
type ProfileUpdate struct {
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func UpdateProfile(db *sql.DB, profileID uuid.UUID, req ProfileUpdate) error {
	res, err := db.Exec(
		"UPDATE profiles SET birth_date = COALESCE($1, birth_date) WHERE id = $2",
		req.BirthDate, profileID,
	)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Profile not found")
}

func SetProfilePicture(db *sql.DB, profileID uuid.UUID, url string) error {
	res, err := db.Exec(
		"UPDATE profiles SET profile_picture_url = $1 WHERE id = $2",
		url, profileID,
	)
	if err != nil {
		return err
	}
	return notFoundIfZero(res, "Profile not found")
}
