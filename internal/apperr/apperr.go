package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// Kind mengelompokkan error aplikasi ke dalam taxonomy yang dipetakan
// ke status HTTP oleh Respond.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindUpstream
	KindInternal
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upstream menandai kegagalan provider eksternal (OAuth exchange, claims).
// Detail dari provider ikut dikirim ke client.
func Upstream(message string, err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: KindUpstream, Message: message, Detail: detail, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqDataException       = "22"
)

// FromStore menerjemahkan constraint violation dari Postgres menjadi
// ValidationError. Constraint di store adalah arbiter terakhir untuk
// race pada uniqueness; error mentah tidak boleh sampai ke client.
// Class 22 (data exception: tanggal/angka yang tidak bisa di-parse)
// juga berasal dari input user, bukan kegagalan internal.
func FromStore(err error, field, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return Validation(field, message)
		case pqForeignKeyViolation:
			return Validation(field, "Referenced row does not exist or is still in use.")
		}
		if pqErr.Code.Class() == pqDataException {
			return Validation(field, message)
		}
	}
	return Internal("store error", err)
}

func status(k Kind) int {
	switch k {
	case KindValidation, KindUpstream:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond menulis error dalam amplop respons yang sama dengan handler lain.
func Respond(c *fiber.Ctx, err error) error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("Internal server error", err)
	}

	code := status(appErr.Kind)
	body := fiber.Map{
		"message": appErr.Message,
		"success": false,
		"status":  code,
	}
	if appErr.Kind == KindInternal {
		body["message"] = "Internal server error"
	}
	if appErr.Field != "" {
		body["errors"] = fiber.Map{appErr.Field: appErr.Message}
	}
	if appErr.Detail != "" {
		body["details"] = appErr.Detail
	}
	return c.Status(code).JSON(body)
}
