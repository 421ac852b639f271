package apperr

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStoreUniqueViolation(t *testing.T) {
	err := FromStore(&pq.Error{Code: "23505"}, "name", "Already exists.")

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "name", appErr.Field)
	assert.Equal(t, "Already exists.", appErr.Message)
}

func TestFromStoreForeignKeyViolation(t *testing.T) {
	err := FromStore(&pq.Error{Code: "23503"}, "label", "ignored")

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Message, "does not exist")
}

// Data exception (misal tanggal yang tidak bisa di-parse) adalah salah
// input user, bukan error internal.
func TestFromStoreDataException(t *testing.T) {
	err := FromStore(&pq.Error{Code: "22007"}, "task", "Invalid task data.")

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "Invalid task data.", appErr.Message)
}

func TestFromStoreOpaqueError(t *testing.T) {
	raw := errors.New("connection reset")
	err := FromStore(raw, "x", "y")

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, err, raw, "original error stays wrapped")
}

func TestFromStoreNil(t *testing.T) {
	assert.NoError(t, FromStore(nil, "f", "m"))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, 400, status(KindValidation))
	assert.Equal(t, 400, status(KindUpstream))
	assert.Equal(t, 404, status(KindNotFound))
	assert.Equal(t, 403, status(KindForbidden))
	assert.Equal(t, 409, status(KindConflict))
	assert.Equal(t, 500, status(KindInternal))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "name: taken", Validation("name", "taken").Error())
	assert.Equal(t, "Task not found", NotFound("Task not found").Error())
}
