package test

import (
	"fmt"
	"testing"

	"blazely/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Isolasi antar tenant: resource milik profile lain tidak pernah
// terlihat, dan single-fetch-nya dilaporkan 404, bukan 403.
func TestOwnershipIsolation(t *testing.T) {
	app := CreateTestApp()
	alice := CreateTestUser(t, false, false)
	bob := CreateTestUser(t, false, false)

	status, result := DoRequest(t, app, "POST", "/api/v1/lists/", alice.Token,
		map[string]interface{}{"name": "Alice groceries"})
	require.Equal(t, 201, status)
	listID := int(DataObject(t, result)["id"].(float64))

	// Index Bob tidak memuat list Alice
	status, result = DoRequest(t, app, "GET", "/api/v1/lists/", bob.Token, nil)
	require.Equal(t, 200, status)
	for _, item := range DataList(t, result) {
		list := item.(map[string]interface{})
		assert.NotEqual(t, listID, int(list["id"].(float64)))
	}

	// Single fetch, update, delete: semuanya 404 untuk Bob
	status, _ = DoRequest(t, app, "GET", fmt.Sprintf("/api/v1/lists/%d", listID), bob.Token, nil)
	assert.Equal(t, 404, status)

	status, _ = DoRequest(t, app, "PATCH", fmt.Sprintf("/api/v1/lists/%d", listID), bob.Token,
		map[string]interface{}{"name": "hijacked"})
	assert.Equal(t, 404, status)

	status, _ = DoRequest(t, app, "DELETE", fmt.Sprintf("/api/v1/lists/%d", listID), bob.Token, nil)
	assert.Equal(t, 404, status)

	// Alice sendiri tetap bisa
	status, result = DoRequest(t, app, "GET", fmt.Sprintf("/api/v1/lists/%d", listID), alice.Token, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "Alice groceries", DataObject(t, result)["name"])
}

// Admin (staff atau superuser) melewati filter ownership.
func TestAdminBypass(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)
	admin := CreateTestUser(t, true, false)

	status, result := DoRequest(t, app, "POST", "/api/v1/labels/", user.Token,
		map[string]interface{}{"name": "urgent"})
	require.Equal(t, 201, status)
	labelID := int(DataObject(t, result)["id"].(float64))

	status, result = DoRequest(t, app, "GET", fmt.Sprintf("/api/v1/labels/%d", labelID), admin.Token, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "urgent", DataObject(t, result)["name"])

	status, _ = DoRequest(t, app, "PATCH", fmt.Sprintf("/api/v1/labels/%d", labelID), admin.Token,
		map[string]interface{}{"name": "urgent-admin"})
	assert.Equal(t, 200, status)
}

// Tanpa token setiap endpoint yang diproteksi mengembalikan 401.
func TestUnauthenticated(t *testing.T) {
	app := CreateTestApp()

	for _, path := range []string{
		"/api/v1/lists/",
		"/api/v1/tasks/",
		"/api/v1/groups/",
		"/api/v1/labels/",
		"/api/v1/users/me",
		"/api/v1/profiles/me",
	} {
		status, _ := DoRequest(t, app, "GET", path, "", nil)
		assert.Equal(t, 401, status, "expected 401 for %s", path)
	}
}

// Akun nonaktif ditolak 403 walaupun tokennya masih valid.
func TestInactiveAccountRejected(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	_, err := config.DB.Exec("UPDATE accounts SET is_active = FALSE WHERE id = $1", user.AccountID)
	require.NoError(t, err)

	status, _ := DoRequest(t, app, "GET", "/api/v1/lists/", user.Token, nil)
	assert.Equal(t, 403, status)
}
