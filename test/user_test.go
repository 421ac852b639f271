package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path"
	"path/filepath"
	"testing"

	"blazely/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Login password hanya untuk admin; user biasa ditolak 403 sebelum
// kredensialnya dicek.
func TestPasswordLoginAdminOnly(t *testing.T) {
	app := CreateTestApp()
	admin := CreateTestUser(t, true, false)
	user := CreateTestUser(t, false, false)

	status, result := DoRequest(t, app, "POST", "/api/v1/jwt/create", "",
		map[string]string{"username": admin.Username, "password": "testpass"})
	require.Equal(t, 201, status)
	pair := DataObject(t, result)
	assert.NotEmpty(t, pair["access"])
	assert.NotEmpty(t, pair["refresh"])

	status, result = DoRequest(t, app, "POST", "/api/v1/jwt/create", "",
		map[string]string{"username": user.Username, "password": "testpass"})
	assert.Equal(t, 403, status)
	assert.Contains(t, fmt.Sprint(result["message"]), "not allowed")

	// Password salah untuk admin: 401
	status, _ = DoRequest(t, app, "POST", "/api/v1/jwt/create", "",
		map[string]string{"username": admin.Username, "password": "wrong"})
	assert.Equal(t, 401, status)

	// Username tidak ada: 401, bukan 404
	status, _ = DoRequest(t, app, "POST", "/api/v1/jwt/create", "",
		map[string]string{"username": "ghost_user", "password": "whatever"})
	assert.Equal(t, 401, status)
}

// Listing account hanya untuk admin; field set tergantung role.
func TestAccountListAndShapes(t *testing.T) {
	app := CreateTestApp()
	admin := CreateTestUser(t, false, true)
	user := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "GET", "/api/v1/users/", user.Token, nil)
	assert.Equal(t, 403, status)

	status, result := DoRequest(t, app, "GET", "/api/v1/users/", admin.Token, nil)
	require.Equal(t, 200, status)
	data := DataList(t, result)
	require.NotEmpty(t, data)
	first := data[0].(map[string]interface{})
	_, hasStaff := first["is_staff"]
	assert.True(t, hasStaff, "admin view should carry privilege flags")

	// Bentuk minimal untuk self-view user biasa
	status, result = DoRequest(t, app, "GET", "/api/v1/users/me", user.Token, nil)
	require.Equal(t, 200, status)
	me := DataObject(t, result)
	_, hasStaff = me["is_staff"]
	assert.False(t, hasStaff, "regular view should not carry privilege flags")
	assert.Equal(t, user.Username, me["handle"])
}

// User biasa tidak bisa mengintip account lain: 404, bukan 403.
func TestAccountRetrieveScoping(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)
	other := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "GET",
		fmt.Sprintf("/api/v1/users/%d", other.AccountID), user.Token, nil)
	assert.Equal(t, 404, status)

	status, _ = DoRequest(t, app, "GET",
		fmt.Sprintf("/api/v1/users/%d", user.AccountID), user.Token, nil)
	assert.Equal(t, 200, status)
}

// Update self: hanya first_name/last_name; field privilege diabaikan.
func TestAccountSelfUpdateIgnoresPrivileges(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	status, result := DoRequest(t, app, "PATCH", "/api/v1/users/me", user.Token,
		map[string]interface{}{"first_name": "Renamed", "is_superuser": true})
	require.Equal(t, 200, status)
	me := DataObject(t, result)
	assert.Equal(t, "Renamed", me["first_name"])

	// Token baru tetap tanpa privilege: listing account masih 403
	status, _ = DoRequest(t, app, "GET", "/api/v1/users/", user.Token, nil)
	assert.Equal(t, 403, status)
}

// Aktivasi idempoten ditolak 409; non-admin ditolak 403.
func TestActivationTransitions(t *testing.T) {
	app := CreateTestApp()
	admin := CreateTestUser(t, true, true)
	user := CreateTestUser(t, false, false)
	target := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "POST",
		fmt.Sprintf("/api/v1/users/%d/activate", target.AccountID), admin.Token, nil)
	assert.Equal(t, 409, status, "activating an active account conflicts")

	status, _ = DoRequest(t, app, "POST",
		fmt.Sprintf("/api/v1/users/%d/deactivate", target.AccountID), admin.Token, nil)
	assert.Equal(t, 200, status)

	status, _ = DoRequest(t, app, "POST",
		fmt.Sprintf("/api/v1/users/%d/deactivate", target.AccountID), admin.Token, nil)
	assert.Equal(t, 409, status)

	status, _ = DoRequest(t, app, "POST",
		fmt.Sprintf("/api/v1/users/%d/activate", target.AccountID), admin.Token, nil)
	assert.Equal(t, 200, status)

	// Non-admin: Forbidden eksplisit, bukan 404
	status, _ = DoRequest(t, app, "POST",
		fmt.Sprintf("/api/v1/users/%d/activate", target.AccountID), user.Token, nil)
	assert.Equal(t, 403, status)
}

// Create account oleh admin: profile ikut terbentuk atomik.
func TestAdminCreateAccount(t *testing.T) {
	app := CreateTestApp()
	admin := CreateTestUser(t, true, true)
	user := CreateTestUser(t, false, false)

	body := map[string]interface{}{
		"username":   fmt.Sprintf("created_%d", user.AccountID),
		"email":      fmt.Sprintf("created_%d@example.com", user.AccountID),
		"password":   "secret123",
		"first_name": "Created",
		"last_name":  "Account",
	}

	status, _ := DoRequest(t, app, "POST", "/api/v1/users/", user.Token, body)
	assert.Equal(t, 403, status)

	status, result := DoRequest(t, app, "POST", "/api/v1/users/", admin.Token, body)
	require.Equal(t, 201, status)
	created := DataObject(t, result)
	_, hasPassword := created["password"]
	assert.False(t, hasPassword, "password never serialized")

	// Username mengandung karakter terlarang ditolak
	body["username"] = "bad@name"
	body["email"] = "badname@example.com"
	status, _ = DoRequest(t, app, "POST", "/api/v1/users/", admin.Token, body)
	assert.Equal(t, 400, status)
}

// Profile: listing admin-only, me endpoint, dan update birth_date.
func TestProfiles(t *testing.T) {
	app := CreateTestApp()
	admin := CreateTestUser(t, false, true)
	user := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "GET", "/api/v1/profiles/", user.Token, nil)
	assert.Equal(t, 403, status)

	status, result := DoRequest(t, app, "GET", "/api/v1/profiles/", admin.Token, nil)
	require.Equal(t, 200, status)
	assert.NotEmpty(t, DataList(t, result))

	status, result = DoRequest(t, app, "GET", "/api/v1/profiles/me", user.Token, nil)
	require.Equal(t, 200, status)
	me := DataObject(t, result)
	assert.Equal(t, user.ProfileID.String(), me["id"])
	account := me["account"].(map[string]interface{})
	assert.Equal(t, user.Username, account["handle"])

	status, result = DoRequest(t, app, "PATCH", "/api/v1/profiles/me", user.Token,
		map[string]interface{}{"birth_date": "1990-05-20"})
	require.Equal(t, 200, status)
	assert.Equal(t, "1990-05-20", DataObject(t, result)["birth_date"])

	// Profile orang lain: 404 untuk user biasa
	status, _ = DoRequest(t, app, "GET",
		"/api/v1/profiles/"+admin.ProfileID.String(), user.Token, nil)
	assert.Equal(t, 404, status)
}

// Upload foto profil menulis ke folder yang dikonfigurasi, dan file
// yang sama dilayani balik lewat endpoint uploads.
func TestProfilePictureUpload(t *testing.T) {
	app := CreateTestApp()
	alice := CreateTestUser(t, false, false)

	origDir := config.UploadDir
	config.UploadDir = t.TempDir()
	defer func() { config.UploadDir = origDir }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="profile_picture"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/profiles/me/picture", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice.Token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	fileURL := DataObject(t, result)["profile_picture"].(string)
	filename := path.Base(fileURL)

	// File tertulis di folder yang dikonfigurasi, bukan "uploads" hardcoded
	_, err = os.Stat(filepath.Join(config.UploadDir, filename))
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/api/v1/uploads/"+filename, nil)
	served, err := app.Test(req, -1)
	require.NoError(t, err)
	defer served.Body.Close()
	assert.Equal(t, 200, served.StatusCode)
}
