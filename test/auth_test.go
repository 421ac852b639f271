package test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Endpoint login Google mengembalikan URL provider.
func TestGoogleLoginURL(t *testing.T) {
	app := CreateTestApp()

	status, result := DoRequest(t, app, "GET", "/api/v1/auth/google", "", nil)
	require.Equal(t, 200, status)
	data := DataObject(t, result)
	assert.Contains(t, data, "login_url")
}

// Callback tanpa authorization code ditolak.
func TestGoogleCallbackWithoutCode(t *testing.T) {
	app := CreateTestApp()

	status, _ := DoRequest(t, app, "GET", "/api/v1/auth/google/callback", "", nil)
	assert.Equal(t, 400, status)
}

// Rotasi refresh token: refresh lama hangus setelah dipakai.
func TestRefreshRotation(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	status, result := DoRequest(t, app, "POST", "/api/v1/jwt/refresh", "",
		map[string]string{"refresh": user.Refresh})
	require.Equal(t, 200, status)
	pair := DataObject(t, result)
	newAccess := pair["access"].(string)
	assert.NotEmpty(t, newAccess)

	// Refresh lama sudah masuk blacklist
	status, _ = DoRequest(t, app, "POST", "/api/v1/jwt/refresh", "",
		map[string]string{"refresh": user.Refresh})
	assert.Equal(t, 401, status)

	// Access hasil rotasi dipakai normal
	status, _ = DoRequest(t, app, "GET", "/api/v1/lists/", newAccess, nil)
	assert.Equal(t, 200, status)
}

// Pemakaian refresh token yang sama secara bersamaan: tepat satu yang
// menang, sisanya ditolak. Pencabutan jti harus atomik.
func TestRefreshConcurrentReuse(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	payload, err := json.Marshal(map[string]string{"refresh": user.Refresh})
	require.NoError(t, err)

	const attempts = 5
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/api/v1/jwt/refresh", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	succeeded, rejected := 0, 0
	for status := range statuses {
		switch status {
		case 200:
			succeeded++
		case 401:
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one refresh wins")
	assert.Equal(t, attempts-1, rejected)
}

// Blacklist eksplisit (logout): refresh tidak bisa dipakai lagi.
func TestBlacklistToken(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "POST", "/api/v1/jwt/blacklist", "",
		map[string]string{"refresh": user.Refresh})
	require.Equal(t, 200, status)

	status, _ = DoRequest(t, app, "POST", "/api/v1/jwt/refresh", "",
		map[string]string{"refresh": user.Refresh})
	assert.Equal(t, 401, status)
}

// Access token tidak bisa dipakai sebagai refresh, dan sebaliknya.
func TestTokenTypeEnforced(t *testing.T) {
	app := CreateTestApp()
	user := CreateTestUser(t, false, false)

	status, _ := DoRequest(t, app, "POST", "/api/v1/jwt/refresh", "",
		map[string]string{"refresh": user.Token})
	assert.Equal(t, 401, status)

	status, _ = DoRequest(t, app, "GET", "/api/v1/lists/", user.Refresh, nil)
	assert.Equal(t, 401, status)
}

// Token asal-asalan ditolak.
func TestGarbageToken(t *testing.T) {
	app := CreateTestApp()

	status, _ := DoRequest(t, app, "GET", "/api/v1/lists/", "not-a-jwt", nil)
	assert.Equal(t, 401, status)
}
