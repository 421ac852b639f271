package test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	v1 "blazely/internal/api/v1"
	"blazely/internal/config"
	"blazely/internal/middleware"
	"blazely/internal/oauth"
	"blazely/internal/repository"
	"blazely/internal/token"
	"blazely/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"golang.org/x/crypto/bcrypt"
)

// TestMain menjalankan Postgres + Redis sekali pakai lewat dockertest;
// tidak ada dependency ke database lokal.
func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	logger.InitLoggers()
	defer logger.SyncLoggers()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to docker: %v", err)
	}

	pg, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=blazely",
			"POSTGRES_PASSWORD=blazely",
			"POSTGRES_DB=blazely_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start postgres: %v", err)
	}

	rd, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start redis: %v", err)
	}

	if err := pool.Retry(func() error {
		db, err := sql.Open("postgres", fmt.Sprintf(
			"host=localhost port=%s user=blazely password=blazely dbname=blazely_test sslmode=disable",
			pg.GetPort("5432/tcp")))
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			return err
		}
		config.DB = db
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to postgres: %v", err)
	}

	if err := pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{
			Addr: "localhost:" + rd.GetPort("6379/tcp"),
		})
		if err := client.Ping(config.Ctx).Err(); err != nil {
			return err
		}
		config.RedisClient = client
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	repository.CreateTableIfNotExists(config.DB)

	oauth.Init("test-client", "test-secret", "http://localhost/callback", 5*time.Second)

	code := m.Run()

	config.DB.Close()
	config.RedisClient.Close()
	_ = pool.Purge(pg)
	_ = pool.Purge(rd)
	os.Exit(code)
}

// CreateTestApp menginisialisasi aplikasi Fiber dengan route API v1.
func CreateTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	v1.RegisterRoutes(app)
	return app
}

type TestUser struct {
	AccountID int
	ProfileID uuid.UUID
	Username  string
	Token     string
	Refresh   string
}

// CreateTestUser menyisipkan account + profile langsung ke database dan
// menerbitkan pasangan token lewat service token, tanpa lewat endpoint
// login (login password hanya untuk admin).
func CreateTestUser(t *testing.T, isStaff, isSuperuser bool) TestUser {
	t.Helper()

	username := fmt.Sprintf("user_%d", time.Now().UnixNano())
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Error hashing password: %v", err)
	}

	var accountID int
	err = config.DB.QueryRow(`
		INSERT INTO accounts (email, username, password, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, 'Test', 'User', $4, $5) RETURNING id`,
		username+"@example.com", username, string(hashed), isStaff, isSuperuser,
	).Scan(&accountID)
	if err != nil {
		t.Fatalf("Error inserting account: %v", err)
	}

	profileID := uuid.New()
	if _, err := config.DB.Exec(
		"INSERT INTO profiles (id, account_id) VALUES ($1, $2)", profileID, accountID,
	); err != nil {
		t.Fatalf("Error inserting profile: %v", err)
	}

	pair, err := token.IssuePair(accountID, isStaff, isSuperuser)
	if err != nil {
		t.Fatalf("Error issuing token pair: %v", err)
	}

	return TestUser{
		AccountID: accountID,
		ProfileID: profileID,
		Username:  username,
		Token:     pair.Access,
		Refresh:   pair.Refresh,
	}
}

// DoRequest mengirim request JSON ke app test dan mengembalikan status
// beserta body yang sudah di-decode.
func DoRequest(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Error marshaling body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Error performing request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		t.Fatalf("Error decoding response: %v", err)
	}
	return resp.StatusCode, result
}

// DataList mengambil field data sebagai slice.
func DataList(t *testing.T, result map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data list in response, got: %v", result)
	}
	return data
}

// DataObject mengambil field data sebagai objek.
func DataObject(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object in response, got: %v", result)
	}
	return data
}
