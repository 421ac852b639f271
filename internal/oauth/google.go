package oauth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blazely/internal/apperr"
	"blazely/internal/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Integrasi Google OAuth. Exchange dan fetch claims dibatasi timeout;
// kalau salah satunya gagal, login gagal bersih tanpa menyentuh store.

const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var (
	conf    *oauth2.Config
	timeout = 10 * time.Second
)

func Init(clientID, clientSecret, redirectURI string, callTimeout time.Duration) {
	conf = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"email", "profile"},
		Endpoint:     google.Endpoint,
	}
	if callTimeout > 0 {
		timeout = callTimeout
	}
}

func LoginURL() string {
	return conf.AuthCodeURL("state")
}

func Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Upstream("Could not retrieve tokens", err)
	}
	return tok, nil
}

// Claims yang dikembalikan provider setelah token exchange.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func FetchClaims(ctx context.Context, tok *oauth2.Token) (Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := conf.Client(ctx, tok).Get(userInfoURL)
	if err != nil {
		return Claims{}, apperr.Upstream("Could not retrieve user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Claims{}, apperr.Upstream("Could not retrieve user info",
			fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode))
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return Claims{}, apperr.Upstream("Could not retrieve user info", err)
	}
	if claims.Email == "" {
		return Claims{}, apperr.Upstream("Email not available in token", nil)
	}
	return claims, nil
}

// GetOrCreateAccount adalah titik integrasi first-login: kalau belum
// ada account Google dengan email tersebut, account (kredensial lokal
// unusable) + profile (dengan picture url) dibuat dalam satu transaksi.
func GetOrCreateAccount(db *sql.DB, claims Claims) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID int
	err = tx.QueryRow(
		"SELECT id FROM accounts WHERE email = $1 AND auth_provider = $2",
		claims.Email, models.GoogleProvider).Scan(&accountID)
	if err == nil {
		return accountID, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRow(`
		INSERT INTO accounts (email, username, password, first_name, last_name, auth_provider)
		VALUES ($1, $1, '!', $2, $3, $4)
		RETURNING id`,
		claims.Email, claims.GivenName, claims.FamilyName, models.GoogleProvider,
	).Scan(&accountID)
	if err != nil {
		return 0, apperr.FromStore(err, "email", "Account with given email already exists.")
	}

	var picture *string
	if claims.Picture != "" {
		picture = &claims.Picture
	}
	if _, err := tx.Exec(
		"INSERT INTO profiles (id, account_id, profile_picture_url) VALUES ($1, $2, $3)",
		uuid.New(), accountID, picture,
	); err != nil {
		return 0, err
	}

	return accountID, tx.Commit()
}
