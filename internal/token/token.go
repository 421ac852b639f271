package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blazely/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Pasangan access/refresh HS256. Refresh di-rotate saat dipakai: jti
// lama masuk blacklist di Redis sampai kedaluwarsa.

var ErrInvalidCredential = errors.New("invalid credential")

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Claims struct {
	AccountID   int    `json:"account_id"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func IssuePair(accountID int, isStaff, isSuperuser bool) (Pair, error) {
	access, err := sign(accountID, isStaff, isSuperuser, TypeAccess, config.AccessTokenTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := sign(accountID, isStaff, isSuperuser, TypeRefresh, config.RefreshTokenTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func sign(accountID int, isStaff, isSuperuser bool, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID:   accountID,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.SecretKey)
}

func parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return config.SecretKey, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}

// VerifyAccess memetakan access token ke identitas account.
func VerifyAccess(tokenString string) (*Claims, error) {
	return parse(tokenString, TypeAccess)
}

func blacklistKey(jti string) string {
	return "token:blacklist:" + jti
}

// Refresh memvalidasi refresh token lalu me-rotate: jti lama masuk
// blacklist dan pasangan baru diterbitkan. Pencabutan memakai SetNX
// supaya atomik; dua pemakaian bersamaan atas token yang sama hanya
// meloloskan satu.
func Refresh(ctx context.Context, tokenString string) (Pair, error) {
	claims, err := parse(tokenString, TypeRefresh)
	if err != nil {
		return Pair{}, err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return Pair{}, ErrInvalidCredential
	}
	ok, err := config.RedisClient.SetNX(ctx, blacklistKey(claims.ID), "1", ttl).Result()
	if err != nil {
		return Pair{}, err
	}
	if !ok {
		return Pair{}, ErrInvalidCredential
	}
	return IssuePair(claims.AccountID, claims.IsStaff, claims.IsSuperuser)
}

// Blacklist mencabut refresh token secara eksplisit (logout).
func Blacklist(ctx context.Context, tokenString string) error {
	claims, err := parse(tokenString, TypeRefresh)
	if err != nil {
		return err
	}
	return blacklist(ctx, claims)
}

func blacklist(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return config.RedisClient.Set(ctx, blacklistKey(claims.ID), "1", ttl).Err()
}
