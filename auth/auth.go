// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash stored in admins.hashed_password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Authenticator checks admin credentials against the admins table.
type Authenticator struct {
	db *sql.DB
}

func NewAuthenticator(db *sql.DB) *Authenticator {
	return &Authenticator{db: db}
}

// Authenticate returns the admin when username and password match.
// Unknown users and wrong passwords fail the same way.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (models.Admin, error) {
	var admin models.Admin
	err := a.db.QueryRowContext(ctx, `
		SELECT id, username, hashed_password FROM admins WHERE username = $1
	`, username).Scan(&admin.ID, &admin.Username, &admin.HashedPassword)

	if err == sql.ErrNoRows {
		return models.Admin{}, apperr.Wrap(apperr.KindUnauthorized, "Incorrect username or password", ErrInvalidCredentials)
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to query admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte(password)); err != nil {
		return models.Admin{}, apperr.Wrap(apperr.KindUnauthorized, "Incorrect username or password", ErrInvalidCredentials)
	}
	return admin, nil
}

// EnsureAdmin creates the admin if no admin with that username exists.
// Returns true when a row was inserted.
func (a *Authenticator) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	id, err := GenerateID(16)
	if err != nil {
		return false, err
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, hashed_password)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, id, username, hashed)
	if err != nil {
		return false, fmt.Errorf("failed to insert admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// TokenIssuer signs and verifies admin bearer tokens (HS256).
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the admin and its expiry time.
func (i *TokenIssuer) Issue(username string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the admin username.
func (i *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
