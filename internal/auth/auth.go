// Package auth verifies the bearer credentials issued by the marketplace's
// identity service and resolves them to active users. It owns the full
// admission decision for both REST calls and websocket upgrades.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"homechat/backend/internal/models"
)

var (
	// ErrNoCredential means the request carried no token in any of the
	// accepted positions.
	ErrNoCredential = errors.New("no credential supplied")
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactiveUser means the token was fine but the account is disabled.
	ErrInactiveUser = errors.New("user is not active")
)

// Claims is the token payload the identity service signs for us.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// UserLoader resolves a user id to its current record. Lookups must honor
// soft deletion, so a deleted user comes back as not found.
type UserLoader interface {
	GetUserByID(id uint) (*models.User, error)
}

// CredentialFromRequest extracts the bearer token from the request. The
// positions are checked in priority order: the explicit auth field, then
// the token query parameter, then the Authorization header. The first
// position that is present wins even if a later one also carries a value.
func CredentialFromRequest(r *http.Request) (string, error) {
	if v := r.URL.Query().Get("auth"); v != "" {
		return v, nil
	}
	if v := r.URL.Query().Get("token"); v != "" {
		return v, nil
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer "), nil
		}
		return "", ErrInvalidToken
	}
	return "", ErrNoCredential
}

// ParseToken verifies the signature and expiry of raw and returns its
// claims. Tokens signed with anything but HMAC are rejected.
func ParseToken(raw, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate performs the full admission check for a request: extract
// the credential, verify it, load the user and confirm the account is
// usable. Any failure refuses the request; no partial state is created.
func Authenticate(r *http.Request, secret string, users UserLoader) (*models.User, error) {
	raw, err := CredentialFromRequest(r)
	if err != nil {
		return nil, err
	}
	claims, err := ParseToken(raw, secret)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
