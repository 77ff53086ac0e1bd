// Package auth issues and verifies the bearer credentials that carry the
// owner identity for every request.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the uniform rejection for every credential failure:
// missing header, wrong scheme, bad signature, expiry, missing subject.
// Callers map it to a single 401 without distinguishing detail.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	jwt.RegisteredClaims
}

// Verifier issues and verifies HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Issue creates a token whose subject is the user id.
func (v *Verifier) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify checks the signature and expiry and returns the user id from the
// subject claim. Verification is pure: no storage access.
func (v *Verifier) Verify(token string) (int64, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// FromHeader extracts and verifies a "Bearer <token>" authorization header.
func (v *Verifier) FromHeader(header string) (int64, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return 0, ErrInvalidToken
	}
	return v.Verify(strings.TrimSpace(header[len(prefix):]))
}
