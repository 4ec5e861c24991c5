package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

// Sessions issues and verifies the signed browser session cookies that tie
// a browser to its conversation state. The signing secret is generated at
// startup, so sessions do not survive a restart; conversation history does
// not either, which keeps the two lifetimes aligned.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(ttlHours int) (*Sessions, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	ttl := defaultSessionTTL
	if ttlHours > 0 {
		ttl = time.Duration(ttlHours) * time.Hour
	}
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue mints a session token with a fresh session ID as its subject.
func (s *Sessions) Issue() (token string, sessionID string, err error) {
	sessionID = uuid.NewString()
	issuedAt := s.now()

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}
	return token, sessionID, nil
}

// Verify checks the token signature and expiry and returns the session ID.
func (s *Sessions) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("session token has no subject")
	}
	return claims.Subject, nil
}

// TTL exposes the configured lifetime for cookie max-age.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}
