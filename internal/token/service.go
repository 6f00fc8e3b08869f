// Package token implements issuance and verification of signed bearer
// tokens. Issuance merges an expiry into the caller's claims and signs the
// result with a process-wide symmetric secret; verification checks the
// signature and expiry and returns the embedded claims.
//
// Every verification failure, whether a bad signature, a malformed token,
// an unexpected algorithm or an expired claim, is reported as
// ErrInvalidCredentials. Callers never learn which check failed; the cause
// is preserved in the wrapped error for logging only.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is the single failure kind surfaced by Verify.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ClaimsSet is a mapping from claim name to value. An issued token carries
// the caller's claims plus an "exp" entry injected at issuance.
type ClaimsSet map[string]interface{}

// Subject returns the "sub" claim, or the empty string when absent.
func (c ClaimsSet) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Role returns the "role" claim, or the empty string when absent.
func (c ClaimsSet) Role() string {
	role, _ := c["role"].(string)
	return role
}

// Service signs and verifies tokens with a fixed symmetric secret. It holds
// no mutable state after construction and is safe for concurrent use.
type Service struct {
	secret     []byte
	method     jwt.SigningMethod
	algorithm  string
	defaultTTL time.Duration

	// now is replaceable in tests to simulate clock advance
	now func() time.Time
}

// NewService creates a token service for the given secret and HMAC
// algorithm name (HS256, HS384 or HS512).
func NewService(secret, algorithm string, defaultTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if defaultTTL <= 0 {
		return nil, errors.New("default TTL must be positive")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm must be HMAC, got %s", algorithm)
	}

	return &Service{
		secret:     []byte(secret),
		method:     method,
		algorithm:  algorithm,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// DefaultTTL returns the configured token lifetime.
func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs the given claims with exp = now(UTC) + ttl merged in. The
// caller's map is not mutated; a caller-supplied exp is replaced.
func (s *Service) Issue(claims ClaimsSet, ttl time.Duration) (string, error) {
	merged := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		merged[k] = v
	}
	merged["exp"] = s.now().UTC().Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(s.method, merged).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

// IssueDefault signs the given claims with the configured TTL.
func (s *Service) IssueDefault(claims ClaimsSet) (string, error) {
	return s.Issue(claims, s.defaultTTL)
}

// Verify checks the token's signature and expiry and returns the embedded
// claims. Any failure is reported as ErrInvalidCredentials; the underlying
// cause is wrapped for logging but callers must not branch on it.
func (s *Service) Verify(raw string) (ClaimsSet, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	claims := make(ClaimsSet, len(mapClaims))
	for k, v := range mapClaims {
		claims[k] = v
	}
	return claims, nil
}
