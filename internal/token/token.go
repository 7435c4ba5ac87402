// Package token issues and verifies the signed bearer tokens handed out by
// POST /authenticate. It knows nothing about HTTP.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidityWindow is how long an issued token stays valid.
const ValidityWindow = time.Hour

// HS256 needs a key of at least its output size.
const minKeyBytes = 32

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrWeakKey        = errors.New("signing key too short")
)

type Claims struct {
	jwt.RegisteredClaims
}

type Codec struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*Codec)

func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec decodes the base64 signing key and rejects keys that are too
// short for HS256, so a bad configuration fails at startup.
func NewCodec(encodedKey string, opts ...Option) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("%w: %d bits, need at least %d", ErrWeakKey, len(key)*8, minKeyBytes*8)
	}

	c := &Codec{
		key: key,
		now: time.Now,
		// expiry is checked by IsTokenValid, not while parsing
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) Issue(subject string) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ValidityWindow)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify checks structure and signature. An expired but correctly signed
// token verifies; see IsTokenValid.
func (c *Codec) Verify(raw string) (*Claims, error) {
	var claims Claims
	tkn, err := c.parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !tkn.Valid {
		return nil, ErrMalformedToken
	}
	return &claims, nil
}

func (c *Codec) ExtractSubject(raw string) (string, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsTokenValid reports whether raw verifies, names exactly expectedSubject and
// expires strictly after the current time.
func (c *Codec) IsTokenValid(raw, expectedSubject string) bool {
	claims, err := c.Verify(raw)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.After(c.now())
}
