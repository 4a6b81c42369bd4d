// Package identity turns identity-provider session tokens into domain
// sessions and writes profile metadata back to the provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"companions/internal/domain"
)

// Claims is the session token payload. Metadata is the provider's public
// metadata, exposed through a session-token template.
type Claims struct {
	jwt.RegisteredClaims
	Metadata domain.Metadata `json:"metadata"`
}

// Verifier validates session tokens.
type Verifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	issuer  string
}

// VerifierConfig selects how token signatures are checked. JWKSURL takes
// precedence over Secret.
type VerifierConfig struct {
	Secret  string
	JWKSURL string
	Issuer  string
}

// NewVerifier builds a Verifier. With a JWKS URL the key set is fetched and
// refreshed in the background for the lifetime of ctx.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	switch {
	case cfg.JWKSURL != "":
		k, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("identity: load jwks: %w", err)
		}
		return &Verifier{keyFunc: k.Keyfunc, methods: []string{"RS256"}, issuer: cfg.Issuer}, nil
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		return &Verifier{
			keyFunc: func(*jwt.Token) (any, error) { return secret, nil },
			methods: []string{"HS256"},
			issuer:  cfg.Issuer,
		}, nil
	}
	return nil, errors.New("identity: a jwks url or shared secret is required")
}

// Verify parses token and returns the session it represents.
func (v *Verifier) Verify(token string) (*domain.Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, v.keyFunc, opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	return &domain.Session{UserID: claims.Subject, Metadata: claims.Metadata}, nil
}

// SignHS256 issues a token for local development and tests.
func SignHS256(secret string, userID string, md domain.Metadata, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Metadata: md,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
