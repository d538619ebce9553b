package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agroapi/internal/config"
)

var (
	ErrSecretRequired = errors.New("jwt secret is required")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
)

// Claims carried in access tokens. Subject is the staff ID; Mobile records
// whether the token was issued to a mobile client, for log correlation.
type Claims struct {
	Role   string `json:"role"`
	Mobile bool   `json:"mobile"`
	jwt.RegisteredClaims
}

// TokenProvider issues and verifies HS256 access tokens.
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenProvider builds a provider from config. The secret must be set;
// there is no development fallback.
func NewTokenProvider(cfg config.AuthConfig) (*TokenProvider, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrSecretRequired
	}
	ttl := time.Duration(cfg.TokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenProvider{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the staff ID and returns it with its lifetime in
// seconds, which login responses expose as expires_in.
func (p *TokenProvider) Issue(staffID, role string, mobile bool) (string, int64, error) {
	now := p.now()
	claims := &Claims{
		Role:   role,
		Mobile: mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, int64(p.ttl.Seconds()), nil
}

// Verify parses and validates a token, returning its claims.
func (p *TokenProvider) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL reports the configured token lifetime.
func (p *TokenProvider) TTL() time.Duration {
	return p.ttl
}
