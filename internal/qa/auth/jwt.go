package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "qaboard/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// JWTProvider accepts HS256 access tokens signed with a shared secret.
type JWTProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type tokenClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func NewJWTProvider(secret, issuer string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// WithClock overrides the clock used for expiry checks.
func (p *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	p.now = now
	return p
}

func (p *JWTProvider) HasValidCredential(ctx context.Context) bool {
	return p.Verify(TokenFromContext(ctx)) == nil
}

// Verify parses raw and reports why it is unusable, if it is.
func (p *JWTProvider) Verify(raw string) error {
	if raw == "" || len(p.secret) == 0 {
		return pkgerrors.New(pkgerrors.TokenInvalid)
	}
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return pkgerrors.New(pkgerrors.TokenExpired)
		}
		return pkgerrors.New(pkgerrors.TokenInvalid)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return pkgerrors.New(pkgerrors.TokenInvalid)
	}
	if p.issuer != "" && claims.Issuer != p.issuer {
		return pkgerrors.New(pkgerrors.TokenInvalid)
	}
	if claims.TokenType != accessTokenType || claims.Subject == "" {
		return pkgerrors.New(pkgerrors.TokenInvalid)
	}
	return nil
}
