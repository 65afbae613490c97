package auth

import (
	"context"
	"testing"
	"time"

	pkgerrors "qaboard/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "test-secret"
	testIssuer = "qaboard"
)

func signToken(t *testing.T, secret, issuer, typ, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := tokenClaims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestPresenceProvider(t *testing.T) {
	p := PresenceProvider{}
	if p.HasValidCredential(context.Background()) {
		t.Fatal("no token must mean no credential")
	}
	if p.HasValidCredential(WithToken(context.Background(), "   ")) {
		t.Fatal("blank token must mean no credential")
	}
	if !p.HasValidCredential(WithToken(context.Background(), "abc")) {
		t.Fatal("any non-empty token is a credential")
	}
}

func TestStaticProvider(t *testing.T) {
	if !StaticProvider(true).HasValidCredential(context.Background()) {
		t.Fatal("expected true")
	}
	if StaticProvider(false).HasValidCredential(context.Background()) {
		t.Fatal("expected false")
	}
}

func TestJWTProviderVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	provider := NewJWTProvider(testSecret, testIssuer).WithClock(func() time.Time { return now })

	cases := []struct {
		name     string
		token    string
		wantCode pkgerrors.ErrorCode
	}{
		{
			name:  "valid access token",
			token: signToken(t, testSecret, testIssuer, "access", "3", now.Add(time.Hour)),
		},
		{
			name:     "expired",
			token:    signToken(t, testSecret, testIssuer, "access", "3", now.Add(-time.Minute)),
			wantCode: pkgerrors.TokenExpired,
		},
		{
			name:     "wrong issuer",
			token:    signToken(t, testSecret, "other", "access", "3", now.Add(time.Hour)),
			wantCode: pkgerrors.TokenInvalid,
		},
		{
			name:     "refresh token",
			token:    signToken(t, testSecret, testIssuer, "refresh", "3", now.Add(time.Hour)),
			wantCode: pkgerrors.TokenInvalid,
		},
		{
			name:     "wrong secret",
			token:    signToken(t, "other-secret", testIssuer, "access", "3", now.Add(time.Hour)),
			wantCode: pkgerrors.TokenInvalid,
		},
		{
			name:     "missing subject",
			token:    signToken(t, testSecret, testIssuer, "access", "", now.Add(time.Hour)),
			wantCode: pkgerrors.TokenInvalid,
		},
		{
			name:     "garbage",
			token:    "not-a-jwt",
			wantCode: pkgerrors.TokenInvalid,
		},
		{
			name:     "empty",
			wantCode: pkgerrors.TokenInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := provider.Verify(tc.token)
			if tc.wantCode == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !provider.HasValidCredential(WithToken(context.Background(), tc.token)) {
					t.Fatal("expected credential to be valid")
				}
				return
			}
			if !pkgerrors.Is(err, tc.wantCode) {
				t.Fatalf("expected code %d, got %v", tc.wantCode, err)
			}
			if provider.HasValidCredential(WithToken(context.Background(), tc.token)) {
				t.Fatal("expected credential to be rejected")
			}
		})
	}
}
