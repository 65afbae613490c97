package auth

import (
	"context"
	"strings"

	"qaboard/pkg/utils/contextkey"
)

// CredentialProvider answers whether the current viewer holds a usable credential.
type CredentialProvider interface {
	HasValidCredential(ctx context.Context) bool
}

// WithToken stores the raw credential token on ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextkey.Credential, strings.TrimSpace(token))
}

// TokenFromContext returns the raw credential token, or "" when absent.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(contextkey.Credential).(string)
	return token
}

// PresenceProvider treats any non-empty token as valid.
type PresenceProvider struct{}

func (PresenceProvider) HasValidCredential(ctx context.Context) bool {
	return TokenFromContext(ctx) != ""
}

// StaticProvider always answers with its own value. Used in tests and demos.
type StaticProvider bool

func (s StaticProvider) HasValidCredential(context.Context) bool {
	return bool(s)
}
