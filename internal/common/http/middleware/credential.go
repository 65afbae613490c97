package middleware

import (
	"strings"

	"qaboard/internal/qa/auth"

	"github.com/gin-gonic/gin"
)

// CredentialCookie is the cookie a browser client keeps its token under.
const CredentialCookie = "token"

// CredentialMiddleware copies the caller's token onto the request context.
// It never rejects a request; handlers decide whether a credential is needed.
func CredentialMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(CredentialCookie); err == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token != "" {
			c.Request = c.Request.WithContext(auth.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

func extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
