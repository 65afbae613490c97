package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// viewMethods are the verbs the view API routes on.
var viewMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// corsPolicy is a CORSConfig resolved once at startup.
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	methods     map[string]struct{}
	methodList  string
	headerList  string
	exposeList  string
	credentials bool
	maxAge      string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		origins:     make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:     make(map[string]struct{}),
		credentials: cfg.AllowCredentials,
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		switch origin {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[origin] = struct{}{}
		}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = viewMethods
	}
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || m == http.MethodOptions {
			continue
		}
		if _, dup := p.methods[m]; dup {
			continue
		}
		p.methods[m] = struct{}{}
		names = append(names, m)
	}
	p.methodList = strings.Join(names, ", ")
	p.headerList = strings.Join(cfg.AllowedHeaders, ", ")
	// Clients quote the trace id when reporting a failed view event.
	p.exposeList = strings.Join(appendMissing(cfg.ExposedHeaders, traceIDHeader, requestIDHeader), ", ")
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge / time.Second))
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[strings.ToLower(origin)]
	return ok
}

// allowOrigin writes the origin headers shared by preflight and actual requests.
// Credentialed requests may not use the wildcard origin.
func (p corsPolicy) allowOrigin(h http.Header, origin string) {
	if p.anyOrigin && !p.credentials {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

func (p corsPolicy) preflight(c *gin.Context, origin string) {
	method := strings.ToUpper(c.GetHeader("Access-Control-Request-Method"))
	if _, ok := p.methods[method]; method != "" && !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	h := c.Writer.Header()
	p.allowOrigin(h, origin)
	h.Set("Access-Control-Allow-Methods", p.methodList)
	if p.headerList != "" {
		h.Set("Access-Control-Allow-Headers", p.headerList)
	} else if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
	}
	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// CORSMiddleware lets browser front ends drive views from another origin.
// Requests from unknown origins pass through without CORS headers, and their preflights are refused.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	policy := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		isPreflight := c.Request.Method == http.MethodOptions
		switch {
		case origin == "":
			c.Next()
		case !policy.allows(origin):
			if isPreflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		case isPreflight:
			policy.preflight(c, origin)
		default:
			policy.allowOrigin(c.Writer.Header(), origin)
			c.Writer.Header().Set("Access-Control-Expose-Headers", policy.exposeList)
			c.Next()
		}
	}
}

func appendMissing(list []string, names ...string) []string {
	out := append([]string(nil), list...)
	for _, name := range names {
		found := false
		for _, item := range out {
			if strings.EqualFold(strings.TrimSpace(item), name) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, name)
		}
	}
	return out
}
