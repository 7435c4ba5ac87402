package auth

import (
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/logging"
)

type Access int

const (
	Authenticated Access = iota
	Public
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "authenticated"
}

// Rule maps a path pattern to an access level. A pattern is either an exact
// path or a prefix ending in "/**", which also matches the prefix itself.
type Rule struct {
	Pattern string
	Access  Access
}

// DefaultRules are the public paths of the service. The versioned API is
// public here because its handlers demand an identity themselves.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/", Access: Public},
		{Pattern: "/register", Access: Public},
		{Pattern: "/authenticate", Access: Public},
		{Pattern: "/api/v1/**", Access: Public},
		{Pattern: "/health/**", Access: Public},
	}
}

type Policy struct {
	rules    []Rule
	fallback Access
}

// NewPolicy evaluates rules in order; the first match wins and paths matching
// no rule get fallback.
func NewPolicy(fallback Access, rules ...Rule) *Policy {
	return &Policy{rules: rules, fallback: fallback}
}

func matches(pattern, p string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return p == prefix || strings.HasPrefix(p, prefix+"/")
	}
	return p == pattern
}

func (p *Policy) Decide(requestPath string) Access {
	clean := path.Clean("/" + requestPath)
	for _, r := range p.rules {
		if matches(r.Pattern, clean) {
			return r.Access
		}
	}
	return p.fallback
}

func (p *Policy) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if p.Decide(req.URL.Path) == Public {
			return next(c)
		}
		if _, ok := identity.FromContext(req.Context()); ok {
			return next(c)
		}
		logging.FromContext(req.Context()).Warn("access_denied", "status", 401, "reason", "no identity", "path", req.URL.Path)
		return apperr.New(apperr.ErrUnauthenticated, unauthenticatedMessage)
	}
}
