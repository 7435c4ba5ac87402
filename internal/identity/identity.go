// Package identity carries the authenticated principal of a single request
// through context.Context. Nothing here is process-wide: every request gets
// its own value and it disappears with the request context.
package identity

import (
	"context"
	"slices"
)

type Authority string

const AuthorityUser Authority = "USER"

type Authorities []Authority

func (a Authorities) Has(want Authority) bool {
	return slices.Contains(a, want)
}

func (a Authorities) Strings() []string {
	out := make([]string, len(a))
	for i, v := range a {
		out[i] = string(v)
	}
	return out
}

// DefaultAuthorities is the capability set granted to every principal.
func DefaultAuthorities() Authorities {
	return Authorities{AuthorityUser}
}

type Identity struct {
	UserID      uint
	Username    string
	Authorities Authorities
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	id.Authorities = slices.Clone(id.Authorities)
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
