// Package principal carries the per-request identity resolved from
// the access token. It lives in its own leaf package so that handler
// packages can read the principal without importing auth (which would
// close an import cycle through admin and payment).
package principal

import "context"

// Kind discriminates the two independent principal types.
type Kind string

const (
	KindStudent Kind = "student"
	KindAdmin   Kind = "admin"
)

// Principal is the identity resolved once per request from the access
// token. Requests with no valid token carry no principal at all.
type Principal struct {
	Kind Kind
	ID   int
	Name string
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the resolved principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext extracts the request principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// StudentID returns the student principal's ID, if the request is
// authenticated as a student.
func StudentID(ctx context.Context) (int, bool) {
	p, ok := FromContext(ctx)
	if !ok || p.Kind != KindStudent {
		return 0, false
	}
	return p.ID, true
}

// AdminID returns the admin principal's ID, if the request is
// authenticated as an admin.
func AdminID(ctx context.Context) (int, bool) {
	p, ok := FromContext(ctx)
	if !ok || p.Kind != KindAdmin {
		return 0, false
	}
	return p.ID, true
}
