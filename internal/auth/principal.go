package auth

import "deptportal/internal/principal"

// The principal types and context helpers live in the leaf package
// internal/principal so packages like payment can read them without
// importing auth. These aliases keep the auth API unchanged.

// Kind discriminates the two independent principal types.
type Kind = principal.Kind

const (
	KindStudent = principal.KindStudent
	KindAdmin   = principal.KindAdmin
)

// Principal is the identity resolved once per request from the access
// token. Requests with no valid token carry no principal at all.
type Principal = principal.Principal

// WithPrincipal returns a context carrying the resolved principal.
var WithPrincipal = principal.WithPrincipal

// FromContext extracts the request principal, if any.
var FromContext = principal.FromContext

// StudentID returns the student principal's ID, if the request is
// authenticated as a student.
var StudentID = principal.StudentID

// AdminID returns the admin principal's ID, if the request is
// authenticated as an admin.
var AdminID = principal.AdminID
