package auth

import (
	"context"
	"errors"

	"deptportal/internal/admin"
	"deptportal/internal/student"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid matric number or password")
	// ErrAccountPending is only ever shown to students: their pending
	// state is announced, while admin lockouts stay generic. Kept
	// as-observed from the legacy portal.
	ErrAccountPending = errors.New("your account is not yet approved by the admin")
	ErrAdminInactive  = errors.New("your account is inactive")
	ErrInvalidAdmin   = errors.New("invalid username or password")
)

type Service struct {
	students student.Repository
	admins   admin.Repository
	tokens   *TokenManager
}

func NewService(students student.Repository, admins admin.Repository, tokens *TokenManager) *Service {
	return &Service{
		students: students,
		admins:   admins,
		tokens:   tokens,
	}
}

// StudentLogin authenticates a student by matric number. Unknown
// matric and wrong password collapse into one generic error; an
// inactive account is reported distinctly after the password check so
// the message never leaks whether a password was correct for a
// non-existent account.
func (s *Service) StudentLogin(ctx context.Context, matric, password string) (*student.Student, string, error) {
	stud, err := s.students.GetByMatric(ctx, matric)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stud.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !stud.IsActive {
		return nil, "", ErrAccountPending
	}

	token, err := s.tokens.Generate(Principal{Kind: KindStudent, ID: stud.ID, Name: stud.Name})
	if err != nil {
		return nil, "", err
	}
	return stud, token, nil
}

// AdminLogin authenticates an admin by username.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (*admin.Admin, string, error) {
	adm, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", ErrInvalidAdmin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidAdmin
	}

	if !adm.IsActive {
		return nil, "", ErrAdminInactive
	}

	token, err := s.tokens.Generate(Principal{Kind: KindAdmin, ID: adm.ID, Name: adm.Name})
	if err != nil {
		return nil, "", err
	}
	return adm, token, nil
}
