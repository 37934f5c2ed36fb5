package student

import (
	"context"
	"errors"
	"log/slog"

	"deptportal/internal/mail"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student with this email or matric number already exists")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	GetByMatric(ctx context.Context, matric string) (*Student, error)
	List(ctx context.Context, page, perPage int) ([]Student, int, error)
	ToggleActive(ctx context.Context, id int) (bool, error)
}

type service struct {
	repo   Repository
	mailer mail.Sender
	logger *slog.Logger
}

func NewService(repo Repository, mailer mail.Sender, logger *slog.Logger) Service {
	return &service{repo: repo, mailer: mailer, logger: logger}
}

// Register creates the student row with is_active=false; an admin must
// approve the account before it can log in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*Student, error) {
	exists, err := s.repo.ExistsByEmailOrMatric(ctx, req.Email, req.MatricNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStudentExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Student{
		Name:         req.Name,
		MatricNumber: req.MatricNumber,
		Level:        req.Level,
		Department:   req.Department,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		IsActive:     false,
	})
}

func (s *service) GetByID(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByMatric(ctx context.Context, matric string) (*Student, error) {
	if matric == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByMatric(ctx, matric)
}

func (s *service) List(ctx context.Context, page, perPage int) ([]Student, int, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.List(ctx, perPage, (page-1)*perPage)
}

// ToggleActive flips approval on a student account and returns the new
// state. Approval triggers a notification mail; a delivery failure is
// logged and never undoes the approval.
func (s *service) ToggleActive(ctx context.Context, id int) (bool, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	newState := !current.IsActive
	if err := s.repo.SetActive(ctx, id, newState); err != nil {
		return false, err
	}

	if newState && current.Email != "" {
		msg := mail.AccountActivated(current.Name, current.Email)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "account activation mail failed", "student_id", id, "error", err)
		}
	}
	return newState, nil
}
