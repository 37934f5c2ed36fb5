package payment

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"unicode"

	"deptportal/internal/academic"
	"deptportal/internal/mail"
	"deptportal/internal/storage"
)

var (
	ErrDuplicatePayment = errors.New("a payment with this matric number has already been submitted")
	ErrInvalidStatus    = errors.New("invalid status")
)

// ValidationError carries the user-facing message for a rejected form
// field. Handlers surface the message verbatim with a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

type Service interface {
	Submit(ctx context.Context, req SubmitRequest, file multipart.File, header *multipart.FileHeader) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context, status string, page, perPage int) ([]Payment, int, error)
	UpdateStatus(ctx context.Context, id int, status string) (*Payment, error)
	Edit(ctx context.Context, id int, req EditRequest) (*Payment, error)
	Delete(ctx context.Context, id int) error
	HasApprovedPayment(ctx context.Context, matric string) (bool, error)
	Recent(ctx context.Context, limit int) ([]Payment, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Stats is the aggregate view behind the admin statistics screen.
type Stats struct {
	ByLevel  []LevelStat  `json:"byLevel"`
	ByStatus []StatusStat `json:"byStatus"`
	ByMonth  []MonthStat  `json:"byMonth"`
}

type service struct {
	repo   Repository
	store  *storage.Store
	mailer mail.Sender
	logger *slog.Logger
}

func NewService(repo Repository, store *storage.Store, mailer mail.Sender, logger *slog.Logger) Service {
	return &service{repo: repo, store: store, mailer: mailer, logger: logger}
}

// Submit validates and records a payment claim. The duplicate check is
// a read-then-insert; two truly simultaneous submissions for the same
// matric can both land, and the admin resolves the extra row by hand.
func (s *service) Submit(ctx context.Context, req SubmitRequest, file multipart.File, header *multipart.FileHeader) (*Payment, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.MatricNumber = strings.TrimSpace(req.MatricNumber)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if !validFullName(req.FullName) {
		return nil, invalid("Full name is required and must contain only letters.")
	}
	if !academic.MatricPattern.MatchString(req.MatricNumber) {
		return nil, invalid("Invalid matric number format.")
	}
	if !academic.AllowedLevels[req.Level] {
		return nil, invalid("Invalid level selected.")
	}
	if !academic.ValidateEmail(req.Email) {
		return nil, invalid("Invalid email address.")
	}
	if req.PhoneNumber == "" {
		return nil, invalid("Phone number is required.")
	}
	if strings.TrimSpace(req.PaymentItems) == "" || req.PaymentItems == "[]" {
		return nil, invalid("Select at least one payment item.")
	}
	if req.TotalAmount <= 0 {
		return nil, invalid("Total amount must be greater than zero.")
	}

	exists, err := s.repo.ExistsByMatric(ctx, req.MatricNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePayment
	}

	receiptName := ""
	if file != nil && header != nil {
		receiptName, err = s.store.SaveReceipt(req.MatricNumber, file, header)
		if err != nil {
			if errors.Is(err, storage.ErrBadFileType) || errors.Is(err, storage.ErrFileTooLarge) {
				return nil, invalid(err.Error())
			}
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, &Payment{
		FullName:        req.FullName,
		MatricNumber:    req.MatricNumber,
		Level:           req.Level,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		PaymentItems:    req.PaymentItems,
		TotalAmount:     req.TotalAmount,
		TransactionRef:  req.TransactionRef,
		PaymentDate:     req.PaymentDate,
		ReceiptFilename: receiptName,
		Status:          StatusPending,
	})
	if err != nil {
		// The row never landed, so the stored receipt is an orphan.
		if receiptName != "" {
			if rmErr := s.store.Remove(receiptName); rmErr != nil {
				s.logger.ErrorContext(ctx, "removing orphaned receipt failed", "file", receiptName, "error", rmErr)
			}
		}
		return nil, err
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status string, page, perPage int) ([]Payment, int, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	return s.repo.List(ctx, status, perPage, (page-1)*perPage)
}

// UpdateStatus moves a payment to any of the three statuses and, on
// approval, mails the claimant. Mail failures are logged only; the
// status change has already committed.
func (s *service) UpdateStatus(ctx context.Context, id int, status string) (*Payment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == StatusApproved {
		msg := mail.PaymentApproved(updated.FullName, updated.Email, updated.MatricNumber)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "payment approval mail failed", "payment_id", id, "error", err)
		}
	}
	return updated, nil
}

// Edit overwrites the editable field set. Last writer wins.
func (s *service) Edit(ctx context.Context, id int, req EditRequest) (*Payment, error) {
	if !academic.AllowedLevels[req.Level] {
		return nil, invalid("Invalid level selected.")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.FullName = strings.TrimSpace(req.FullName)
	current.MatricNumber = strings.TrimSpace(req.MatricNumber)
	current.Level = req.Level
	current.Email = strings.TrimSpace(req.Email)
	current.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	current.TotalAmount = req.TotalAmount
	current.TransactionRef = req.TransactionRef

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes the payment row and then the receipt file. The file
// removal is best effort; a leftover file is harmless.
func (s *service) Delete(ctx context.Context, id int) error {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if payment.ReceiptFilename != "" {
		if err := s.store.Remove(payment.ReceiptFilename); err != nil {
			s.logger.ErrorContext(ctx, "removing receipt failed", "file", payment.ReceiptFilename, "error", err)
		}
	}
	return nil
}

func (s *service) HasApprovedPayment(ctx context.Context, matric string) (bool, error) {
	return s.repo.HasApprovedPayment(ctx, matric)
}

func (s *service) Recent(ctx context.Context, limit int) ([]Payment, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *service) CountByStatus(ctx context.Context, status string) (int, error) {
	return s.repo.CountByStatus(ctx, status)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	byLevel, err := s.repo.StatsByLevel(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.StatsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byMonth, err := s.repo.StatsByMonth(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{ByLevel: byLevel, ByStatus: byStatus, ByMonth: byMonth}, nil
}

// validFullName accepts letters and spaces only, at least one letter.
func validFullName(name string) bool {
	stripped := strings.ReplaceAll(name, " ", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
