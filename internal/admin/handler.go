package admin

import (
	"context"
	"log/slog"
	"net/http"

	"deptportal/internal/contact"
	"deptportal/internal/httputil"
	"deptportal/internal/payment"

	"github.com/go-chi/chi/v5"
)

const recentCount = 5

// Counter is any store that can report its row count.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// ContactFeed supplies counts and the recent-activity strip.
type ContactFeed interface {
	Counter
	Recent(ctx context.Context, limit int) ([]contact.Contact, error)
}

// PaymentFeed supplies counts, per-status counts and recent payments.
type PaymentFeed interface {
	Counter
	CountByStatus(ctx context.Context, status string) (int, error)
	Recent(ctx context.Context, limit int) ([]payment.Payment, error)
}

// Handler serves the back-office landing screen.
type Handler struct {
	students Counter
	results  Counter
	contacts ContactFeed
	payments PaymentFeed
	logger   *slog.Logger
}

func NewHandler(students, results Counter, contacts ContactFeed, payments PaymentFeed, logger *slog.Logger) *Handler {
	return &Handler{
		students: students,
		results:  results,
		contacts: contacts,
		payments: payments,
		logger:   logger,
	}
}

func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalStudents, err := h.students.Count(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	totalContacts, err := h.contacts.Count(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	totalPayments, err := h.payments.Count(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	totalResults, err := h.results.Count(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pendingPayments, err := h.payments.CountByStatus(ctx, payment.StatusPending)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	approvedPayments, err := h.payments.CountByStatus(ctx, payment.StatusApproved)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recentContacts, err := h.contacts.Recent(ctx, recentCount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recentPayments, err := h.payments.Recent(ctx, recentCount)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"totals": map[string]int{
			"students": totalStudents,
			"contacts": totalContacts,
			"payments": totalPayments,
			"results":  totalResults,
		},
		"pendingPayments":  pendingPayments,
		"approvedPayments": approvedPayments,
		"recentContacts":   recentContacts,
		"recentPayments":   recentPayments,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "loading dashboard failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "error loading dashboard")
}
