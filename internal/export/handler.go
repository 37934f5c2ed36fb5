package export

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"deptportal/internal/contact"
	"deptportal/internal/httputil"
	"deptportal/internal/metrics"
	"deptportal/internal/payment"
	"deptportal/internal/storage"

	"github.com/go-chi/chi/v5"
)

const timestampLayout = "20060102_150405"

// ContactSource supplies the full contacts table, newest first.
type ContactSource interface {
	ListAll(ctx context.Context) ([]contact.Contact, error)
}

// PaymentSource supplies the full payments table, newest first.
type PaymentSource interface {
	ListAll(ctx context.Context) ([]payment.Payment, error)
}

type Handler struct {
	contacts ContactSource
	payments PaymentSource
	store    *storage.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(contacts ContactSource, payments PaymentSource, store *storage.Store, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		contacts: contacts,
		payments: payments,
		store:    store,
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterAdminRoutes mounts the export downloads.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/export/contacts", h.ExportContacts)
	router.Get("/export/payments", h.ExportPayments)
}

func (h *Handler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.ListAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "loading contacts for export failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error generating export")
		return
	}

	header := []string{"ID", "Name", "Email", "Subject", "Message", "Created At"}
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Email,
			c.Subject,
			c.Message,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	h.serve(w, r, "contacts", Build(header, rows))
}

func (h *Handler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "loading payments for export failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error generating export")
		return
	}

	header := []string{"ID", "Full Name", "Matric Number", "Level", "Email", "Phone",
		"Total Amount", "Status", "Transaction Ref", "Created At"}
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.FullName,
			p.MatricNumber,
			strconv.Itoa(p.Level),
			p.Email,
			p.PhoneNumber,
			strconv.FormatFloat(p.TotalAmount, 'f', 2, 64),
			p.Status,
			p.TransactionRef,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	h.serve(w, r, "payments", Build(header, rows))
}

// serve writes the export to the export dir (kept there as the audit
// copy, matching the legacy behavior) and streams it as an attachment.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name, data string) {
	filename := name + "_export_" + time.Now().Format(timestampLayout) + ".csv"

	dir, err := h.store.ExportDir()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "preparing export dir failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error generating export")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(data), 0o644); err != nil {
		h.logger.ErrorContext(r.Context(), "writing export file failed", "file", filename, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error generating export")
		return
	}

	h.metrics.RecordExportGenerated(r.Context())
	h.logger.InfoContext(r.Context(), "export generated", "file", filename)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(data))
}
