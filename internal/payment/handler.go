package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"deptportal/internal/httputil"
	"deptportal/internal/metrics"
	"deptportal/internal/principal"
	"deptportal/internal/storage"
	"deptportal/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// maxMultipartMemory bounds the in-memory portion of a form parse;
// larger receipt files spill to temp files.
const maxMultipartMemory = 10 << 20

// StudentDirectory resolves the account behind a student principal.
// Satisfied by student.Service.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
}

type Handler struct {
	service  Service
	store    *storage.Store
	students StudentDirectory
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, store *storage.Store, students StudentDirectory, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		store:    store,
		students: students,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterPublicRoutes mounts the open submission endpoint.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/submit-payment", h.Submit)
}

// RegisterStudentRoutes mounts the logged-in submission endpoint and
// the owner-only receipt viewer.
func (h *Handler) RegisterStudentRoutes(router chi.Router) {
	router.Post("/submit-payment", h.Submit)
	router.Get("/receipts/{filename}", h.StudentReceipt)
}

// RegisterSharedRoutes mounts the receipt viewer both principals can
// reach; admins see every file, students only their own.
func (h *Handler) RegisterSharedRoutes(router chi.Router) {
	router.Get("/receipts/{filename}", h.Receipt)
}

// RegisterAdminRoutes mounts the back-office review screens.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/payments", h.List)
	router.Get("/payments/{id}", h.Detail)
	router.Post("/payments/{id}/update_status", h.UpdateStatus)
	router.Post("/payments/{id}/edit", h.Edit)
	router.Post("/payments/{id}/delete", h.Delete)
	router.Get("/receipts/{filename}", h.AdminReceipt)
	router.Get("/stats", h.Stats)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	req := SubmitRequest{
		FullName:       r.FormValue("full_name"),
		MatricNumber:   r.FormValue("matric_number"),
		Email:          r.FormValue("email"),
		PhoneNumber:    r.FormValue("phone_number"),
		PaymentItems:   r.FormValue("payment_items"),
		TransactionRef: r.FormValue("transaction_ref"),
	}
	req.Level, _ = strconv.Atoi(r.FormValue("level"))
	req.TotalAmount, _ = strconv.ParseFloat(r.FormValue("total_amount"), 64)
	if raw := r.FormValue("payment_date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			req.PaymentDate = &d
		}
	}

	var (
		file   multipart.File
		header *multipart.FileHeader
	)
	if f, fh, err := r.FormFile("receipt"); err == nil {
		file = f
		header = fh
		defer f.Close()
	}

	h.logger.InfoContext(r.Context(), "payment submission", "matric", req.MatricNumber, "amount", req.TotalAmount)
	created, err := h.service.Submit(r.Context(), req, file, header)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordPaymentSubmitted(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"payment_id": created.ID,
		"message":    "Payment submitted successfully! Your payment is pending admin approval.",
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	status := r.URL.Query().Get("status")

	payments, total, err := h.service.List(r.Context(), status, page, httputil.PerPage)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httputil.RespondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		h.logger.ErrorContext(r.Context(), "listing payments failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading payments")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"status":   status,
		"meta":     httputil.NewPageMeta(page, httputil.PerPage, total),
	})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	payment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payment": payment,
		"items":   decodeItems(payment.PaymentItems),
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordPaymentReviewed(r.Context())
	h.logger.InfoContext(r.Context(), "payment status updated", "payment_id", id, "status", req.Status)

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Payment status updated to " + updated.Status + "!",
		"payment": updated,
	})
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var req EditRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "payment edit validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	updated, err := h.service.Edit(r.Context(), id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Payment details updated successfully!",
		"payment": updated,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithMessage(w, http.StatusOK, "Payment record deleted successfully!")
}

// Receipt dispatches on the principal kind resolved by the router's
// middleware.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal.AdminID(r.Context()); ok {
		h.AdminReceipt(w, r)
		return
	}
	h.StudentReceipt(w, r)
}

// AdminReceipt streams any stored receipt to a back-office user.
func (h *Handler) AdminReceipt(w http.ResponseWriter, r *http.Request) {
	h.serveReceipt(w, r, chi.URLParam(r, "filename"))
}

// StudentReceipt streams a receipt only to the student whose matric
// number prefixes the stored filename.
func (h *Handler) StudentReceipt(w http.ResponseWriter, r *http.Request) {
	studentID, ok := principal.StudentID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Please log in to access this page.")
		return
	}
	owner, err := h.students.GetByID(r.Context(), studentID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "resolving student failed", "student_id", studentID, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := chi.URLParam(r, "filename")
	if !strings.HasPrefix(filename, owner.MatricNumber+"_") {
		// Not this student's file. Indistinguishable from a missing one.
		httputil.RespondWithError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	h.serveReceipt(w, r, filename)
}

func (h *Handler) serveReceipt(w http.ResponseWriter, r *http.Request, filename string) {
	f, err := h.store.Open(filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrUnsafeFilename) {
			httputil.RespondWithError(w, http.StatusNotFound, "Receipt not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "opening receipt failed", "file", filename, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "loading payment stats failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading statistics")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httputil.RespondWithError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, ErrDuplicatePayment):
		httputil.RespondWithError(w, http.StatusConflict, "A payment with this matric number has already been submitted.")
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, ErrPaymentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Payment not found")
	default:
		h.logger.ErrorContext(r.Context(), "payment handler error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeItems parses the stored payment_items JSON. Malformed JSON
// from old rows decodes to an empty list rather than an error.
func decodeItems(raw string) []interface{} {
	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []interface{}{}
	}
	return items
}
