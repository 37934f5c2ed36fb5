package export_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deptportal/internal/contact"
	"deptportal/internal/export"
	"deptportal/internal/metrics"
	"deptportal/internal/payment"
	"deptportal/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("EveryFieldQuoted", func(t *testing.T) {
		out := export.Build(
			[]string{"ID", "Name"},
			[][]string{{"1", "Ada Obi"}, {"2", "Ben Musa"}},
		)

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, `"ID","Name"`, lines[0])
		assert.Equal(t, `"1","Ada Obi"`, lines[1])
		assert.Equal(t, `"2","Ben Musa"`, lines[2])
	})

	t.Run("EmbeddedQuotesDoubled", func(t *testing.T) {
		out := export.Build([]string{"Subject"}, [][]string{{`He said "hello"`}})
		assert.Contains(t, out, `"He said ""hello"""`)
	})

	t.Run("CommasAndNewlinesStayInsideQuotes", func(t *testing.T) {
		out := export.Build([]string{"Message"}, [][]string{{"line one\nline two, with comma"}})
		assert.Contains(t, out, "\"line one\nline two, with comma\"")
	})

	t.Run("NoRowsIsHeaderOnly", func(t *testing.T) {
		out := export.Build([]string{"ID", "Name"}, nil)
		assert.Equal(t, "\"ID\",\"Name\"\n", out)
	})
}

type stubContacts struct {
	contacts []contact.Contact
}

func (s *stubContacts) ListAll(ctx context.Context) ([]contact.Contact, error) {
	return s.contacts, nil
}

type stubPayments struct {
	payments []payment.Payment
}

func (s *stubPayments) ListAll(ctx context.Context) ([]payment.Payment, error) {
	return s.payments, nil
}

func TestExportEndpoints(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	contacts := &stubContacts{contacts: []contact.Contact{
		{ID: 1, Name: "Ada Obi", Email: "ada@example.com", Subject: `About "fees"`, Message: "Hello", CreatedAt: created},
	}}
	payments := &stubPayments{payments: []payment.Payment{
		{ID: 4, FullName: "Ben Musa", MatricNumber: "220002", Level: 300,
			Email: "ben@example.com", PhoneNumber: "08030000002",
			TotalAmount: 2500, Status: payment.StatusApproved,
			TransactionRef: "TX-1", CreatedAt: created},
	}}

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "uploads", "receipts"), 5<<20)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := export.NewHandler(contacts, payments, store, logger, metrics.NewMock())

	router := chi.NewRouter()
	handler.RegisterAdminRoutes(router)

	t.Run("Contacts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/contacts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "contacts_export_")
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

		lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `"ID","Name","Email","Subject","Message","Created At"`, lines[0])
		assert.Equal(t, `"1","Ada Obi","ada@example.com","About ""fees""","Hello","2025-03-14 09:30:00"`, lines[1])
	})

	t.Run("Payments", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/payments", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t,
			`"ID","Full Name","Matric Number","Level","Email","Phone","Total Amount","Status","Transaction Ref","Created At"`,
			lines[0])
		assert.Equal(t,
			`"4","Ben Musa","220002","300","ben@example.com","08030000002","2500.00","approved","TX-1","2025-03-14 09:30:00"`,
			lines[1])
	})

	t.Run("AuditCopyWrittenToExportDir", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/contacts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		dir, err := store.ExportDir()
		require.NoError(t, err)
		matches, err := filepath.Glob(filepath.Join(dir, "contacts_export_*.csv"))
		require.NoError(t, err)
		assert.NotEmpty(t, matches)
	})
}
