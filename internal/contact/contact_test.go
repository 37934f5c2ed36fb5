package contact_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"deptportal/internal/contact"
	"deptportal/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID   int
	contacts map[int]*contact.Contact
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, contacts: map[int]*contact.Contact{}}
}

func (f *fakeRepo) Create(ctx context.Context, c *contact.Contact) (*contact.Contact, error) {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int) (*contact.Contact, error) {
	if c, ok := f.contacts[id]; ok {
		return c, nil
	}
	return nil, contact.ErrContactNotFound
}

func (f *fakeRepo) all() []contact.Contact {
	out := make([]contact.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]contact.Contact, int, error) {
	all := f.all()
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]contact.Contact, error) {
	return f.all(), nil
}

func (f *fakeRepo) Recent(ctx context.Context, limit int) ([]contact.Contact, error) {
	all := f.all()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.contacts[id]; !ok {
		return contact.ErrContactNotFound
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	return len(f.contacts), nil
}

func newTestRouter(t *testing.T) (chi.Router, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := contact.NewHandler(repo, logger, metrics.NewMock())

	router := chi.NewRouter()
	handler.RegisterPublicRoutes(router)
	handler.RegisterAdminRoutes(router)
	return router, repo
}

func postJSON(t *testing.T, router chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, repo := newTestRouter(t)

		w := postJSON(t, router, "/contact", contact.SubmitRequest{
			Name: "Ada Obi", Email: "ada@example.com",
			Subject: "Transcript", Message: "When will transcripts be ready?",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, repo.contacts, 1)
	})

	t.Run("MissingFieldRejected", func(t *testing.T) {
		router, repo := newTestRouter(t)

		w := postJSON(t, router, "/contact", contact.SubmitRequest{
			Name: "Ada Obi", Email: "ada@example.com", Subject: "Transcript",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, repo.contacts)
	})

	t.Run("DuplicatesAllowed", func(t *testing.T) {
		router, repo := newTestRouter(t)

		msg := contact.SubmitRequest{
			Name: "Ada Obi", Email: "ada@example.com",
			Subject: "Transcript", Message: "Same message twice",
		}
		for i := 0; i < 2; i++ {
			w := postJSON(t, router, "/contact", msg)
			assert.Equal(t, http.StatusCreated, w.Code)
		}
		assert.Len(t, repo.contacts, 2)
	})
}

func TestListPaging(t *testing.T) {
	router, repo := newTestRouter(t)

	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := repo.Create(ctx, &contact.Contact{
			Name: "Visitor " + strconv.Itoa(i), Email: "v@example.com",
			Subject: "s", Message: "m",
		})
		require.NoError(t, err)
	}

	get := func(path string) map[string]json.RawMessage {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	t.Run("FirstPageHasTwenty", func(t *testing.T) {
		resp := get("/contacts")
		var contacts []contact.Contact
		require.NoError(t, json.Unmarshal(resp["contacts"], &contacts))
		assert.Len(t, contacts, 20)
		// Newest first
		assert.Equal(t, 25, contacts[0].ID)
	})

	t.Run("SecondPageHasRemainder", func(t *testing.T) {
		resp := get("/contacts?page=2")
		var contacts []contact.Contact
		require.NoError(t, json.Unmarshal(resp["contacts"], &contacts))
		assert.Len(t, contacts, 5)

		var meta struct {
			Page       int  `json:"page"`
			TotalPages int  `json:"totalPages"`
			HasNext    bool `json:"hasNext"`
			HasPrev    bool `json:"hasPrev"`
		}
		require.NoError(t, json.Unmarshal(resp["meta"], &meta))
		assert.Equal(t, 2, meta.Page)
		assert.Equal(t, 2, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("BadPageParamDefaultsToFirst", func(t *testing.T) {
		resp := get("/contacts?page=banana")
		var meta struct {
			Page int `json:"page"`
		}
		require.NoError(t, json.Unmarshal(resp["meta"], &meta))
		assert.Equal(t, 1, meta.Page)
	})
}

func TestDetailAndDelete(t *testing.T) {
	router, repo := newTestRouter(t)

	created, err := repo.Create(context.Background(), &contact.Contact{
		Name: "Ada Obi", Email: "ada@example.com", Subject: "s", Message: "m",
	})
	require.NoError(t, err)

	t.Run("Detail", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/"+strconv.Itoa(created.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DetailMissing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := postJSON(t, router, "/contacts/"+strconv.Itoa(created.ID)+"/delete", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, repo.contacts)
	})
}
