package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"deptportal/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID   int
	sessions []*session.Session
}

func (f *fakeRepo) List(ctx context.Context) ([]session.Session, error) {
	out := make([]session.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int) (*session.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, session.ErrSessionNotFound
}

func (f *fakeRepo) GetCurrent(ctx context.Context) (*session.Session, error) {
	for _, s := range f.sessions {
		if s.IsCurrent {
			return s, nil
		}
	}
	return nil, session.ErrSessionNotFound
}

func (f *fakeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, s := range f.sessions {
		if s.SessionName == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(ctx context.Context, s *session.Session) (*session.Session, error) {
	f.nextID++
	s.ID = f.nextID
	f.sessions = append(f.sessions, s)
	return s, nil
}

func newTestRouter(repo session.Repository) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	session.NewHandler(repo, logger).RegisterAdminRoutes(router)
	return router
}

func TestList(t *testing.T) {
	repo := &fakeRepo{nextID: 2, sessions: []*session.Session{
		{ID: 2, SessionName: "2024/2025", IsCurrent: true},
		{ID: 1, SessionName: "2023/2024"},
	}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sessions []session.Session `json:"sessions"`
		Current  *session.Session  `json:"current"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Sessions, 2)
	require.NotNil(t, resp.Current)
	assert.Equal(t, "2024/2025", resp.Current.SessionName)
}

func TestCreate(t *testing.T) {
	post := func(t *testing.T, router chi.Router, name string) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(map[string]string{"sessionName": name})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success", func(t *testing.T) {
		repo := &fakeRepo{}
		w := post(t, newTestRouter(repo), "2025/2026")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, repo.sessions, 1)
	})

	t.Run("BadFormat", func(t *testing.T) {
		repo := &fakeRepo{}
		for _, name := range []string{"2025", "25/26", "2025-2026", ""} {
			w := post(t, newTestRouter(repo), name)
			assert.Equal(t, http.StatusBadRequest, w.Code, "name %q", name)
		}
		assert.Empty(t, repo.sessions)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := &fakeRepo{sessions: []*session.Session{{ID: 1, SessionName: "2024/2025"}}}
		w := post(t, newTestRouter(repo), "2024/2025")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
