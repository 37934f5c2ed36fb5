package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"deptportal/internal/admin"
	"deptportal/internal/auth"
	"deptportal/internal/config"
	"deptportal/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStudentRepo struct {
	students map[string]*student.Student
}

func (f *fakeStudentRepo) Create(ctx context.Context, s *student.Student) (*student.Student, error) {
	f.students[s.MatricNumber] = s
	return s, nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id int) (*student.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (f *fakeStudentRepo) GetByMatric(ctx context.Context, matric string) (*student.Student, error) {
	if s, ok := f.students[matric]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (f *fakeStudentRepo) ExistsByEmailOrMatric(ctx context.Context, email, matric string) (bool, error) {
	_, ok := f.students[matric]
	return ok, nil
}

func (f *fakeStudentRepo) List(ctx context.Context, limit, offset int) ([]student.Student, int, error) {
	return nil, 0, nil
}

func (f *fakeStudentRepo) SetActive(ctx context.Context, id int, active bool) error {
	for _, s := range f.students {
		if s.ID == id {
			s.IsActive = active
			return nil
		}
	}
	return student.ErrStudentNotFound
}

func (f *fakeStudentRepo) Count(ctx context.Context) (int, error) {
	return len(f.students), nil
}

type fakeAdminRepo struct {
	admins map[string]*admin.Admin
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id int) (*admin.Admin, error) {
	for _, a := range f.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, admin.ErrAdminNotFound
}

func (f *fakeAdminRepo) GetByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	if a, ok := f.admins[username]; ok {
		return a, nil
	}
	return nil, admin.ErrAdminNotFound
}

func (f *fakeAdminRepo) Create(ctx context.Context, a *admin.Admin) (*admin.Admin, error) {
	f.admins[a.Username] = a
	return a, nil
}

func (f *fakeAdminRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.admins[username]
	return ok, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestSetup(t *testing.T) (*fakeStudentRepo, *fakeAdminRepo, *auth.TokenManager, chi.Router) {
	t.Helper()

	students := &fakeStudentRepo{students: map[string]*student.Student{}}
	admins := &fakeAdminRepo{admins: map[string]*admin.Admin{}}
	tokens := auth.NewTokenManager(config.AuthConfig{Secret: "test-secret", TokenTTL: 3600})
	service := auth.NewService(students, admins, tokens)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(service, tokens, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return students, admins, tokens, router
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

func TestStudentLogin(t *testing.T) {
	students, _, _, router := newTestSetup(t)
	students.students["220001"] = &student.Student{
		ID: 1, Name: "Ada Obi", MatricNumber: "220001",
		PasswordHash: hash(t, "secret123"), IsActive: true,
	}
	students.students["220002"] = &student.Student{
		ID: 2, Name: "Ben Musa", MatricNumber: "220002",
		PasswordHash: hash(t, "secret123"), IsActive: false,
	}

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, router, "/student/login", map[string]string{
			"identifier": "220001", "password": "secret123",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var foundCookie bool
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.StudentCookie {
				foundCookie = true
				assert.True(t, c.HttpOnly)
				assert.NotEmpty(t, c.Value)
			}
		}
		assert.True(t, foundCookie, "student_token cookie should be set")
	})

	t.Run("UnknownMatricAndWrongPasswordLookTheSame", func(t *testing.T) {
		unknown := postJSON(t, router, "/student/login", map[string]string{
			"identifier": "999999", "password": "secret123",
		})
		wrongPass := postJSON(t, router, "/student/login", map[string]string{
			"identifier": "220001", "password": "nope",
		})

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
	})

	t.Run("InactiveAccountGetsDistinctMessage", func(t *testing.T) {
		w := postJSON(t, router, "/student/login", map[string]string{
			"identifier": "220002", "password": "secret123",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp["error"], "not yet approved")
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := postJSON(t, router, "/student/login", map[string]string{"identifier": "220001"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminLogin(t *testing.T) {
	_, admins, _, router := newTestSetup(t)
	admins.admins["admin"] = &admin.Admin{
		ID: 1, Name: "System Administrator", Username: "admin",
		PasswordHash: hash(t, "aeeAdmin"), Role: admin.RoleSuperAdmin, IsActive: true,
	}
	admins.admins["retired"] = &admin.Admin{
		ID: 2, Name: "Old Officer", Username: "retired",
		PasswordHash: hash(t, "aeeAdmin"), Role: admin.RoleExamOfficer, IsActive: false,
	}

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, router, "/admin/login", map[string]string{
			"username": "admin", "password": "aeeAdmin",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Welcome, System Administrator!", resp["message"])

		var foundCookie bool
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.AdminCookie {
				foundCookie = true
			}
		}
		assert.True(t, foundCookie, "admin_token cookie should be set")
	})

	t.Run("InactiveAdmin", func(t *testing.T) {
		w := postJSON(t, router, "/admin/login", map[string]string{
			"username": "retired", "password": "aeeAdmin",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp["error"], "inactive")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := postJSON(t, router, "/admin/login", map[string]string{
			"username": "admin", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTokenManager(t *testing.T) {
	tm := auth.NewTokenManager(config.AuthConfig{Secret: "test-secret", TokenTTL: 3600})

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := tm.Generate(auth.Principal{Kind: auth.KindStudent, ID: 7, Name: "Ada Obi"})
		require.NoError(t, err)

		p, err := tm.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, auth.KindStudent, p.Kind)
		assert.Equal(t, 7, p.ID)
		assert.Equal(t, "Ada Obi", p.Name)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		other := auth.NewTokenManager(config.AuthConfig{Secret: "other-secret", TokenTTL: 3600})
		token, err := other.Generate(auth.Principal{Kind: auth.KindAdmin, ID: 1})
		require.NoError(t, err)

		_, err = tm.Validate(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		_, err := tm.Validate("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestRequireMiddleware(t *testing.T) {
	tm := auth.NewTokenManager(config.AuthConfig{Secret: "test-secret", TokenTTL: 3600})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	protected := chi.NewRouter()
	protected.Group(func(r chi.Router) {
		r.Use(auth.RequireStudent(tm, logger))
		r.Get("/student-only", func(w http.ResponseWriter, r *http.Request) {
			_, ok := auth.StudentID(r.Context())
			require.True(t, ok)
			w.WriteHeader(http.StatusOK)
		})
	})
	protected.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(tm, logger))
		r.Get("/admin-only", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	studentToken, err := tm.Generate(auth.Principal{Kind: auth.KindStudent, ID: 3, Name: "Ada"})
	require.NoError(t, err)

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/student-only", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/student-only", nil)
		req.AddCookie(&http.Cookie{Name: auth.StudentCookie, Value: studentToken})
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("StudentTokenCannotOpenAdminRoutes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.AddCookie(&http.Cookie{Name: auth.AdminCookie, Value: studentToken})
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
