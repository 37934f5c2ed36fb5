package course_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deptportal/internal/course"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	courses []course.Course
	err     error
}

func (f *fakeRepo) Search(ctx context.Context, query string) ([]course.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := strings.ToLower(query)
	var out []course.Course
	for _, c := range f.courses {
		if strings.Contains(strings.ToLower(c.CourseCode), q) ||
			strings.Contains(strings.ToLower(c.CourseTitle), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	return len(f.courses), nil
}

func (f *fakeRepo) Create(ctx context.Context, c *course.Course) (*course.Course, error) {
	f.courses = append(f.courses, *c)
	return c, nil
}

func search(t *testing.T, repo course.Repository, query string) []course.Course {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	course.NewHandler(repo, logger).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/search?q="+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var courses []course.Course
	require.NoError(t, json.NewDecoder(w.Body).Decode(&courses))
	return courses
}

func TestSearch(t *testing.T) {
	repo := &fakeRepo{courses: []course.Course{
		{ID: 1, CourseCode: "AGE 201", CourseTitle: "Fluid Mechanics", CourseUnit: 3, Level: 200, Semester: 1},
		{ID: 2, CourseCode: "AGE 202", CourseTitle: "Strength of Materials", CourseUnit: 3, Level: 200, Semester: 1},
	}}

	t.Run("MatchesCode", func(t *testing.T) {
		assert.Len(t, search(t, repo, "age"), 2)
	})

	t.Run("MatchesTitle", func(t *testing.T) {
		found := search(t, repo, "fluid")
		require.Len(t, found, 1)
		assert.Equal(t, "AGE 201", found[0].CourseCode)
	})

	t.Run("ShortQueryReturnsEmptyList", func(t *testing.T) {
		assert.Empty(t, search(t, repo, "a"))
	})

	t.Run("NoMatchReturnsEmptyListNotNull", func(t *testing.T) {
		assert.NotNil(t, search(t, repo, "zzz"))
		assert.Empty(t, search(t, repo, "zzz"))
	})

	t.Run("RepoErrorDegradesToEmptyList", func(t *testing.T) {
		broken := &fakeRepo{err: errors.New("connection refused")}
		assert.Empty(t, search(t, broken, "age"))
	})
}
