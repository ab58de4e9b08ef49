package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaqyru-backend/pkg/client"
)

func TestDo_InjectsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	session := client.NewMemorySession("kz")
	session.SetToken("abc123")

	c := client.New(server.URL, session)
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/v2/courses", nil, nil))

	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := client.New(server.URL, client.NewMemorySession("kz"))
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/health", nil, nil))

	assert.False(t, hasAuth)
}

func TestDo_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := client.NewMemorySession("ru")
	session.SetToken("stale")
	session.SetPhone("+77001234567")

	c := client.New(server.URL, session)
	err := c.Do(context.Background(), http.MethodGet, "/api/v2/courses/1/progress", nil, nil)

	var redirect *client.RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/ru/login?returnUrl=%2Fapi%2Fv2%2Fcourses%2F1%2Fprogress", redirect.LoginURL)

	assert.Empty(t, session.Token(), "401 must clear the token")
	assert.Empty(t, session.Phone(), "401 must clear the cached phone")
	assert.Equal(t, "ru", session.Lang(), "language survives the session reset")
}

func TestDo_LoginPathPassesUnauthorizedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := client.NewMemorySession("kz")
	session.SetToken("keep-me")

	c := client.New(server.URL, session)
	err := c.Do(context.Background(), http.MethodPost, "/api/v2/auth/login", map[string]string{"phone": "x"}, nil)

	var redirect *client.RedirectError
	assert.False(t, errors.As(err, &redirect), "401 on a login path is a credentials error, not a redirect")

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "keep-me", session.Token(), "login-path 401 keeps the session")
}

func TestDo_DefaultLangInRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := client.New(server.URL, client.NewMemorySession(""))
	err := c.Do(context.Background(), http.MethodGet, "/api/v2/templates/x", nil, nil)

	var redirect *client.RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Contains(t, redirect.LoginURL, "/kz/login?")
}

func TestGetProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/courses/7/progress", r.URL.Path)
		w.Write([]byte(`{"course_id":7,"progress":50,"completed_lessons":[1,2],"completed_tests":[3]}`))
	}))
	defer server.Close()

	session := client.NewMemorySession("kz")
	session.SetToken("t")
	c := client.New(server.URL, session)

	p, err := c.GetProgress(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, []int64{1, 2}, p.CompletedLessons)
}

func TestGetProgress_LegacyEnrollmentShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"enrollment":{"progress":80,"completed_lessons":[4,5,6]}}`))
	}))
	defer server.Close()

	session := client.NewMemorySession("kz")
	session.SetToken("t")
	c := client.New(server.URL, session)

	p, err := c.GetProgress(context.Background(), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.CourseID)
	assert.Equal(t, 80, p.Progress)
	assert.Equal(t, []int64{4, 5, 6}, p.CompletedLessons)
}

func TestGetProgress_DerivesPercentFromLessonCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"completed_lessons":[1,2,3]}`))
	}))
	defer server.Close()

	session := client.NewMemorySession("kz")
	session.SetToken("t")
	c := client.New(server.URL, session)

	p, err := c.GetProgress(context.Background(), 12, 6)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Progress, "3 of 6 lessons completed")
	assert.Equal(t, []int64{1, 2, 3}, p.CompletedLessons)
}
