// Package client is a thin wrapper over the HTTP API for Go consumers.
// It injects the session's bearer token on every request and turns 401
// responses into a typed redirect to the localized login page.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shaqyru-backend/internal/course"
)

const DefaultBaseURL = "http://localhost:8000"

// SessionStore holds the caller's auth state. Implementations must be
// safe for concurrent use.
type SessionStore interface {
	Token() string
	Lang() string
	Phone() string
	SetToken(token string)
	SetPhone(phone string)
	Clear()
}

// MemorySession is an in-memory SessionStore.
type MemorySession struct {
	mu    sync.RWMutex
	token string
	phone string
	lang  string
}

func NewMemorySession(lang string) *MemorySession {
	return &MemorySession{lang: lang}
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySession) Phone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phone
}

func (s *MemorySession) Lang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

func (s *MemorySession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemorySession) SetPhone(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = phone
}

// Clear drops the token and cached phone but keeps the language.
func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.phone = ""
}

// RedirectError is returned when a request came back 401: the session has
// been cleared and the caller should send the user to LoginURL.
type RedirectError struct {
	LoginURL string
}

func (e *RedirectError) Error() string {
	return "session expired, redirect to " + e.LoginURL
}

type Client struct {
	baseURL    string
	session    SessionStore
	httpClient *http.Client
}

func New(baseURL string, session SessionStore) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// isLoginPath reports whether the request targets an auth endpoint; a 401
// there is a wrong-credentials answer, not an expired session.
func isLoginPath(path string) bool {
	return strings.Contains(path, "/login") || strings.Contains(path, "/auth/")
}

// Do performs one API request. body is JSON-encoded when non-nil and out
// is filled from the response when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !isLoginPath(path) {
		c.session.Clear()
		return &RedirectError{LoginURL: c.loginURL(path)}
	}

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: data}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) loginURL(returnPath string) string {
	lang := c.session.Lang()
	if lang == "" {
		lang = "kz"
	}
	return fmt.Sprintf("/%s/login?returnUrl=%s", lang, url.QueryEscape(returnPath))
}

// APIError is any non-401 error status from the API.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Progress is the canonical course progress shape.
type Progress struct {
	CourseID         int64   `json:"course_id"`
	Progress         int     `json:"progress"`
	CompletedLessons []int64 `json:"completed_lessons"`
	CompletedTests   []int64 `json:"completed_tests"`
}

// GetProgress fetches the caller's progress for a course. Older
// deployments returned the percentage in several nestings, so the raw
// payload goes through the shared normalizer. totalLessons is only used
// when the payload carries no percentage and one has to be derived from
// the completed lesson list; pass 0 when unknown.
func (c *Client) GetProgress(ctx context.Context, courseID int64, totalLessons int) (*Progress, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/api/v2/courses/%d/progress", courseID)
	if err := c.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	normalized, err := course.NormalizeProgress(raw, totalLessons)
	if err != nil {
		return nil, err
	}

	p := Progress{
		CourseID:         courseID,
		Progress:         normalized.Percent,
		CompletedLessons: normalized.CompletedLessons,
		CompletedTests:   normalized.CompletedTests,
	}
	return &p, nil
}
