package canva

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// AutofillField is one substituted value in an autofill request.
type AutofillField struct {
	Text string `json:"text"`
	Type string `json:"type"` // always "text"
}

// AutofillRequest is the body for POST /create-autofill/.
type AutofillRequest struct {
	BrandTemplateID string                   `json:"brand_template_id"`
	Data            map[string]AutofillField `json:"data"`
	Title           string                   `json:"title,omitempty"`
	Preview         bool                     `json:"preview"`
}

type createAutofillResponse struct {
	CanvaResponse struct {
		Job struct {
			ID string `json:"id"`
		} `json:"job"`
	} `json:"canva_response"`
}

// AutofillStatus is the response of GET /autofill-status/{jobID}.
type AutofillStatus struct {
	Status    string `json:"status"` // "in_progress", "success", "error"
	DesignID  string `json:"design_id,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	ViewURL   string `json:"view_url,omitempty"`
	EditURL   string `json:"edit_url,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ExportFormat controls the rendered output of an export job.
type ExportFormat struct {
	Type          string `json:"type"`
	ExportQuality string `json:"export_quality,omitempty"`
	Size          int    `json:"size,omitempty"`
	Pages         []int  `json:"pages,omitempty"`
}

// ExportRequest is the body for POST /create-export/.
type ExportRequest struct {
	DesignID   string       `json:"design_id"`
	DesignType string       `json:"design_type"`
	TemplateID string       `json:"template_id,omitempty"`
	Format     ExportFormat `json:"format"`
}

type createExportResponse struct {
	Job struct {
		ID string `json:"id"`
	} `json:"job"`
}

// ExportStatus is the response of GET /export-status/{jobID}.
type ExportStatus struct {
	Status  string   `json:"status"`
	URLs    []string `json:"urls,omitempty"`
	Message string   `json:"message,omitempty"`
}

type exportStatusResponse struct {
	Job struct {
		Status string   `json:"status"`
		URLs   []string `json:"urls,omitempty"`
	} `json:"job"`
	Message string `json:"message,omitempty"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateAutofill submits field values against a brand template and returns
// the autofill job id.
func (c *Client) CreateAutofill(ctx context.Context, req AutofillRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/create-autofill/"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create autofill job: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result createAutofillResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.CanvaResponse.Job.ID == "" {
		return "", fmt.Errorf("autofill job id is empty in response, body: %s", string(body))
	}

	return result.CanvaResponse.Job.ID, nil
}

// GetAutofillStatus fetches the current state of an autofill job.
func (c *Client) GetAutofillStatus(ctx context.Context, jobID string) (*AutofillStatus, error) {
	url := c.baseURL + "/autofill-status/" + jobID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get autofill status: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result AutofillStatus
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return &result, nil
}

// CreateExport submits an export job for a completed design and returns
// the export job id.
func (c *Client) CreateExport(ctx context.Context, req ExportRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/create-export/"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create export job: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result createExportResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.Job.ID == "" {
		return "", fmt.Errorf("export job id is empty in response, body: %s", string(body))
	}

	return result.Job.ID, nil
}

// GetExportStatus fetches the current state of an export job.
func (c *Client) GetExportStatus(ctx context.Context, jobID string) (*ExportStatus, error) {
	url := c.baseURL + "/export-status/" + jobID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get export status: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw exportStatusResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return &ExportStatus{
		Status:  raw.Job.Status,
		URLs:    raw.Job.URLs,
		Message: raw.Message,
	}, nil
}

// RetryWithBackoff executes a function with exponential backoff retry logic.
func RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
