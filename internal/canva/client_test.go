package canva_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaqyru-backend/internal/canva"
)

func TestCreateAutofill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-autofill/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var req canva.AutofillRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tpl-1", req.BrandTemplateID)
		assert.Equal(t, "Alice", req.Data["name"].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"canva_response":{"job":{"id":"job-42"}}}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	jobID, err := client.CreateAutofill(context.Background(), canva.AutofillRequest{
		BrandTemplateID: "tpl-1",
		Data: map[string]canva.AutofillField{
			"name": {Text: "Alice", Type: "text"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "job-42", jobID)
}

func TestCreateAutofill_EmptyJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"canva_response":{"job":{}}}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	_, err := client.CreateAutofill(context.Background(), canva.AutofillRequest{})
	assert.Error(t, err)
}

func TestGetAutofillStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/autofill-status/job-42", r.URL.Path)
		w.Write([]byte(`{"status":"success","design_id":"d1","view_url":"https://example.com/v"}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	status, err := client.GetAutofillStatus(context.Background(), "job-42")

	require.NoError(t, err)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, "d1", status.DesignID)
	assert.Equal(t, "https://example.com/v", status.ViewURL)
}

func TestCreateExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-export/", r.URL.Path)

		var req canva.ExportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "d1", req.DesignID)
		assert.Equal(t, "mp4", req.Format.Type)

		w.Write([]byte(`{"job":{"id":"exp-7"}}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	jobID, err := client.CreateExport(context.Background(), canva.ExportRequest{
		DesignID:   "d1",
		DesignType: "mp4",
		Format:     canva.ExportFormat{Type: "mp4"},
	})

	require.NoError(t, err)
	assert.Equal(t, "exp-7", jobID)
}

func TestGetExportStatus_FlattensJobWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export-status/exp-7", r.URL.Path)
		w.Write([]byte(`{"job":{"status":"success","urls":["https://example.com/a.pdf"]},"message":""}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	status, err := client.GetExportStatus(context.Background(), "exp-7")

	require.NoError(t, err)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, []string{"https://example.com/a.pdf"}, status.URLs)
}

func TestGetExportStatus_ErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"job":{"status":"error"},"message":"design expired"}`))
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	status, err := client.GetExportStatus(context.Background(), "exp-7")

	require.NoError(t, err)
	assert.Equal(t, "error", status.Status)
	assert.Equal(t, "design expired", status.Message)
}

func TestRetryWithBackoff_SucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := canva.RetryWithBackoff(func() error {
		calls++
		if calls < 2 {
			return assert.AnError
		}
		return nil
	}, 3)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := canva.RetryWithBackoff(func() error {
		calls++
		return assert.AnError
	}, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := canva.NewClient(server.URL, "test-key")
	_, err := client.GetAutofillStatus(context.Background(), "job-42")
	assert.Error(t, err)
}
