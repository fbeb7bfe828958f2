package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormula(t *testing.T) {
	var gotReq FormulaRequest
	var gotContentType, gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, EndpointGenerate, r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(FormulaResponse{
			Success:     true,
			Formula:     "=SUM(A:A)",
			Explanation: "A sütunundaki sayıları toplar",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	resp, err := c.GenerateFormula(context.Background(), FormulaRequest{
		Description: "A sütunundaki sayıları topla",
		Language:    "tr",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "=SUM(A:A)", resp.Formula)
	assert.Equal(t, "A sütunundaki sayıları topla", gotReq.Description)
	assert.Equal(t, "tr", gotReq.Language)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func TestServiceReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(FormulaResponse{Success: false, Error: "Formül oluşturulamadı."})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	resp, err := c.GenerateFormula(context.Background(), FormulaRequest{Description: "x", Language: "tr"})
	require.NoError(t, err, "a false success flag is not a transport error")
	assert.False(t, resp.Success)
	assert.Equal(t, "Formül oluşturulamadı.", resp.Error)
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.ExplainFormula(context.Background(), ExplainRequest{Formula: "=A1", Language: "tr"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestInvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.CleanData(context.Background(), CleanDataRequest{Data: [][]any{{"x"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, to force a connection error

	c := New(srv.URL, 0, nil)
	_, err := c.GenerateFormula(context.Background(), FormulaRequest{Description: "x", Language: "tr"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
}

func TestInsightsCountClamped(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		expected int
	}{
		{"below minimum", 0, 1},
		{"negative", -2, 1},
		{"in range", 3, 3},
		{"above maximum", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReq PresentationRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
				json.NewEncoder(w).Encode(PresentationResponse{Success: true, FileURL: "/generated/x.pptx"})
			}))
			defer srv.Close()

			c := New(srv.URL, 0, nil)
			_, err := c.GeneratePresentation(context.Background(), PresentationRequest{
				Data:          [][]any{{"a"}, {"b"}},
				Title:         "Analiz Raporu",
				InsightsCount: tt.in,
				IncludeChart:  true,
				ChartType:     ChartBar,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, gotReq.InsightsCount)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		json.NewEncoder(w).Encode(HealthResponse{Status: "online", Version: "1.0.0", AIConfigured: true})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	hr, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", hr.Status)
	assert.Equal(t, "1.0.0", hr.Version)
	assert.True(t, hr.AIConfigured)
}

func TestHealthToleratesNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	hr, err := c.Health(context.Background())
	require.NoError(t, err, "any 2xx counts as online")
	assert.Equal(t, "online", hr.Status)
}

func TestHealthReportsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.Health(context.Background())
	require.Error(t, err)
}

func TestDownloadURL(t *testing.T) {
	c := New("http://localhost:8000/", 0, nil)
	assert.Equal(t, "http://localhost:8000/generated/report.pptx", c.DownloadURL("/generated/report.pptx"))
	assert.Equal(t, "http://localhost:8000/generated/report.pptx", c.DownloadURL("generated/report.pptx"))
}

func TestDownload(t *testing.T) {
	content := []byte("pptx-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generated/report.pptx", r.URL.Path)
		w.Write(content)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL, 0, nil)
	dest, err := c.Download(context.Background(), "/generated/report.pptx", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.pptx"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestDownloadMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.Download(context.Background(), "/generated/missing.pptx", t.TempDir())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestValidChartType(t *testing.T) {
	for _, ct := range []ChartType{ChartTitle, ChartBulletPoints, ChartBar, ChartLine, ChartPie, ChartTwoColumn} {
		assert.True(t, ValidChartType(ct), string(ct))
	}
	assert.False(t, ValidChartType("pie_3d"))
}
