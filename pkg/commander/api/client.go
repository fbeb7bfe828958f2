// Package api implements the HTTP client for the Excel Commander service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Endpoint paths on the Excel Commander service.
const (
	EndpointHealth       = "/"
	EndpointGenerate     = "/api/formula/generate"
	EndpointExplain      = "/api/formula/explain"
	EndpointClean        = "/api/formula/clean"
	EndpointPresentation = "/api/presentation/generate"
)

// Insight count bounds enforced by the service.
const (
	minInsights = 1
	maxInsights = 5
)

// Client is a thin JSON client for the Excel Commander service.
// It performs single request/response round trips: no retry, no auth.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// New creates a Client for the given base URL. A zero timeout leaves the
// transport default in place. A nil logger disables call logging.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs one round trip and decodes the JSON response into out.
// A JSON content-type header is set only when a body is present.
func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewAPIError(endpoint, 0, fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return NewAPIError(endpoint, 0, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("api call failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", reqID),
			zap.Error(err))
		return NewAPIError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewAPIError(endpoint, resp.StatusCode, err)
	}

	c.log.Debug("api call",
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewAPIError(endpoint, resp.StatusCode,
			fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(data))))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return NewAPIError(endpoint, resp.StatusCode,
				fmt.Errorf("%w: %v", ErrInvalidResponse, err))
		}
	}

	return nil
}

// Health probes the service root. Any 2xx counts as online; the body is
// decoded best-effort, so a non-JSON 200 still reports a healthy service.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+EndpointHealth, nil)
	if err != nil {
		return nil, NewAPIError(EndpointHealth, 0, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, NewAPIError(EndpointHealth, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewAPIError(EndpointHealth, resp.StatusCode, ErrUnexpectedStatus)
	}

	var hr HealthResponse
	if data, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(data, &hr)
	}
	if hr.Status == "" {
		hr.Status = "online"
	}
	return &hr, nil
}

// GenerateFormula asks the service to turn a description into a formula.
func (c *Client) GenerateFormula(ctx context.Context, req FormulaRequest) (*FormulaResponse, error) {
	var resp FormulaResponse
	if err := c.call(ctx, http.MethodPost, EndpointGenerate, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExplainFormula asks the service to explain an existing formula.
func (c *Client) ExplainFormula(ctx context.Context, req ExplainRequest) (*ExplainResponse, error) {
	var resp ExplainResponse
	if err := c.call(ctx, http.MethodPost, EndpointExplain, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CleanData sends a grid to the cleaning endpoint.
func (c *Client) CleanData(ctx context.Context, req CleanDataRequest) (*CleanDataResponse, error) {
	var resp CleanDataResponse
	if err := c.call(ctx, http.MethodPost, EndpointClean, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GeneratePresentation requests a PowerPoint build from grid data.
// InsightsCount is clamped to the bounds the service validates.
func (c *Client) GeneratePresentation(ctx context.Context, req PresentationRequest) (*PresentationResponse, error) {
	if req.InsightsCount < minInsights {
		req.InsightsCount = minInsights
	}
	if req.InsightsCount > maxInsights {
		req.InsightsCount = maxInsights
	}
	var resp PresentationResponse
	if err := c.call(ctx, http.MethodPost, EndpointPresentation, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadURL joins the service base URL with a relative file path as
// returned in PresentationResponse.FileURL.
func (c *Client) DownloadURL(fileURL string) string {
	if !strings.HasPrefix(fileURL, "/") {
		fileURL = "/" + fileURL
	}
	return c.baseURL + fileURL
}

// Download fetches a generated file to destDir and returns the local path.
// The file name is taken from the last segment of fileURL.
func (c *Client) Download(ctx context.Context, fileURL, destDir string) (string, error) {
	url := c.DownloadURL(fileURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewAPIError(fileURL, 0, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", NewAPIError(fileURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewAPIError(fileURL, resp.StatusCode, ErrUnexpectedStatus)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewAPIError(fileURL, resp.StatusCode, err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, path.Base(fileURL))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write download: %w", err)
	}

	c.log.Info("downloaded presentation", zap.String("file", dest))
	return dest, nil
}
