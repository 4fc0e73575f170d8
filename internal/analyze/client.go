// Package analyze submits validated uploads to the pharmacogenomic analysis
// backend and maps responses into result or error state. Exactly one request
// shape is produced per submission: single-drug or batch, chosen purely by
// the number of selected drugs.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pgxboard/internal/report"
)

// DefaultBackend is the fixed local analysis endpoint. It is deliberately
// not runtime-configurable.
const DefaultBackend = "http://localhost:8000"

const (
	singlePath = "/analyze"
	batchPath  = "/analyze/batch"
)

// Upload is a validated file ready for submission.
type Upload struct {
	Name string
	Data []byte
}

// Client talks to the analysis backend. There is no retry or timeout logic:
// a failed request surfaces immediately, and the caller enforces the
// one-in-flight rule.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// NewClient returns a client bound to the fixed backend address.
func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: DefaultBackend,
		httpc:   &http.Client{},
		log:     log,
	}
}

// Run routes a submission: exactly one selected drug goes to the single
// endpoint, two or more go to the batch endpoint. The returned report has
// exactly one shape populated.
func (c *Client) Run(ctx context.Context, up Upload, drugs []string) (report.Report, error) {
	if len(drugs) == 0 {
		return report.Report{}, ErrNoDrugs
	}
	if len(drugs) == 1 {
		single, err := c.Single(ctx, up, drugs[0])
		if err != nil {
			return report.Report{}, err
		}
		return report.Report{Single: single}, nil
	}
	batch, err := c.Batch(ctx, up, drugs)
	if err != nil {
		return report.Report{}, err
	}
	return report.Report{Batch: batch}, nil
}

// Single submits a one-patient, one-drug analysis.
func (c *Client) Single(ctx context.Context, up Upload, drug string) (*report.SingleResult, error) {
	body, err := c.post(ctx, singlePath, "drug", drug, up)
	if err != nil {
		return nil, err
	}
	var res report.SingleResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &res, nil
}

// Batch submits a multi-drug analysis with a comma-joined drug list.
func (c *Client) Batch(ctx context.Context, up Upload, drugs []string) (*report.BatchResult, error) {
	body, err := c.post(ctx, batchPath, "drugs", strings.Join(drugs, ","), up)
	if err != nil {
		return nil, err
	}
	var res report.BatchResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &res, nil
}

// errorBody is the backend's optional failure payload.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) post(ctx context.Context, path, field, value string, up Upload) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("vcf", up.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.WriteField(field, value); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("analysis request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	c.log.Info("analysis request completed",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && strings.TrimSpace(eb.Detail) != "" {
			return nil, fmt.Errorf("%s", eb.Detail)
		}
		return nil, fmt.Errorf("request failed (%d)", resp.StatusCode)
	}
	return body, nil
}
