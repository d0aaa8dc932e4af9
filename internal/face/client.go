package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/sentinel"
)

// Client talks to the remote face model service. The service owns detection
// and embedding extraction; all similarity math stays on our side.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// EmbeddingResult is the model service's answer for one image.
type EmbeddingResult struct {
	Embedding  []float32
	Confidence float64
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ExtractForEnrollment runs the enrollment-quality extraction pipeline on the
// remote service.
func (c *Client) ExtractForEnrollment(ctx context.Context, imageBase64 string) (EmbeddingResult, error) {
	return c.extract(ctx, "/register", imageBase64)
}

// ExtractLive runs the lighter live-capture extraction used at check-in and
// check-out time.
func (c *Client) ExtractLive(ctx context.Context, imageBase64 string) (EmbeddingResult, error) {
	return c.extract(ctx, "/verify", imageBase64)
}

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Embedding  []float32 `json:"embedding"`
	Confidence float64   `json:"confidence"`
	Error      string    `json:"error,omitempty"`
}

func (c *Client) extract(ctx context.Context, path, imageBase64 string) (EmbeddingResult, error) {
	body, err := json.Marshal(extractRequest{Image: imageBase64})
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "face service unreachable",
			"path", path, "error", err, "elapsed", time.Since(start))
		return EmbeddingResult{}, fmt.Errorf("face service %s: %w", path, sentinel.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("read face service response: %w", err)
	}

	var decoded extractResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return EmbeddingResult{}, fmt.Errorf("decode face service response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if len(decoded.Embedding) == 0 {
			return EmbeddingResult{}, dErrors.New(dErrors.CodeValidation, "no face detected in image")
		}
		return EmbeddingResult{Embedding: decoded.Embedding, Confidence: decoded.Confidence}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		message := decoded.Error
		if message == "" {
			message = "face service rejected image"
		}
		return EmbeddingResult{}, dErrors.New(dErrors.CodeValidation, message)
	default:
		c.logger.ErrorContext(ctx, "face service error",
			"path", path, "status", resp.StatusCode)
		return EmbeddingResult{}, fmt.Errorf("face service %s returned %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	}
}
