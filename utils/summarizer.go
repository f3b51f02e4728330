package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldpulse/analytics"
)

// Summarizer produces a free-text narrative for a metrics report. The
// engine knows nothing about it; it is an opaque request/response
// collaborator consumed at the HTTP layer.
type Summarizer interface {
	Summarize(ctx context.Context, report analytics.Report) (string, error)
}

// HTTPSummarizer posts the report as JSON to an external
// text-generation service and relays the returned text.
type HTTPSummarizer struct {
	URL    string
	Client *http.Client
}

func NewHTTPSummarizer(url string) *HTTPSummarizer {
	return &HTTPSummarizer{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, report analytics.Report) (string, error) {
	payload, err := json.Marshal(summaryRequest{Metrics: report})
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("summary service returned %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}
	return out.Summary, nil
}

type summaryRequest struct {
	Metrics analytics.Report `json:"metrics"`
}
