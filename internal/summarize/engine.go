package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spacebio/knowledge-engine/internal/domain"
)

// engineSourceName labels engine failures in error values.
const engineSourceName = "SummarizerEngine"

// Engine produces an abstractive summary of one text chunk.
type Engine interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// RemoteEngine calls an external summarization endpoint. It is an explicitly
// constructed service object; when no endpoint is configured the service
// simply runs without one.
type RemoteEngine struct {
	url    string
	client *http.Client
}

// NewRemoteEngine creates an engine client for the given endpoint URL.
func NewRemoteEngine(url string, timeout time.Duration) *RemoteEngine {
	return &RemoteEngine{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Summarize posts one chunk to the engine and returns its summary.
func (e *RemoteEngine) Summarize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read engine response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewExternalAPIError(engineSourceName, resp.StatusCode, string(body), nil)
	}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse engine response: %w", err)
	}
	return out.Summary, nil
}
