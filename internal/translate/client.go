// Package translate wraps an external machine-translation endpoint with a
// per-item fallback: a text that cannot be translated is returned unchanged.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spacebio/knowledge-engine/internal/domain"
)

// clientSourceName labels translation failures in error values.
const clientSourceName = "Translator"

// Translator translates one text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Client calls a LibreTranslate-compatible endpoint with automatic source
// language detection.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a translation client for the given endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Translate translates one text into targetLang.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"q":      text,
		"source": "auto",
		"target": targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("encode translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewExternalAPIError(clientSourceName, resp.StatusCode, string(body), nil)
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse translate response: %w", err)
	}
	return out.TranslatedText, nil
}
