package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TranslateRepository translates a single bounded-size chunk of text.
// Chunking of longer inputs is the translator service's job.
type TranslateRepository interface {
	TranslateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type googleTranslateRepository struct {
	httpClient *http.Client
	baseURL    string
}

// NewTranslateRepository creates a client for the unauthenticated Google
// Translate endpoint ("gtx" client, the one the web widget uses).
func NewTranslateRepository(baseURL string) TranslateRepository {
	return &googleTranslateRepository{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (g *googleTranslateRepository) TranslateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	form := url.Values{
		"client": {"gtx"},
		"dt":     {"t"},
		"sl":     {sourceLang},
		"tl":     {targetLang},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling translate API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translate API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading translate response: %w", err)
	}

	translated, err := parseTranslateResponse(data)
	if err != nil {
		return "", err
	}

	return translated, nil
}

// parseTranslateResponse decodes the endpoint's array-shaped payload:
// [[["translated","source",...],...],...]. The first element holds the
// translated segments in order.
func parseTranslateResponse(data []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decoding translate segments: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			return "", fmt.Errorf("decoding translate segment: %w", err)
		}
		sb.WriteString(part)
	}

	return sb.String(), nil
}
