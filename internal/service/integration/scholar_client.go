package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
)

// ScholarClient queries a bibliographic paper-search endpoint (Semantic
// Scholar Graph API shape: matches arrive in a top-level "data" array).
type ScholarClient struct {
	baseURL string
	fields  string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger
}

type searchResponse struct {
	Data []json.RawMessage `json:"data"`
}

func NewScholarClient(cfg config.ScholarConfig, logger zerolog.Logger) *ScholarClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScholarClient{
		baseURL: cfg.BaseURL,
		fields:  cfg.Fields,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// HasMatch reports whether the search service returns at least one result
// for the given title. Each call is bounded by the configured timeout.
func (c *ScholarClient) HasMatch(ctx context.Context, title string) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", title)
	params.Set("limit", "1")
	params.Set("fields", c.fields)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("search service returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode search response: %w", err)
	}

	return len(body.Data) > 0, nil
}
