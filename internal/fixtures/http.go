package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
	"github.com/tidwall/gjson"
)

// ErrProbe marks a failed check against a running service.
var ErrProbe = errors.New("service probe failed")

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request and returns the status and body.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Probe checks that the service at baseURL is healthy and serves want.
// The service must have been (re)loaded from the written file.
func Probe(ctx context.Context, baseURL string, timeout time.Duration, want repository.Dataset) error {
	client := newHTTPClient(timeout)

	status, _, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: failed to connect: %w", ErrProbe, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: health check status %d", ErrProbe, status)
	}

	var errs []error
	for _, ch := range model.Channels() {
		q := url.Values{"type": {ch.String()}}
		status, body, err := client.Get(ctx, baseURL+"/api/leaderboard?"+q.Encode())
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrProbe, ch, err))
			continue
		}
		if status != http.StatusOK {
			errs = append(errs, fmt.Errorf("%w: %s status %d", ErrProbe, ch, status))
			continue
		}
		page := gjson.ParseBytes(body)
		if got := int(page.Get("player_count").Int()); got != len(want[ch]) {
			errs = append(errs, fmt.Errorf("%w: %s serves %d players, want %d", ErrProbe, ch, got, len(want[ch])))
			continue
		}
		if len(want[ch]) > 0 {
			if top := page.Get("rows.0.id").String(); top != want[ch][0].ID {
				errs = append(errs, fmt.Errorf("%w: %s top player %q, want %q", ErrProbe, ch, top, want[ch][0].ID))
			}
		}
		logger.Get().Info(ctx, "probed leaderboard",
			logger.String("channel", ch.String()),
			logger.Int("players", len(want[ch])),
			logger.Int("rendered", int(page.Get("rows.#").Int())),
		)
	}
	return errors.Join(errs...)
}
