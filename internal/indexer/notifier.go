package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Intent tells the push API what happened to a batch of URLs.
type Intent string

const (
	// IntentUpdated covers created and updated pages alike.
	IntentUpdated Intent = "URL_UPDATED"
	// IntentDeleted marks pages that dropped out of the generated set.
	IntentDeleted Intent = "URL_DELETED"
)

// ErrRateLimited is returned when the push API answers with a 429-class
// response; the tracker backs off and retries the same batch.
var ErrRateLimited = errors.New("push endpoint rate limited")

// Notifier submits URL batches to the external search-index push API.
type Notifier interface {
	Submit(ctx context.Context, urls []string, intent Intent) error
}

// HTTPNotifier is the production Notifier, talking to the push endpoint over
// HTTP.
type HTTPNotifier struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	logger   *slog.Logger
}

// NewHTTPNotifier builds an HTTPNotifier against the given endpoint.
func NewHTTPNotifier(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &HTTPNotifier{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger,
	}
}

type pushRequest struct {
	Key  string   `json:"key,omitempty"`
	Type string   `json:"type"`
	URLs []string `json:"urlList"`
}

// Submit posts one batch. A 429 response maps to ErrRateLimited; every other
// non-2xx response is a plain error the tracker records as a batch failure.
func (n *HTTPNotifier) Submit(ctx context.Context, urls []string, intent Intent) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(pushRequest{Key: n.apiKey, Type: string(intent), URLs: urls}).
		Post(n.endpoint)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.IsError():
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode())
	}

	n.logger.Debug("Batch submitted to push endpoint",
		slog.Int("urls", len(urls)),
		slog.String("intent", string(intent)),
	)
	return nil
}
