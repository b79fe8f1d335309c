package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// EventPublisher fans successful submissions out to interested consumers.
// The shared rabbitmq client satisfies it; a nil publisher disables fan-out.
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Config tunes one Tracker.
type Config struct {
	BatchSize        int           // URLs per push batch, capped at 50 by the API
	BatchDelay       time.Duration // pause between batches (push API rate limit)
	RateLimitBackoff time.Duration // wait after a 429 before retrying the batch
	RateLimitRetries int           // retries of one batch across 429 responses
}

// RunSummary reports the outcome of one tracker run. Partial success is
// normal: failed URLs stay unrecorded and are retried next run.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Pages      int           `json:"pages"`
	Changed    int           `json:"changed"`
	Removed    int           `json:"removed"`
	Submitted  int           `json:"submitted"`
	FailedURLs []string      `json:"failed_urls,omitempty"`
	Duration   time.Duration `json:"duration"`
}

type changeEvent struct {
	RunID  string   `json:"run_id"`
	Intent Intent   `json:"intent"`
	URLs   []string `json:"urls"`
}

// Tracker detects which generated pages changed since the last run and
// notifies the external index push API in rate-limited batches. It is meant
// to run as a single scheduled instance; runs are not concurrent with
// themselves.
type Tracker struct {
	enum     *Enumerator
	fps      FingerprintStore
	notifier Notifier
	events   EventPublisher
	cfg      Config
	logger   *slog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTracker wires a Tracker. events may be nil.
func NewTracker(enum *Enumerator, fps FingerprintStore, notifier Notifier, events EventPublisher, cfg Config, logger *slog.Logger) *Tracker {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 50 {
		cfg.BatchSize = 50
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = 30 * time.Second
	}
	if cfg.RateLimitRetries <= 0 {
		cfg.RateLimitRetries = 3
	}
	return &Tracker{
		enum:     enum,
		fps:      fps,
		notifier: notifier,
		events:   events,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes one full tracking pass.
func (t *Tracker) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.New().String()}

	t.logger.Info("Fingerprint run started",
		slog.String("run_id", summary.RunID),
	)

	previous, err := t.fps.Load(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := t.enum.Pages(ctx)
	if err != nil {
		return nil, err
	}
	summary.Pages = len(pages)

	current := make(map[string]string, len(pages))
	var changed []string
	for _, page := range pages {
		fp := page.Fingerprint()
		current[page.URL] = fp
		if previous[page.URL] != fp {
			changed = append(changed, page.URL)
		}
	}

	var removed []string
	for url := range previous {
		if _, ok := current[url]; !ok {
			removed = append(removed, url)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)
	summary.Changed = len(changed)
	summary.Removed = len(removed)

	t.logger.Info("Fingerprint diff computed",
		slog.String("run_id", summary.RunID),
		slog.Int("pages", summary.Pages),
		slog.Int("changed", summary.Changed),
		slog.Int("removed", summary.Removed),
	)

	if err := t.submitAll(ctx, summary, changed, current, IntentUpdated); err != nil {
		return summary, err
	}
	if err := t.submitAll(ctx, summary, removed, nil, IntentDeleted); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(start)
	t.publishSummary(ctx, summary)

	t.logger.Info("Fingerprint run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("submitted", summary.Submitted),
		slog.Int("failed", len(summary.FailedURLs)),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// submitAll walks urls in batches. A failed batch is recorded and skipped;
// only context cancellation aborts the run. Fingerprints are persisted right
// after each successful batch so a crash cannot forget what was already
// submitted.
func (t *Tracker) submitAll(ctx context.Context, summary *RunSummary, urls []string, fingerprints map[string]string, intent Intent) error {
	for i := 0; i < len(urls); i += t.cfg.BatchSize {
		end := i + t.cfg.BatchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[i:end]

		if i > 0 {
			if err := t.sleep(ctx, t.cfg.BatchDelay); err != nil {
				return err
			}
		}

		if err := t.submitBatch(ctx, batch, intent); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Error("Batch submission failed, continuing",
				slog.String("run_id", summary.RunID),
				slog.String("intent", string(intent)),
				slog.Int("urls", len(batch)),
				slog.Any("error", err),
			)
			summary.FailedURLs = append(summary.FailedURLs, batch...)
			continue
		}

		if err := t.record(ctx, batch, fingerprints, intent); err != nil {
			// The push API already accepted the batch; losing the record
			// only means a redundant resubmission next run.
			t.logger.Warn("Failed to persist fingerprints for batch",
				slog.String("run_id", summary.RunID),
				slog.Any("error", err),
			)
		}
		summary.Submitted += len(batch)
		t.publishEvent(ctx, summary.RunID, batch, intent)
	}
	return nil
}

func (t *Tracker) submitBatch(ctx context.Context, batch []string, intent Intent) error {
	for attempt := 0; ; attempt++ {
		err := t.notifier.Submit(ctx, batch, intent)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt >= t.cfg.RateLimitRetries {
			return err
		}
		t.logger.Warn("Push endpoint rate limited, backing off",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", t.cfg.RateLimitBackoff),
		)
		if err := t.sleep(ctx, t.cfg.RateLimitBackoff); err != nil {
			return err
		}
	}
}

func (t *Tracker) record(ctx context.Context, batch []string, fingerprints map[string]string, intent Intent) error {
	if intent == IntentDeleted {
		return t.fps.Apply(ctx, nil, batch)
	}
	set := make(map[string]string, len(batch))
	for _, url := range batch {
		set[url] = fingerprints[url]
	}
	return t.fps.Apply(ctx, set, nil)
}

func (t *Tracker) publishEvent(ctx context.Context, runID string, batch []string, intent Intent) {
	if t.events == nil {
		return
	}
	body, err := json.Marshal(changeEvent{RunID: runID, Intent: intent, URLs: batch})
	if err != nil {
		return
	}
	if err := t.events.PublishWithRetry(ctx, body, "application/json"); err != nil {
		t.logger.Warn("Failed to publish change event",
			slog.Any("error", err),
		)
	}
}

func (t *Tracker) publishSummary(ctx context.Context, summary *RunSummary) {
	if t.events == nil {
		return
	}
	body, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := t.events.PublishWithRetry(ctx, body, "application/json"); err != nil {
		t.logger.Warn("Failed to publish run summary",
			slog.Any("error", err),
		)
	}
}
