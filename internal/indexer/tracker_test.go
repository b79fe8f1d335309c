package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/taxonomy"
	"github.com/nursenav/listings-be/shared/logger"
)

type submittedBatch struct {
	urls   []string
	intent Intent
}

// fakeNotifier records every Submit call and pops errors off a script, one
// per call, so tests can stage 429s and hard failures.
type fakeNotifier struct {
	batches []submittedBatch
	errs    []error
}

func (n *fakeNotifier) Submit(_ context.Context, urls []string, intent Intent) error {
	n.batches = append(n.batches, submittedBatch{urls: append([]string(nil), urls...), intent: intent})
	if len(n.errs) == 0 {
		return nil
	}
	err := n.errs[0]
	n.errs = n.errs[1:]
	return err
}

type memFingerprintStore struct {
	data map[string]string
}

func newMemFingerprintStore() *memFingerprintStore {
	return &memFingerprintStore{data: make(map[string]string)}
}

func (s *memFingerprintStore) Load(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

func (s *memFingerprintStore) Apply(_ context.Context, set map[string]string, remove []string) error {
	for k, v := range set {
		s.data[k] = v
	}
	for _, k := range remove {
		delete(s.data, k)
	}
	return nil
}

type fakePublisher struct {
	bodies [][]byte
}

func (p *fakePublisher) PublishWithRetry(_ context.Context, body []byte, _ string) error {
	p.bodies = append(p.bodies, append([]byte(nil), body...))
	return nil
}

func newTestTracker(t *testing.T, store *fakeEnumStore, notifier Notifier, fps FingerprintStore, events EventPublisher, cfg Config) *Tracker {
	t.Helper()
	reg, err := taxonomy.Default()
	require.NoError(t, err)
	enum := NewEnumerator(store, reg, "https://www.nursenav.com")
	tr := NewTracker(enum, fps, notifier, events, cfg, logger.NewDefault())
	tr.sleep = func(context.Context, time.Duration) error { return nil }
	return tr
}

func stateStore(counts map[string]int) *fakeEnumStore {
	newest := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.RawCount, 0, len(counts))
	for code, count := range counts {
		rows = append(rows, model.RawCount{Value: code, Count: count, Newest: newest})
	}
	return &fakeEnumStore{grouped: map[string][]model.RawCount{"state": rows}}
}

func TestTracker_Run_FirstRunSubmitsEverything(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3, "TX": 2})
	notifier := &fakeNotifier{}
	fps := newMemFingerprintStore()

	tr := newTestTracker(t, store, notifier, fps, nil, Config{BatchSize: 50})
	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	// home + 2 state pages, all unseen.
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 3, summary.Changed)
	assert.Zero(t, summary.Removed)
	assert.Equal(t, 3, summary.Submitted)
	assert.Empty(t, summary.FailedURLs)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, notifier.batches, 1)
	assert.Equal(t, IntentUpdated, notifier.batches[0].intent)
	assert.Len(t, fps.data, 3)
}

func TestTracker_Run_UnchangedPagesSkipped(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3})
	fps := newMemFingerprintStore()

	tr := newTestTracker(t, store, &fakeNotifier{}, fps, nil, Config{})
	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	// Second run over identical data: nothing to submit.
	notifier := &fakeNotifier{}
	tr2 := newTestTracker(t, store, notifier, fps, nil, Config{})
	summary, err := tr2.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Changed)
	assert.Zero(t, summary.Submitted)
	assert.Empty(t, notifier.batches)
}

func TestTracker_Run_CountChangeResubmits(t *testing.T) {
	fps := newMemFingerprintStore()
	tr := newTestTracker(t, stateStore(map[string]int{"NC": 3}), &fakeNotifier{}, fps, nil, Config{})
	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	// NC gains a job: its state page and the home page both change.
	notifier := &fakeNotifier{}
	tr2 := newTestTracker(t, stateStore(map[string]int{"NC": 4}), notifier, fps, nil, Config{})
	summary, err := tr2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Changed)
	require.Len(t, notifier.batches, 1)
	assert.ElementsMatch(t, []string{
		"https://www.nursenav.com/nursing-jobs",
		"https://www.nursenav.com/nursing-jobs/north-carolina",
	}, notifier.batches[0].urls)
}

func TestTracker_Run_RemovedPagesGetDeletionNotice(t *testing.T) {
	fps := newMemFingerprintStore()
	tr := newTestTracker(t, stateStore(map[string]int{"NC": 3, "TX": 2}), &fakeNotifier{}, fps, nil, Config{})
	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	// TX loses its last job: the TX page drops out, home and NC unchanged? No:
	// home count changes too, so expect one update batch and one delete batch.
	notifier := &fakeNotifier{}
	tr2 := newTestTracker(t, stateStore(map[string]int{"NC": 3}), notifier, fps, nil, Config{})
	summary, err := tr2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Removed)
	require.Len(t, notifier.batches, 2)
	assert.Equal(t, IntentUpdated, notifier.batches[0].intent)
	assert.Equal(t, IntentDeleted, notifier.batches[1].intent)
	assert.Equal(t, []string{"https://www.nursenav.com/nursing-jobs/texas"}, notifier.batches[1].urls)

	// The deleted URL leaves the fingerprint store.
	assert.NotContains(t, fps.data, "https://www.nursenav.com/nursing-jobs/texas")
}

func TestTracker_Run_BatchesCapped(t *testing.T) {
	counts := make(map[string]int, 51)
	for _, s := range taxonomy.States() {
		counts[s.Code] = 1
	}
	notifier := &fakeNotifier{}

	// 51 state pages + home = 52 URLs at batch size 50 -> two batches.
	tr := newTestTracker(t, stateStore(counts), notifier, newMemFingerprintStore(), nil, Config{BatchSize: 50})
	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 52, summary.Submitted)
	require.Len(t, notifier.batches, 2)
	assert.Len(t, notifier.batches[0].urls, 50)
	assert.Len(t, notifier.batches[1].urls, 2)
}

func TestNewTracker_ClampsBatchSize(t *testing.T) {
	reg, err := taxonomy.Default()
	require.NoError(t, err)
	enum := NewEnumerator(&fakeEnumStore{}, reg, "https://x")

	tr := NewTracker(enum, newMemFingerprintStore(), &fakeNotifier{}, nil, Config{BatchSize: 500}, logger.NewDefault())
	assert.Equal(t, 50, tr.cfg.BatchSize)

	tr = NewTracker(enum, newMemFingerprintStore(), &fakeNotifier{}, nil, Config{}, logger.NewDefault())
	assert.Equal(t, 50, tr.cfg.BatchSize)
}

func TestTracker_Run_RateLimitRetriesSameBatch(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3})
	notifier := &fakeNotifier{errs: []error{ErrRateLimited, ErrRateLimited}}
	fps := newMemFingerprintStore()

	var slept []time.Duration
	tr := newTestTracker(t, store, notifier, fps, nil, Config{RateLimitBackoff: 30 * time.Second})
	tr.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	// Two 429s, then success: three Submit calls, all with the same batch.
	require.Len(t, notifier.batches, 3)
	assert.Equal(t, notifier.batches[0].urls, notifier.batches[1].urls)
	assert.Equal(t, notifier.batches[1].urls, notifier.batches[2].urls)
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, slept)
	assert.Equal(t, 2, summary.Submitted)
	assert.Empty(t, summary.FailedURLs)
}

func TestTracker_Run_RateLimitExhaustionFailsBatch(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3})
	notifier := &fakeNotifier{errs: []error{ErrRateLimited, ErrRateLimited, ErrRateLimited}}
	fps := newMemFingerprintStore()

	tr := newTestTracker(t, store, notifier, fps, nil, Config{RateLimitRetries: 2})
	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Submitted)
	assert.Len(t, summary.FailedURLs, 2)
	// Nothing recorded: the whole batch retries next run.
	assert.Empty(t, fps.data)
}

func TestTracker_Run_HardFailureSkipsBatchAndContinues(t *testing.T) {
	counts := make(map[string]int)
	for _, s := range taxonomy.States()[:10] {
		counts[s.Code] = 1
	}
	store := stateStore(counts)
	// First batch of 5 fails outright, the rest succeed.
	notifier := &fakeNotifier{errs: []error{errors.New("boom")}}
	fps := newMemFingerprintStore()

	tr := newTestTracker(t, store, notifier, fps, nil, Config{BatchSize: 5})
	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	// 11 pages total (10 states + home): one failed batch of 5, 6 submitted.
	assert.Equal(t, 11, summary.Pages)
	assert.Len(t, summary.FailedURLs, 5)
	assert.Equal(t, 6, summary.Submitted)
	// Only successful batches are recorded.
	assert.Len(t, fps.data, 6)
}

func TestTracker_Run_PublishesEventsAndSummary(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3})
	events := &fakePublisher{}
	tr := newTestTracker(t, store, &fakeNotifier{}, newMemFingerprintStore(), events, Config{})

	summary, err := tr.Run(context.Background())
	require.NoError(t, err)

	// One change event for the updated batch plus the run summary.
	require.Len(t, events.bodies, 2)

	var event changeEvent
	require.NoError(t, json.Unmarshal(events.bodies[0], &event))
	assert.Equal(t, summary.RunID, event.RunID)
	assert.Equal(t, IntentUpdated, event.Intent)
	assert.Len(t, event.URLs, 2)

	var published RunSummary
	require.NoError(t, json.Unmarshal(events.bodies[1], &published))
	assert.Equal(t, summary.RunID, published.RunID)
	assert.Equal(t, summary.Submitted, published.Submitted)
}

func TestTracker_Run_ContextCancellationAborts(t *testing.T) {
	store := stateStore(map[string]int{"NC": 3, "TX": 2})
	notifier := &fakeNotifier{errs: []error{ErrRateLimited}}
	tr := newTestTracker(t, store, notifier, newMemFingerprintStore(), nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	tr.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := tr.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
