package leads

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wolfman30/realestate-site/internal/observability/metrics"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

type stubSubmitter struct {
	mu    sync.Mutex
	err   error
	calls int
	last  url.Values
}

func (s *stubSubmitter) Submit(_ context.Context, _ string, form url.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = form
	return s.err
}

type failingStore struct{ *MemoryStore }

func (failingStore) Append(context.Context, *Lead) error { return errors.New("disk full") }

type recordingNotifier struct {
	mu    sync.Mutex
	leads []*Lead
	err   error
}

func (n *recordingNotifier) NotifyNewLead(_ context.Context, lead *Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return n.err
}

func newTestPipeline(t *testing.T, endpoint string, store LogStore, submitter Submitter) *Pipeline {
	t.Helper()
	enc, err := NewNetlifyEncoder(endpoint, "contact")
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	if submitter == nil {
		submitter = NewHTTPSubmitter(nil, time.Second, logging.Discard())
	}
	p, err := NewPipeline(PipelineConfig{
		Encoder:       enc,
		Submitter:     submitter,
		Store:         store,
		Logger:        logging.Discard(),
		DefaultSource: "Contact form",
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return p
}

func recordStates(sub *Submission) *[]State {
	var seen []State
	sub.OnTransition(func(_, to State) { seen = append(seen, to) })
	return &seen
}

func TestPipelineReachableEndpointLogsOnce(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	p := newTestPipeline(t, srv.URL, store, nil)
	sub := NewSubmission()
	seen := recordStates(sub)

	ctx := context.Background()
	before, _ := store.Len(ctx)
	outcome := p.Process(ctx, sub, validInput())
	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	after, _ := store.Len(ctx)

	if after != before+1 {
		t.Fatalf("expected log to grow by one, got %d -> %d", before, after)
	}
	if posts.Load() != 1 {
		t.Fatalf("expected exactly one post, got %d", posts.Load())
	}
	if got := *seen; len(got) != 2 || got[0] != StateLoading || got[1] != StateSuccess {
		t.Fatalf("expected idle -> loading -> success, got %v", got)
	}
	if outcome.Lead.ID == "" || outcome.Lead.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp on logged lead, got %+v", outcome.Lead)
	}
	if outcome.Lead.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp")
	}
}

func TestPipelineUnreachableEndpointLeavesLog(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	store := NewMemoryStore()
	p := newTestPipeline(t, endpoint, store, nil)
	sub := NewSubmission()
	seen := recordStates(sub)

	outcome := p.Process(context.Background(), sub, validInput())
	if !errors.Is(outcome.Err, ErrSubmitFailed) {
		t.Fatalf("expected ErrSubmitFailed, got %v", outcome.Err)
	}
	if outcome.State != StateError {
		t.Fatalf("expected error state, got %s", outcome.State)
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatalf("expected empty log, got %d", n)
	}
	if got := *seen; len(got) != 2 || got[0] != StateLoading || got[1] != StateError {
		t.Fatalf("expected idle -> loading -> error, got %v", got)
	}
}

func TestPipelineRejectedPostLeavesLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	p := newTestPipeline(t, srv.URL, store, nil)
	outcome := p.Process(context.Background(), NewSubmission(), validInput())

	var statusErr *StatusError
	if !errors.As(outcome.Err, &statusErr) || statusErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected wrapped StatusError, got %v", outcome.Err)
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatalf("expected empty log, got %d", n)
	}
}

func TestPipelineRetryAfterError(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("offline")}
	store := NewMemoryStore()
	p := newTestPipeline(t, "https://example.com/", store, submitter)
	sub := NewSubmission()

	result := Validate(validInput(), "Contact form")
	if err := p.Submit(context.Background(), sub, result.Lead); !errors.Is(err, ErrSubmitFailed) {
		t.Fatalf("expected ErrSubmitFailed, got %v", err)
	}

	submitter.err = nil
	if err := p.Submit(context.Background(), sub, result.Lead); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if sub.State() != StateSuccess {
		t.Fatalf("expected success, got %s", sub.State())
	}
	if err := p.Submit(context.Background(), sub, result.Lead); !errors.Is(err, ErrSubmissionComplete) {
		t.Fatalf("expected ErrSubmissionComplete, got %v", err)
	}
	if submitter.calls != 2 {
		t.Fatalf("expected two posts, got %d", submitter.calls)
	}
	if n, _ := store.Len(context.Background()); n != 1 {
		t.Fatalf("expected one logged lead, got %d", n)
	}
}

func TestPipelineLogFailureIsDistinct(t *testing.T) {
	submitter := &stubSubmitter{}
	p := newTestPipeline(t, "https://example.com/", failingStore{NewMemoryStore()}, submitter)
	outcome := p.Process(context.Background(), NewSubmission(), validInput())

	if !errors.Is(outcome.Err, ErrLogWriteFailed) {
		t.Fatalf("expected ErrLogWriteFailed, got %v", outcome.Err)
	}
	if errors.Is(outcome.Err, ErrSubmitFailed) {
		t.Fatal("log failure must not look like a submit failure")
	}
	if submitter.calls != 1 {
		t.Fatalf("expected backend post before log write, got %d calls", submitter.calls)
	}
	if outcome.State != StateError {
		t.Fatalf("expected error state, got %s", outcome.State)
	}
}

func TestPipelineInvalidInputDoesNotTransition(t *testing.T) {
	submitter := &stubSubmitter{}
	p := newTestPipeline(t, "https://example.com/", NewMemoryStore(), submitter)
	sub := NewSubmission()
	seen := recordStates(sub)

	in := validInput()
	in.Email = "nope"
	outcome := p.Process(context.Background(), sub, in)

	if !errors.Is(outcome.Err, ErrInvalidLead) {
		t.Fatalf("expected ErrInvalidLead, got %v", outcome.Err)
	}
	if len(outcome.Errors) != 1 || outcome.Errors[0].Field != FieldEmail {
		t.Fatalf("expected email error, got %v", outcome.Errors)
	}
	if sub.State() != StateIdle || len(*seen) != 0 {
		t.Fatalf("expected submission to stay idle, got %s %v", sub.State(), *seen)
	}
	if submitter.calls != 0 {
		t.Fatal("invalid input must not be posted")
	}
}

func TestPipelineHoneypotSilentlySucceeds(t *testing.T) {
	submitter := &stubSubmitter{}
	store := NewMemoryStore()
	reg := prometheus.NewRegistry()
	m := metrics.NewLeadMetrics(reg)

	enc, _ := NewNetlifyEncoder("https://example.com/", "contact")
	p, err := NewPipeline(PipelineConfig{
		Encoder:   enc,
		Submitter: submitter,
		Store:     store,
		Metrics:   m,
		Logger:    logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}

	in := validInput()
	in.BotField = "http://spam.example"
	outcome := p.Process(context.Background(), NewSubmission(), in)

	if outcome.Err != nil || outcome.State != StateSuccess || !outcome.Spam {
		t.Fatalf("expected silent success, got %+v", outcome)
	}
	if submitter.calls != 0 {
		t.Fatal("spam must not be posted")
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Fatal("spam must not be logged")
	}
	want := `
# HELP realestate_leads_honeypot_dropped_total Submissions dropped because the honeypot field was filled
# TYPE realestate_leads_honeypot_dropped_total counter
realestate_leads_honeypot_dropped_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "realestate_leads_honeypot_dropped_total"); err != nil {
		t.Fatalf("unexpected spam metric: %v", err)
	}
}

func TestPipelineNotifiesAfterLogging(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	enc, _ := NewNetlifyEncoder("https://example.com/", "contact")
	store := NewMemoryStore()
	p, err := NewPipeline(PipelineConfig{
		Encoder:   enc,
		Submitter: &stubSubmitter{},
		Store:     store,
		Notifier:  notifier,
		Logger:    logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}

	outcome := p.Process(context.Background(), NewSubmission(), validInput())
	if outcome.Err != nil {
		t.Fatalf("notification failure must not fail the submission: %v", outcome.Err)
	}
	if len(notifier.leads) != 1 || notifier.leads[0].ID != outcome.Lead.ID {
		t.Fatalf("expected notifier to receive the logged lead, got %v", notifier.leads)
	}
}

func TestPipelineTimestampsNeverGoBackwards(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}
	var i int
	enc, _ := NewNetlifyEncoder("https://example.com/", "contact")
	store := NewMemoryStore()
	p, err := NewPipeline(PipelineConfig{
		Encoder:   enc,
		Submitter: &stubSubmitter{},
		Store:     store,
		Logger:    logging.Discard(),
		Clock: func() time.Time {
			now := ticks[i]
			i++
			return now
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	for range ticks {
		if out := p.Process(context.Background(), NewSubmission(), validInput()); out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
	}
	list, _ := store.List(context.Background())
	for j := 1; j < len(list); j++ {
		if list[j].Timestamp.Before(list[j-1].Timestamp) {
			t.Fatalf("timestamp %d went backwards: %v < %v", j, list[j].Timestamp, list[j-1].Timestamp)
		}
	}
	if !list[1].Timestamp.Equal(base) {
		t.Fatalf("expected clamped timestamp %v, got %v", base, list[1].Timestamp)
	}
}

func TestPipelineConcurrentSubmissionsAllLogged(t *testing.T) {
	store := NewMemoryStore()
	p := newTestPipeline(t, "https://example.com/", store, &stubSubmitter{})

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Process(context.Background(), NewSubmission(), validInput())
		}()
	}
	wg.Wait()

	if got, _ := store.Len(context.Background()); got != n {
		t.Fatalf("expected %d leads, got %d", n, got)
	}
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	enc, _ := NewNetlifyEncoder("https://example.com/", "contact")
	cases := []PipelineConfig{
		{Submitter: &stubSubmitter{}, Store: NewMemoryStore()},
		{Encoder: enc, Store: NewMemoryStore()},
		{Encoder: enc, Submitter: &stubSubmitter{}},
	}
	for _, cfg := range cases {
		if _, err := NewPipeline(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
