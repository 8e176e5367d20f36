package leads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/realestate-site/internal/observability/metrics"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

// Notifier is told about every lead that was accepted and logged.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead) error
}

// PipelineConfig wires a Pipeline.
type PipelineConfig struct {
	Encoder       FormEncoder
	Submitter     Submitter
	Store         LogStore
	StoreBackend  string
	Notifier      Notifier
	Metrics       *metrics.LeadMetrics
	Logger        *logging.Logger
	DefaultSource string
	Clock         func() time.Time
	// SessionTTL bounds how long a form token keeps its submission.
	SessionTTL time.Duration
}

// Pipeline validates, posts and logs contact form submissions.
type Pipeline struct {
	encoder       FormEncoder
	submitter     Submitter
	store         LogStore
	backend       string
	notifier      Notifier
	metrics       *metrics.LeadMetrics
	logger        *logging.Logger
	defaultSource string
	clock         func() time.Time
	sessions      *Sessions

	clockMu   sync.Mutex
	lastStamp time.Time
}

// NewPipeline validates cfg and builds a pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Encoder == nil {
		return nil, errors.New("leads: pipeline encoder required")
	}
	if cfg.Submitter == nil {
		return nil, errors.New("leads: pipeline submitter required")
	}
	if cfg.Store == nil {
		return nil, errors.New("leads: pipeline store required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendMemory
	}
	return &Pipeline{
		encoder:       cfg.Encoder,
		submitter:     cfg.Submitter,
		store:         cfg.Store,
		backend:       cfg.StoreBackend,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		defaultSource: cfg.DefaultSource,
		clock:         cfg.Clock,
		sessions:      NewSessions(cfg.SessionTTL),
	}, nil
}

// Outcome is what a caller gets back from Process.
type Outcome struct {
	State  State
	Lead   *Lead
	Errors []FieldError
	Spam   bool
	Err    error
}

// Submission returns the submission tracked for a form token. Requests
// carrying the same token share one state machine.
func (p *Pipeline) Submission(token string) *Submission {
	return p.sessions.Submission(token)
}

// Process runs one contact form payload through the pipeline: honeypot
// check, validation, then Submit. Invalid input never changes sub.
func (p *Pipeline) Process(ctx context.Context, sub *Submission, in FormInput) Outcome {
	if in.IsSpam() {
		p.metrics.ObserveSpam()
		p.logger.Info("honeypot filled, dropping submission")
		// Bots get the same answer as people.
		if err := sub.begin(); err != nil {
			return Outcome{State: sub.State(), Spam: true, Err: err}
		}
		sub.succeed()
		return Outcome{State: StateSuccess, Spam: true}
	}

	result := Validate(in, p.defaultSource)
	if !result.Valid() {
		p.metrics.ObserveSubmission("invalid")
		return Outcome{State: sub.State(), Errors: result.Errors, Err: result.Err()}
	}

	lead := result.Lead
	err := p.Submit(ctx, sub, lead)
	return Outcome{State: sub.State(), Lead: lead, Err: err}
}

// Submit posts a validated lead and, once the backend accepts it, appends it
// to the lead log. sub moves idle/error -> loading -> success|error.
func (p *Pipeline) Submit(ctx context.Context, sub *Submission, lead *Lead) error {
	if lead == nil {
		return fmt.Errorf("%w: nil lead", ErrInvalidLead)
	}
	if err := sub.begin(); err != nil {
		return err
	}

	start := time.Now()
	err := p.submitter.Submit(ctx, p.encoder.Endpoint(), p.encoder.Encode(lead))
	p.metrics.ObservePostLatency(err == nil, time.Since(start).Seconds())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		p.metrics.ObserveSubmission("submit_failed")
		p.logger.Error("lead submission failed", "error", err, "endpoint", p.encoder.Endpoint())
		sub.fail(err)
		return err
	}

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	lead.Timestamp = p.stamp()

	if err := p.store.Append(ctx, lead); err != nil {
		p.metrics.ObserveAppend(p.backend, false)
		p.metrics.ObserveSubmission("log_failed")
		err = fmt.Errorf("%w: %w", ErrLogWriteFailed, err)
		p.logger.Error("lead accepted by backend but not logged", "error", err, "id", lead.ID, "backend", p.backend)
		sub.fail(err)
		return err
	}
	p.metrics.ObserveAppend(p.backend, true)
	p.metrics.ObserveSubmission("success")
	p.logger.Info("lead captured", "id", lead.ID, "service", lead.Service, "source", lead.Source)
	sub.succeed()

	if p.notifier != nil {
		if err := p.notifier.NotifyNewLead(ctx, lead); err != nil {
			p.logger.Warn("lead notification failed", "error", err, "id", lead.ID)
		}
	}
	return nil
}

// stamp returns the capture time, never earlier than the previous one.
func (p *Pipeline) stamp() time.Time {
	p.clockMu.Lock()
	defer p.clockMu.Unlock()
	now := p.clock().UTC()
	now = notBefore(now, p.lastStamp)
	p.lastStamp = now
	return now
}
