package recording

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/event"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/observability"
	"github.com/kbukum/voicedoc/settings"
)

// Capturer records audio between Start and Stop.
type Capturer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*audio.Payload, error)
	Chunks() int
}

// Transcriber turns a payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, payload *audio.Payload, apiKey string) (string, error)
}

// Deliverer forwards a transcript to a webhook.
type Deliverer interface {
	Deliver(ctx context.Context, webhookURL, transcript string, capturedAt time.Time) error
}

// ConfigSource provides the saved configuration.
type ConfigSource interface {
	Require() (settings.Configuration, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracer sets the tracer for the transcribe and deliver spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithMeter sets the meter for the outcome counters.
func WithMeter(m metric.Meter) Option {
	return func(p *Pipeline) { p.meter = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline runs the record, transcribe, deliver cycle as a state machine:
//
//	Idle -start-> Recording -stop-> Processing(transcribing)
//	  -> Processing(delivering) -> Done(success|failure) -reset-> Idle
//
// A failed start stays Idle. A failed transcription goes straight to
// Done(failure). Any other request is rejected with INVALID_STATE and
// changes nothing.
//
// Subscribers are called in transition order, on the goroutine that caused
// the transition. They must not call Start, Stop or Reset synchronously.
type Pipeline struct {
	capturer    Capturer
	transcriber Transcriber
	deliverer   Deliverer
	configs     ConfigSource
	log         *logger.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	metrics     *instruments
	now         func() time.Time
	bus         *event.Bus[Snapshot]

	mu       sync.Mutex
	pubMu    sync.Mutex
	snap     Snapshot
	starting bool
	cfg      settings.Configuration
	inflight sync.WaitGroup
}

// New creates an idle pipeline.
func New(c Capturer, t Transcriber, d Deliverer, configs ConfigSource, log *logger.Logger, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		capturer:    c,
		transcriber: t,
		deliverer:   d,
		configs:     configs,
		log:         log.WithComponent("recording"),
		tracer:      observability.Tracer(),
		meter:       observability.Meter(),
		now:         time.Now,
		bus:         event.NewBus[Snapshot](),
	}
	for _, opt := range opts {
		opt(p)
	}
	m, err := newInstruments(p.meter)
	if err != nil {
		return nil, err
	}
	p.metrics = m
	p.snap = Snapshot{State: Idle, UpdatedAt: p.now().UTC()}
	return p, nil
}

// Snapshot returns the current state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snap.clone()
	if s.State == Recording {
		s.Chunks = p.capturer.Chunks()
	}
	return s
}

// Subscribe registers fn for every subsequent transition.
func (p *Pipeline) Subscribe(fn func(Snapshot)) *event.Subscription {
	return p.bus.Subscribe(fn)
}

// Start opens the microphone and moves Idle to Recording. It requires a
// saved configuration. On failure the pipeline stays Idle and the error is
// both returned and published.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if err := p.guard("start recording", Idle); err != nil {
		p.mu.Unlock()
		return err
	}
	cfg, err := p.configs.Require()
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.starting = true
	p.mu.Unlock()

	startErr := p.capturer.Start(ctx)

	p.mu.Lock()
	p.starting = false
	if startErr != nil {
		p.snap.Error = message(startErr)
		p.log.Warn("recording not started", logger.ErrorFields("start", startErr))
		p.publishLocked()
		return startErr
	}

	now := p.now().UTC()
	p.cfg = cfg
	p.snap = Snapshot{
		CycleID:   uuid.NewString(),
		State:     Recording,
		StartedAt: &now,
		UpdatedAt: now,
	}
	p.log.Info("recording started", logger.Fields(logger.FieldCycleID, p.snap.CycleID))
	p.publishLocked()
	return nil
}

// Stop ends the recording and starts processing. The returned channel
// receives the terminal snapshot once transcription and delivery settle.
// Processing does not observe ctx cancellation.
func (p *Pipeline) Stop(ctx context.Context) (<-chan Snapshot, error) {
	p.mu.Lock()
	if err := p.guard("stop recording", Recording); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.snap.State = Processing
	p.snap.Phase = PhaseTranscribing
	p.snap.Chunks = p.capturer.Chunks()
	p.snap.UpdatedAt = p.now().UTC()
	cycleID, cfg := p.snap.CycleID, p.cfg
	p.inflight.Add(1)
	p.publishLocked()

	result := make(chan Snapshot, 1)
	go func() {
		defer p.inflight.Done()
		result <- p.process(context.WithoutCancel(ctx), cycleID, cfg)
		close(result)
	}()
	return result, nil
}

// Reset clears a finished cycle and returns to Idle.
func (p *Pipeline) Reset() error {
	p.mu.Lock()
	if err := p.guard("reset", Done); err != nil {
		p.mu.Unlock()
		return err
	}
	p.log.Info("recording reset", logger.Fields(logger.FieldCycleID, p.snap.CycleID))
	p.cfg = settings.Configuration{}
	p.snap = Snapshot{State: Idle, UpdatedAt: p.now().UTC()}
	p.publishLocked()
	return nil
}

// Wait blocks until in-flight processing settles or ctx is done.
func (p *Pipeline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) process(ctx context.Context, cycleID string, cfg settings.Configuration) Snapshot {
	log := p.log.WithFields(logger.Fields(logger.FieldCycleID, cycleID))
	cycleAttr := attribute.String(observability.AttrCycleID, cycleID)

	payload, err := p.capturer.Stop(ctx)
	if err != nil {
		log.Warn("capture failed", logger.ErrorFields("stop", err))
		return p.fail(ctx, MessageTranscriptionFailed, nil)
	}

	p.mu.Lock()
	p.snap.Chunks = payload.Chunks
	p.mu.Unlock()
	capturedAt := payload.CapturedAt

	spanCtx, op := observability.StartOperation(ctx, p.tracer, observability.SpanTranscribe,
		cycleAttr, attribute.Int(observability.AttrBytes, payload.Size()))
	text, err := p.transcriber.Transcribe(spanCtx, payload, cfg.TranscriptionAPIKey)
	count(ctx, p.metrics.transcriptions, op.End(err))
	if err != nil {
		log.Warn("transcription failed", logger.ErrorFields("transcribe", err))
		return p.fail(ctx, MessageTranscriptionFailed, nil)
	}

	p.mu.Lock()
	p.snap.Phase = PhaseDelivering
	p.snap.Transcript = text
	p.snap.Delivery = &Delivery{Status: DeliveryPending}
	p.snap.UpdatedAt = p.now().UTC()
	p.publishLocked()

	spanCtx, op = observability.StartOperation(ctx, p.tracer, observability.SpanDeliver, cycleAttr)
	err = p.deliverer.Deliver(spanCtx, cfg.DeliveryWebhookURL, text, capturedAt)
	count(ctx, p.metrics.deliveries, op.End(err))
	if err != nil {
		log.Warn("delivery failed", logger.ErrorFields("deliver", err))
		return p.fail(ctx, MessageDeliveryFailed, &Delivery{Status: DeliveryFailure, Message: MessageDeliveryFailed})
	}

	p.mu.Lock()
	p.snap.State = Done
	p.snap.Phase = PhaseSuccess
	p.snap.Delivery = &Delivery{Status: DeliverySuccess, Message: MessageDelivered}
	p.snap.UpdatedAt = p.now().UTC()
	final := p.snap.clone()
	count(ctx, p.metrics.recordings, observability.OutcomeSuccess)
	log.Info("recording cycle complete")
	p.publishLocked()
	return final
}

// fail moves to Done(failure). A nil delivery means the transcript never
// existed and is cleared.
func (p *Pipeline) fail(ctx context.Context, msg string, delivery *Delivery) Snapshot {
	p.mu.Lock()
	p.snap.State = Done
	p.snap.Phase = PhaseFailure
	p.snap.Error = msg
	p.snap.Delivery = delivery
	if delivery == nil {
		p.snap.Transcript = ""
	}
	p.snap.UpdatedAt = p.now().UTC()
	final := p.snap.clone()
	count(ctx, p.metrics.recordings, observability.OutcomeFailure)
	p.publishLocked()
	return final
}

// guard checks the current state. Callers hold p.mu.
func (p *Pipeline) guard(action string, want State) error {
	if p.starting {
		return errors.InvalidState(action, "starting")
	}
	if p.snap.State != want {
		return errors.InvalidState(action, string(p.snap.State))
	}
	return nil
}

// publishLocked hands the current snapshot to subscribers in order and
// releases p.mu. Callers hold p.mu.
func (p *Pipeline) publishLocked() {
	s := p.snap.clone()
	p.pubMu.Lock()
	p.mu.Unlock()
	defer p.pubMu.Unlock()
	p.bus.Publish(s)
}

func message(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

// Shutdown abandons an active recording, releasing the device, and waits
// for in-flight processing to settle.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	active := p.snap.State == Recording && !p.starting
	p.mu.Unlock()

	if active {
		if _, err := p.capturer.Stop(ctx); err != nil {
			p.log.Warn("discarding recording", logger.ErrorFields("shutdown", err))
		}
		p.mu.Lock()
		if p.snap.State == Recording {
			p.cfg = settings.Configuration{}
			p.snap = Snapshot{State: Idle, UpdatedAt: p.now().UTC()}
			p.publishLocked()
		} else {
			p.mu.Unlock()
		}
	}
	return p.Wait(ctx)
}
