package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

var (
	// ErrPollerAlreadyRunning is returned when starting a running poller
	ErrPollerAlreadyRunning = errors.New("poller already running")
)

// DefaultPollInterval is the interval between reconciliation cycles when no
// override is configured.
const DefaultPollInterval = 5 * time.Minute

// Poller runs reconciliation cycles on a fixed interval.
type Poller struct {
	engine   *Engine
	interval time.Duration
	logger   ectologger.Logger

	// Coordination
	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.RWMutex
}

// NewPoller creates a new poller around the engine
func NewPoller(engine *Engine, interval time.Duration, logger ectologger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		engine:   engine,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		stoppedC: make(chan struct{}),
	}
}

// Start begins polling. The first cycle runs immediately rather than one
// interval in.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrPollerAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()

	ctx, span := tracing.StartSpan(ctx, "reconcile.Poller.Start")
	defer span.End()

	p.logger.WithContext(ctx).Infof("Starting reconciliation poller: interval=%s", p.interval)

	go p.pollLoop(ctx)

	return nil
}

// Stop stops the poller gracefully, waiting for an in-flight cycle.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.stoppedC:
		p.logger.WithContext(ctx).Info("Reconciliation poller stopped")
	case <-ctx.Done():
		p.logger.WithContext(ctx).Warn("Reconciliation poller shutdown timed out")
		return ctx.Err()
	}

	return nil
}

// IsRunning returns whether the poller is running
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer close(p.stoppedC)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle runs one cycle. A failed cycle is logged and the loop continues;
// listing errors are transient and the next tick retries from scratch.
func (p *Poller) runCycle(ctx context.Context) {
	summary, err := p.engine.RunCycle(ctx)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Reconciliation cycle failed")
		return
	}
	if summary.FilesFound > 0 {
		p.logger.WithContext(ctx).WithFields(map[string]any{
			"files_found":      summary.FilesFound,
			"files_processed":  summary.FilesProcessed,
			"files_skipped":    summary.FilesSkipped,
			"files_errored":    summary.FilesErrored,
			"by_document_type": summary.ByDocumentType,
		}).Info("Reconciliation cycle complete")
	}
}
