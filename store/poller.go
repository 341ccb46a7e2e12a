package store

import (
	"context"
	"sync"
	"time"
)

// poller drives a repeating refresh on a ticker, with pause/resume semantics:
// while paused no fetches are issued, and resuming triggers an immediate
// refresh so an active viewer never waits a full interval for fresh data.
// Mirrors the page-visibility behavior of the browser frontend this service
// replaces.
type poller struct {
	interval time.Duration
	refresh  func(ctx context.Context)

	mu       sync.Mutex
	paused   bool
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
}

func newPoller(interval time.Duration, refresh func(ctx context.Context)) *poller {
	return &poller{
		interval: interval,
		refresh:  refresh,
		stopChan: make(chan struct{}),
	}
}

// start fetches once immediately, then keeps refreshing every interval until
// stop is called or ctx is cancelled. Starting again after a stop opens a
// fresh loop.
func (p *poller) start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	stop := p.stopChan
	p.mu.Unlock()

	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	p.mu.Lock()
	p.ticker = ticker
	p.mu.Unlock()

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if p.isPaused() {
					continue
				}
				p.refresh(ctx)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (p *poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	close(p.stopChan)
}

// setInterval changes the polling cadence, retiming a live ticker in place.
func (p *poller) setInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d <= 0 || d == p.interval {
		return
	}
	p.interval = d
	if p.ticker != nil {
		p.ticker.Reset(d)
	}
}

func (p *poller) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

// resume re-enables the ticker and refreshes right away.
func (p *poller) resume(ctx context.Context) {
	p.mu.Lock()
	wasPaused := p.paused
	running := p.running
	p.paused = false
	p.mu.Unlock()

	if wasPaused && running {
		p.refresh(ctx)
	}
}

func (p *poller) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *poller) isRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
