package strategy

import (
	"context"
	"time"

	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/pricebook"
)

const defaultPollInterval = time.Second

// Poller drives the combiner's price channel from the shared price
// store. Each poll forwards a symbol's slot only when its timestamp is
// newer than the previous poll and not in the future, so a slot
// rewritten between polls is observed once with its latest value.
type Poller struct {
	store    *pricebook.Store
	symbols  []string
	interval time.Duration
	combiner *Combiner

	lastQuery float64
}

// NewPoller builds a poller. A non-positive interval defaults to 1s.
func NewPoller(store *pricebook.Store, symbols []string, interval time.Duration, combiner *Combiner) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{store: store, symbols: symbols, interval: interval, combiner: combiner}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	now := float64(time.Now().UnixNano()) / 1e9
	for _, symbol := range p.symbols {
		price, timestamp, err := p.store.Read(symbol)
		if err != nil {
			logs.Errorf("poller: read %s, err: %+v", symbol, err)
			continue
		}
		if p.lastQuery < timestamp && timestamp <= now {
			p.combiner.OnPrice(symbol, price, timestamp)
		}
	}
	p.lastQuery = now
}
