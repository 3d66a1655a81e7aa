package mdg

import (
	"math/rand"
	"time"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// NewsProvider emits random sentiment frames for a symbol set. A
// positive limit makes it finite; a positive interval paces emission by
// reporting not-ready between ticks.
type NewsProvider struct {
	symbols  []string
	delim    byte
	limit    int
	interval time.Duration

	rng     *rand.Rand
	emitted int
	last    time.Time
}

// NewNewsProvider builds a provider over the configured symbols.
func NewNewsProvider(symbols []string, delim byte, limit int, interval time.Duration) (*NewsProvider, error) {
	if len(symbols) == 0 {
		return nil, errors.New("news provider: no symbols configured")
	}
	if delim == 0 {
		delim = wire.DefaultDelimiter
	}
	return &NewsProvider{
		symbols:  symbols,
		delim:    delim,
		limit:    limit,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (p *NewsProvider) Next() ([]byte, error) {
	if p.limit > 0 && p.emitted >= p.limit {
		return nil, exception.ErrExhausted
	}
	if p.interval > 0 && time.Since(p.last) < p.interval {
		return nil, exception.ErrNoData
	}
	p.last = time.Now()
	p.emitted++

	update := model.SentimentUpdate{
		Symbol:    p.symbols[p.rng.Intn(len(p.symbols))],
		Sentiment: p.rng.Intn(101),
	}
	return update.Marshal(p.delim), nil
}
