package mdg

import (
	"math/rand"
	"time"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// Generator produces synthetic random-walk ticks for all configured
// symbols, round-robin, as an infinite alternative to the CSV file.
// A positive interval paces emission via the not-ready result.
type Generator struct {
	symbols  []string
	delim    byte
	step     float64
	interval time.Duration

	rng    *rand.Rand
	prices map[string]float64
	index  int
	last   time.Time
}

// NewGenerator seeds every symbol at basePrice.
func NewGenerator(symbols []string, basePrice, step float64, interval time.Duration, delim byte) (*Generator, error) {
	if len(symbols) == 0 {
		return nil, errors.New("tick generator: no symbols configured")
	}
	if basePrice <= 0 {
		return nil, errors.New("tick generator: base price must be positive")
	}
	if step <= 0 {
		step = 0.05
	}
	if delim == 0 {
		delim = wire.DefaultDelimiter
	}
	prices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = basePrice
	}
	return &Generator{
		symbols:  symbols,
		delim:    delim,
		step:     step,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		prices:   prices,
	}, nil
}

func (g *Generator) Next() ([]byte, error) {
	if g.interval > 0 && time.Since(g.last) < g.interval {
		return nil, exception.ErrNoData
	}
	g.last = time.Now()

	symbol := g.symbols[g.index]
	g.index = (g.index + 1) % len(g.symbols)

	price := g.prices[symbol]
	if g.rng.Intn(2) == 0 {
		price += g.step
	} else if price > g.step {
		price -= g.step
	}
	g.prices[symbol] = price

	tick := model.PriceUpdate{
		Symbol:    symbol,
		Price:     price,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	}
	return tick.Marshal(g.delim), nil
}
