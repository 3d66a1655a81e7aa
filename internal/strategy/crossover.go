package strategy

import (
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
)

const defaultQuantity = 100

// Crossover detects short/long moving-average transitions per symbol.
// It emits BUY when the short average crosses from at-or-below to above
// the long average and SELL on the opposite transition; steady state
// emits nothing. Averages are computed over the history seen before the
// current tick, matching a detector that confirms the cross on the next
// observation. No signal is possible until longWindow prices have been
// observed for a symbol.
type Crossover struct {
	shortWindow int
	longWindow  int
	quantity    int

	prices         map[string][]float64
	prevShortAbove map[string]bool
}

// NewCrossover builds a detector. A non-positive quantity defaults to 100.
func NewCrossover(shortWindow, longWindow, quantity int) *Crossover {
	if quantity <= 0 {
		quantity = defaultQuantity
	}
	return &Crossover{
		shortWindow:    shortWindow,
		longWindow:     longWindow,
		quantity:       quantity,
		prices:         make(map[string][]float64),
		prevShortAbove: make(map[string]bool),
	}
}

// OnTick feeds one price observation and reports whether a transition
// signal fired on this tick.
func (c *Crossover) OnTick(symbol string, price float64) (model.Signal, bool) {
	history, seen := c.prices[symbol]
	if !seen {
		c.prices[symbol] = []float64{price}
		c.prevShortAbove[symbol] = false
		return model.Signal{}, false
	}
	if len(history) < c.longWindow {
		c.prices[symbol] = append(history, price)
		return model.Signal{}, false
	}

	shortMA := mean(history[len(history)-c.shortWindow:])
	longMA := mean(history[len(history)-c.longWindow:])
	prevAbove := c.prevShortAbove[symbol]
	currAbove := shortMA > longMA

	var signal model.Signal
	fired := false
	if !prevAbove && currAbove {
		signal = model.Signal{Symbol: symbol, Quantity: c.quantity, Price: price, Action: enum.ActionBuy}
		fired = true
	}
	if prevAbove && !currAbove {
		signal = model.Signal{Symbol: symbol, Quantity: c.quantity, Price: price, Action: enum.ActionSell}
		fired = true
	}
	c.prevShortAbove[symbol] = currAbove

	history = append(history, price)
	if len(history) > c.longWindow {
		history = history[len(history)-c.longWindow:]
	}
	c.prices[symbol] = history

	return signal, fired
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
