package strategy

import "github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"

const (
	defaultBearishThreshold = 40
	defaultBullishThreshold = 60
)

// News maps a sentiment score in [0,100] to an action using two
// thresholds: above bullish is BUY, below bearish is SELL, otherwise
// HOLD.
type News struct {
	bearish int
	bullish int
}

// NewNews builds a mapper. Zero thresholds default to 40/60.
func NewNews(bearish, bullish int) *News {
	if bearish == 0 && bullish == 0 {
		bearish, bullish = defaultBearishThreshold, defaultBullishThreshold
	}
	return &News{bearish: bearish, bullish: bullish}
}

// Evaluate maps one sentiment score to an action.
func (n *News) Evaluate(sentiment int) enum.Action {
	switch {
	case sentiment > n.bullish:
		return enum.ActionBuy
	case sentiment < n.bearish:
		return enum.ActionSell
	default:
		return enum.ActionHold
	}
}
