package enum

// Action buy, sell, hold
type Action uint8

const (
	_action_beg Action = iota
	ActionBuy
	ActionSell
	ActionHold
	_action_end
)

func (a Action) IsAvailable() bool {
	return a > _action_beg && a < _action_end
}

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	case ActionHold:
		return "HOLD"
	default:
		return "UNKNOWN"
	}
}

// Side maps a tradable action to an order side. HOLD has no side.
func (a Action) Side() (Side, bool) {
	switch a {
	case ActionBuy:
		return SideBuy, true
	case ActionSell:
		return SideSell, true
	default:
		return 0, false
	}
}
