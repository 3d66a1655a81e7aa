package enum

// Side buy, sell
type Side uint8

const (
	_side_beg Side = iota
	SideBuy
	SideSell
	_side_end
)

func (s Side) IsAvailable() bool {
	return s > _side_beg && s < _side_end
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide maps wire text to a side. Only the exact uppercase
// forms BUY and SELL are accepted.
func ParseSide(text string) (Side, bool) {
	switch text {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	default:
		return 0, false
	}
}
