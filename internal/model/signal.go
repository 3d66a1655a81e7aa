package model

import "github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"

// Signal is an ephemeral trade recommendation for one symbol from one
// channel. It is never persisted; the next signal for the same symbol
// and channel supersedes it.
type Signal struct {
	Symbol   string
	Quantity int
	Price    float64
	Action   enum.Action
}
