package feed

import "github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"

// Provider is a pull-based source of outbound payloads for a broadcast
// server. Next returns the next payload, exception.ErrNoData when
// nothing is available right now, or exception.ErrExhausted when the
// source will never yield again. Finite and infinite sources implement
// the same interface.
type Provider interface {
	Next() ([]byte, error)
}

// SliceProvider replays a fixed payload sequence, then reports exhaustion.
type SliceProvider struct {
	items [][]byte
	index int
}

func NewSliceProvider(items ...[]byte) *SliceProvider {
	return &SliceProvider{items: items}
}

func (p *SliceProvider) Next() ([]byte, error) {
	if p.index >= len(p.items) {
		return nil, exception.ErrExhausted
	}
	item := p.items[p.index]
	p.index++
	return item, nil
}
