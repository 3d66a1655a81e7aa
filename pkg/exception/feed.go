package exception

import "github.com/yanun0323/errors"

var (
	// ErrNoData is returned by a provider with nothing available right now.
	ErrNoData = errors.New("feed: no data available")
	// ErrExhausted is returned by a provider that will never yield again.
	ErrExhausted = errors.New("feed: provider exhausted")
	// ErrUnknownChannel is returned when subscribing to a channel the client does not carry.
	ErrUnknownChannel = errors.New("feed: unknown channel")
)
