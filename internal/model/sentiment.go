package model

import (
	"strconv"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// SentimentUpdate is one news sentiment score. Wire form: symbol,sentiment*
// Sentiment is an integer in [0,100].
type SentimentUpdate struct {
	Symbol    string
	Sentiment int
}

// ParseSentimentUpdate decodes a news payload, rejecting malformed or
// out-of-range input without updating anything.
func ParseSentimentUpdate(payload []byte, delim byte) (SentimentUpdate, error) {
	fields := wire.SplitFields(wire.TrimDelimiter(payload, delim))
	if len(fields) != 2 {
		return SentimentUpdate{}, errors.Wrap(exception.ErrFieldCount, "news frame wants 2 fields, got "+strconv.Itoa(len(fields)))
	}
	sentiment, err := strconv.Atoi(fields[1])
	if err != nil {
		return SentimentUpdate{}, errors.Wrap(err, "parse sentiment "+fields[1])
	}
	if sentiment < 0 || sentiment > 100 {
		return SentimentUpdate{}, errors.Wrap(exception.ErrSentimentRange, "sentiment "+fields[1])
	}
	return SentimentUpdate{Symbol: fields[0], Sentiment: sentiment}, nil
}

// Marshal encodes the sentiment as a delimited frame.
func (s SentimentUpdate) Marshal(delim byte) []byte {
	return wire.Frame(wire.JoinFields(s.Symbol, strconv.Itoa(s.Sentiment)), delim)
}
