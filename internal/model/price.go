package model

import (
	"strconv"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// PriceUpdate is one market data tick. Wire form: symbol,price,timestamp*
type PriceUpdate struct {
	Symbol    string
	Price     float64
	Timestamp float64
}

// ParsePriceUpdate decodes a market data payload. A trailing delimiter
// is tolerated and stripped.
func ParsePriceUpdate(payload []byte, delim byte) (PriceUpdate, error) {
	fields := wire.SplitFields(wire.TrimDelimiter(payload, delim))
	if len(fields) != 3 {
		return PriceUpdate{}, errors.Wrap(exception.ErrFieldCount, "market data frame wants 3 fields, got "+strconv.Itoa(len(fields)))
	}
	price, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return PriceUpdate{}, errors.Wrap(err, "parse price "+fields[1])
	}
	ts, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return PriceUpdate{}, errors.Wrap(err, "parse timestamp "+fields[2])
	}
	return PriceUpdate{Symbol: fields[0], Price: price, Timestamp: ts}, nil
}

// Marshal encodes the tick as a delimited frame.
func (p PriceUpdate) Marshal(delim byte) []byte {
	return wire.Frame(wire.JoinFields(
		p.Symbol,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.FormatFloat(p.Timestamp, 'f', -1, 64),
	), delim)
}
