package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// Order is a trade submission. Wire form: timestamp,side,quantity,symbol,price*
// No order ID and no fill state are tracked here; the router hands the
// order to the execution sink and forgets it.
type Order struct {
	Timestamp float64
	Side      enum.Side
	Quantity  int
	Symbol    string
	Price     float64
}

// NewOrder validates and builds an order stamped with the current time.
func NewOrder(symbol string, side enum.Side, quantity int, price float64) (Order, error) {
	order := Order{
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Side:      side,
		Quantity:  quantity,
		Symbol:    symbol,
		Price:     price,
	}
	if err := order.Validate(); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Validate checks the order field constraints.
func (o Order) Validate() error {
	if !o.Side.IsAvailable() {
		return exception.ErrInvalidSide
	}
	if o.Quantity <= 0 {
		return exception.ErrInvalidQuantity
	}
	if o.Symbol == "" {
		return exception.ErrEmptySymbol
	}
	if o.Price <= 0 {
		return exception.ErrInvalidPrice
	}
	return nil
}

// ParseOrder decodes an order payload. A trailing delimiter is tolerated.
func ParseOrder(payload []byte, delim byte) (Order, error) {
	fields := wire.SplitFields(wire.TrimDelimiter(payload, delim))
	if len(fields) != 5 {
		return Order{}, errors.Wrap(exception.ErrFieldCount, "order frame wants 5 fields, got "+strconv.Itoa(len(fields)))
	}
	ts, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Order{}, errors.Wrap(err, "parse timestamp "+fields[0])
	}
	side, ok := enum.ParseSide(fields[1])
	if !ok {
		return Order{}, errors.Wrap(exception.ErrInvalidSide, "side "+fields[1])
	}
	quantity, err := strconv.Atoi(fields[2])
	if err != nil {
		return Order{}, errors.Wrap(err, "parse quantity "+fields[2])
	}
	price, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return Order{}, errors.Wrap(err, "parse price "+fields[4])
	}
	order := Order{
		Timestamp: ts,
		Side:      side,
		Quantity:  quantity,
		Symbol:    fields[3],
		Price:     price,
	}
	if err := order.Validate(); err != nil {
		return Order{}, errors.Wrap(err, "invalid order "+string(wire.TrimDelimiter(payload, delim)))
	}
	return order, nil
}

// Marshal encodes the order as a delimited frame.
func (o Order) Marshal(delim byte) []byte {
	return wire.Frame(wire.JoinFields(
		strconv.FormatFloat(o.Timestamp, 'f', -1, 64),
		o.Side.String(),
		strconv.Itoa(o.Quantity),
		o.Symbol,
		strconv.FormatFloat(o.Price, 'f', -1, 64),
	), delim)
}

func (o Order) String() string {
	return fmt.Sprintf("[%.3f] %s %d %s @ %.2f", o.Timestamp, o.Side, o.Quantity, o.Symbol, o.Price)
}
