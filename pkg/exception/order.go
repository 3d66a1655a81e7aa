package exception

import "github.com/yanun0323/errors"

var (
	ErrInvalidSide     = errors.New("order: invalid side")
	ErrEmptySymbol     = errors.New("order: symbol is empty")
	ErrInvalidQuantity = errors.New("order: quantity must be positive")
	ErrInvalidPrice    = errors.New("order: price must be positive")
)
