package exception

import "github.com/yanun0323/errors"

var (
	// ErrStoreNotFound is returned when attaching to a segment nobody created yet.
	ErrStoreNotFound = errors.New("price store: segment not found")
	// ErrSymbolNotFound is returned on read/update of an unconfigured symbol.
	ErrSymbolNotFound = errors.New("price store: symbol not found")
	// ErrStoreClosed is returned when using a store handle after Close.
	ErrStoreClosed = errors.New("price store: closed")
	// ErrSymbolTooLong is returned at creation when a symbol exceeds the slot width.
	ErrSymbolTooLong = errors.New("price store: symbol exceeds slot width")
)
