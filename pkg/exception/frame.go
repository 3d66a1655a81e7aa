package exception

import "github.com/yanun0323/errors"

var (
	// ErrFieldCount is returned when a payload has the wrong number of comma fields.
	ErrFieldCount = errors.New("frame: unexpected field count")
	// ErrSentimentRange is returned when a sentiment value falls outside [0,100].
	ErrSentimentRange = errors.New("frame: sentiment out of range")
)
