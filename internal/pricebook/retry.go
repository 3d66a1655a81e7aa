package pricebook

import (
	"errors"
	"time"

	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// AttachWithRetry attaches to a segment that another process may not
// have created yet, retrying with a fixed delay. This is the expected
// race during multi-process startup; once the attempts run out the
// not-found error is returned and the caller should fail hard.
func AttachWithRetry(cfg Config, attempts int, delay time.Duration) (*Store, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		store, err := Attach(cfg)
		if err == nil {
			return store, nil
		}
		if !errors.Is(err, exception.ErrStoreNotFound) {
			return nil, err
		}
		lastErr = err
		if attempt < attempts {
			logs.Warnf("price store: segment %s not found (attempt %d/%d), waiting for creator",
				cfg.Name, attempt, attempts)
			time.Sleep(delay)
		}
	}
	return nil, lastErr
}
