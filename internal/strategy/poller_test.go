package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/pricebook"
)

func newPollerFixture(t *testing.T) (*pricebook.Store, *Combiner, *captureSink) {
	t.Helper()
	store, err := pricebook.Create(pricebook.Config{
		Name:    "poller_test",
		Symbols: []string{"AAPL", "MSFT"},
		Dir:     t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
		_ = store.Unlink()
	})

	sink := &captureSink{}
	combiner, err := NewCombiner(NewCrossover(2, 5, 100), NewNews(40, 60), sink, '*', nil)
	require.NoError(t, err)
	return store, combiner, sink
}

func TestPollerForwardsFreshSlotsOnce(t *testing.T) {
	store, combiner, _ := newPollerFixture(t)
	poller := NewPoller(store, []string{"AAPL", "MSFT"}, time.Second, combiner)

	ts := float64(time.Now().UnixNano()) / 1e9
	require.NoError(t, store.Update("AAPL", 172.53, ts))

	poller.poll()
	history := combiner.price.prices["AAPL"]
	require.Len(t, history, 1, "fresh slot forwarded on first poll")

	// Unchanged slot is not forwarded again.
	poller.poll()
	assert.Len(t, combiner.price.prices["AAPL"], 1)

	// A rewrite with a newer timestamp is.
	require.NoError(t, store.Update("AAPL", 172.60, float64(time.Now().UnixNano())/1e9))
	poller.poll()
	assert.Len(t, combiner.price.prices["AAPL"], 2)
}

func TestPollerIgnoresEmptyAndFutureSlots(t *testing.T) {
	store, combiner, _ := newPollerFixture(t)
	poller := NewPoller(store, []string{"AAPL", "MSFT"}, time.Second, combiner)

	// Zero-initialized slots never pass the freshness window.
	poller.poll()
	assert.Empty(t, combiner.price.prices)

	// Neither does a timestamp ahead of the wall clock.
	future := float64(time.Now().Add(time.Hour).UnixNano()) / 1e9
	require.NoError(t, store.Update("AAPL", 1, future))
	poller.poll()
	assert.Empty(t, combiner.price.prices)
}

func TestPollerRunStopsOnContext(t *testing.T) {
	store, combiner, _ := newPollerFixture(t)
	poller := NewPoller(store, []string{"AAPL"}, 10*time.Millisecond, combiner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
