package mdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

func TestCSVProviderReplaysFile(t *testing.T) {
	provider, err := NewCSVProvider(filepath.Join("testdata", "market_data.csv"), '*')
	require.NoError(t, err)

	want := []string{
		"AAPL,172.53,1696180200.0*",
		"MSFT,312.10,1696180200.5*",
		"AAPL,172.61,1696180201.0*",
		"MSFT,311.98,1696180201.5*",
		"AAPL,172.49,1696180202.0*",
	}
	for _, frame := range want {
		payload, err := provider.Next()
		require.NoError(t, err)
		assert.Equal(t, frame, string(payload))
	}

	_, err = provider.Next()
	assert.ErrorIs(t, err, exception.ErrExhausted)
	// Exhaustion is sticky.
	_, err = provider.Next()
	assert.ErrorIs(t, err, exception.ErrExhausted)
}

func TestCSVProviderColumnOrderIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte("price,timestamp,symbol\n172.53,1.0,AAPL\n"), 0o644))

	provider, err := NewCSVProvider(path, '*')
	require.NoError(t, err)

	payload, err := provider.Next()
	require.NoError(t, err)
	assert.Equal(t, "AAPL,172.53,1.0*", string(payload))
}

func TestCSVProviderMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,price\nAAPL,172.53\n"), 0o644))

	_, err := NewCSVProvider(path, '*')
	assert.Error(t, err)
}

func TestCSVProviderMissingFile(t *testing.T) {
	_, err := NewCSVProvider(filepath.Join(t.TempDir(), "nope.csv"), '*')
	assert.Error(t, err)
}
