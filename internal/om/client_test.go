package om

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

func TestClientSubmitToRouter(t *testing.T) {
	executor := &captureExecutor{}
	server := startRouter(t, executor)

	client := NewClient("127.0.0.1", server.Port(), '*')
	require.NoError(t, client.Connect())
	defer client.Close()

	require.NoError(t, client.Submit("AAPL", 100, 172.53, enum.ActionBuy))

	waitFor(t, func() bool { return len(executor.all()) == 1 })
	order := executor.all()[0]
	assert.Equal(t, enum.SideBuy, order.Side)
	assert.Equal(t, 100, order.Quantity)
	assert.Equal(t, "AAPL", order.Symbol)
	assert.Equal(t, 172.53, order.Price)
	assert.Greater(t, order.Timestamp, 0.0)
}

func TestClientSubmitHoldSkipped(t *testing.T) {
	client := NewClient("127.0.0.1", 1, '*')
	err := client.Submit("AAPL", 100, 172.53, enum.ActionHold)
	assert.ErrorIs(t, err, exception.ErrInvalidSide)
}

func TestClientSendWithoutConnect(t *testing.T) {
	client := NewClient("127.0.0.1", 1, '*')
	order, err := model.NewOrder("AAPL", enum.SideBuy, 1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, client.Send(order), exception.ErrNotConnected)
}

func TestClientConnectIdempotent(t *testing.T) {
	server := startRouter(t, &captureExecutor{})

	client := NewClient("127.0.0.1", server.Port(), '*')
	require.NoError(t, client.Connect())
	require.NoError(t, client.Connect())
	client.Close()
	client.Close()
}

func TestClientSubmitRejectsBadOrder(t *testing.T) {
	server := startRouter(t, &captureExecutor{})
	client := NewClient("127.0.0.1", server.Port(), '*')
	require.NoError(t, client.Connect())
	defer client.Close()

	assert.ErrorIs(t, client.Submit("AAPL", 0, 172.53, enum.ActionBuy), exception.ErrInvalidQuantity)
	assert.ErrorIs(t, client.Submit("", 100, 172.53, enum.ActionBuy), exception.ErrEmptySymbol)
	assert.ErrorIs(t, client.Submit("AAPL", 100, 0, enum.ActionBuy), exception.ErrInvalidPrice)
}
