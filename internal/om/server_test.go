package om

import (
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
)

type captureExecutor struct {
	mu     sync.Mutex
	orders []model.Order
}

func (e *captureExecutor) Execute(order model.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orders = append(e.orders, order)
	return nil
}

func (e *captureExecutor) all() []model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

func startRouter(t *testing.T, executor Executor) *Server {
	t.Helper()
	server := NewServer(ServerConfig{Port: 0, Executor: executor})

	done := make(chan error, 1)
	go func() { done <- server.Run() }()
	waitFor(t, func() bool { return server.ln != nil })

	t.Cleanup(func() {
		server.Shutdown()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("router did not stop")
		}
	})
	return server
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestServerRoutesOrders(t *testing.T) {
	executor := &captureExecutor{}
	server := startRouter(t, executor)

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(server.Port())))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("1696180200.5,BUY,100,AAPL,172.53*1696180201.0,SELL,50,MSFT,312.10*"))
	require.NoError(t, err)

	waitFor(t, func() bool { return len(executor.all()) == 2 })
	orders := executor.all()
	assert.Equal(t, model.Order{Timestamp: 1696180200.5, Side: enum.SideBuy, Quantity: 100, Symbol: "AAPL", Price: 172.53}, orders[0])
	assert.Equal(t, model.Order{Timestamp: 1696180201.0, Side: enum.SideSell, Quantity: 50, Symbol: "MSFT", Price: 312.1}, orders[1])
}

func TestServerSkipsMalformedFrames(t *testing.T) {
	executor := &captureExecutor{}
	server := startRouter(t, executor)

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(server.Port())))
	require.NoError(t, err)
	defer conn.Close()

	// Garbage between two good orders must not kill the session.
	_, err = conn.Write([]byte("1.0,BUY,100,AAPL,172.53*not,an,order*2.0,SELL,50,MSFT,312.10*"))
	require.NoError(t, err)

	waitFor(t, func() bool { return len(executor.all()) == 2 })
	orders := executor.all()
	assert.Equal(t, "AAPL", orders[0].Symbol)
	assert.Equal(t, "MSFT", orders[1].Symbol)
}

func TestServerHandlesFragmentedOrders(t *testing.T) {
	executor := &captureExecutor{}
	server := startRouter(t, executor)

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(server.Port())))
	require.NoError(t, err)
	defer conn.Close()

	for _, fragment := range []string{"1.0,BUY,1", "00,AAPL,17", "2.53*"} {
		_, err = conn.Write([]byte(fragment))
		require.NoError(t, err)
	}

	waitFor(t, func() bool { return len(executor.all()) == 1 })
	assert.Equal(t, 100, executor.all()[0].Quantity)
}

func TestServerShutdownIdempotent(t *testing.T) {
	server := startRouter(t, &captureExecutor{})

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(server.Port())))
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return server.ClientCount() == 1 })

	server.Shutdown()
	server.Shutdown()
	assert.Equal(t, 0, server.ClientCount())
}
