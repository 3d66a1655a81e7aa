package feed

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// fixtureServer is a raw TCP listener handing out its accepted conns,
// so tests control exactly which bytes hit the client and when.
type fixtureServer struct {
	ln    net.Listener
	conns chan net.Conn
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fixtureServer{ln: ln, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			f.conns <- conn
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return f
}

func (f *fixtureServer) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fixtureServer) accepted(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-f.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
		return nil
	}
}

func TestClientReassemblesFragmentedStream(t *testing.T) {
	fixture := newFixtureServer(t)
	client, err := NewClient(ClientConfig{
		Host:     "127.0.0.1",
		Channels: map[string]int{"market_data": fixture.port()},
	})
	require.NoError(t, err)
	defer client.Close()

	var mu sync.Mutex
	var got []string
	require.NoError(t, client.Subscribe("market_data", func(payload []byte) {
		mu.Lock()
		got = append(got, string(payload))
		mu.Unlock()
	}))
	client.Run()

	upstream := fixture.accepted(t)
	defer upstream.Close()
	for _, fragment := range []string{"AAPL,172", ".53,1.0*MS", "FT,312.10,1.5*"} {
		_, err := upstream.Write([]byte(fragment))
		require.NoError(t, err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"AAPL,172.53,1.0*", "MSFT,312.10,1.5*"}, got)
}

func TestClientInvokesSubscribersInOrder(t *testing.T) {
	fixture := newFixtureServer(t)
	client, err := NewClient(ClientConfig{
		Host:     "127.0.0.1",
		Channels: map[string]int{"news": fixture.port()},
	})
	require.NoError(t, err)
	defer client.Close()

	var mu sync.Mutex
	var order []string
	require.NoError(t, client.Subscribe("news", func([]byte) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	}))
	require.NoError(t, client.Subscribe("news", func([]byte) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	}))
	client.Run()

	upstream := fixture.accepted(t)
	defer upstream.Close()
	_, err = upstream.Write([]byte("AAPL,67*"))
	require.NoError(t, err)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestClientUnknownChannel(t *testing.T) {
	fixture := newFixtureServer(t)
	client, err := NewClient(ClientConfig{
		Host:     "127.0.0.1",
		Channels: map[string]int{"news": fixture.port()},
	})
	require.NoError(t, err)
	defer client.Close()

	assert.ErrorIs(t, client.Subscribe("market_data", func([]byte) {}), exception.ErrUnknownChannel)
	assert.ErrorIs(t, client.Disconnect("market_data"), exception.ErrUnknownChannel)
}

func TestClientDialFailureClosesOpenedConns(t *testing.T) {
	fixture := newFixtureServer(t)
	_, err := NewClient(ClientConfig{
		Host: "127.0.0.1",
		Channels: map[string]int{
			"news": fixture.port(),
			// Reserved port nobody listens on.
			"market_data": 1,
		},
	})
	require.Error(t, err)
}

func TestClientDisconnectStopsDelivery(t *testing.T) {
	fixture := newFixtureServer(t)
	client, err := NewClient(ClientConfig{
		Host:     "127.0.0.1",
		Channels: map[string]int{"news": fixture.port()},
	})
	require.NoError(t, err)

	require.NoError(t, client.Subscribe("news", func([]byte) {}))
	require.NoError(t, client.Disconnect("news"))
	client.Close()
}
