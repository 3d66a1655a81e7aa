package feed

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

const recvBufferSize = 1024

// Handler consumes one complete delimited message from a feed channel.
type Handler func(payload []byte)

// ClientConfig configures a feed client and its channel connections.
type ClientConfig struct {
	// Host of the upstream broadcast servers.
	Host string
	// Channels maps each channel name to its TCP port. The mapping is
	// fixed at construction.
	Channels map[string]int
	// Delimiter terminates every message. Defaults to '*'.
	Delimiter byte
	// Metrics is optional.
	Metrics *obs.Metrics
}

// Client holds one long-lived connection per feed channel, reassembles
// the byte stream into frames and fans each frame out to the channel's
// subscribers in registration order.
type Client struct {
	cfg ClientConfig

	mu    sync.Mutex
	conns map[string]net.Conn
	subs  map[string][]Handler

	running atomic.Bool
}

// NewClient dials every configured channel. All connections must
// succeed; on any failure the already-opened ones are closed.
func NewClient(cfg ClientConfig) (*Client, error) {
	if len(cfg.Channels) == 0 {
		return nil, errors.New("feed client: no channels configured")
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = wire.DefaultDelimiter
	}

	conns := make(map[string]net.Conn, len(cfg.Channels))
	subs := make(map[string][]Handler, len(cfg.Channels))
	for name, port := range cfg.Channels {
		conn, err := net.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
		if err != nil {
			for _, opened := range conns {
				_ = opened.Close()
			}
			return nil, errors.Wrap(err, "dial channel "+name)
		}
		conns[name] = conn
		subs[name] = nil
		logs.Infof("feed client: connected channel %s to %s", name, conn.RemoteAddr())
	}
	return &Client{cfg: cfg, conns: conns, subs: subs}, nil
}

// Subscribe registers a handler for a channel. Multiple handlers per
// channel are allowed and all are invoked per frame, in order.
func (c *Client) Subscribe(channel string, fn Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.conns[channel]; !ok {
		return errors.Wrap(exception.ErrUnknownChannel, "subscribe "+channel)
	}
	c.subs[channel] = append(c.subs[channel], fn)
	return nil
}

// Run starts one receive loop per channel connection.
func (c *Client) Run() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, conn := range c.conns {
		go c.receiveLoop(name, conn)
	}
}

func (c *Client) receiveLoop(channel string, conn net.Conn) {
	deframer := wire.NewDeframer(c.cfg.Delimiter)
	buf := make([]byte, recvBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			logs.Infof("feed client: channel %s closed: %v", channel, err)
			return
		}
		for _, payload := range deframer.Feed(buf[:n]) {
			c.dispatch(channel, wire.Frame(payload, c.cfg.Delimiter))
		}
	}
}

func (c *Client) dispatch(channel string, msg []byte) {
	c.mu.Lock()
	handlers := make([]Handler, len(c.subs[channel]))
	copy(handlers, c.subs[channel])
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(msg)
	}
	c.cfg.Metrics.FrameReceived(channel)
}

// Disconnect closes one channel's socket, forgets its mapping and
// clears its subscriber list.
func (c *Client) Disconnect(channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, ok := c.conns[channel]
	if !ok {
		return errors.Wrap(exception.ErrUnknownChannel, "disconnect "+channel)
	}
	_ = conn.Close()
	delete(c.conns, channel)
	delete(c.subs, channel)
	return nil
}

// Close disconnects every remaining channel.
func (c *Client) Close() {
	c.mu.Lock()
	channels := make([]string, 0, len(c.conns))
	for name := range c.conns {
		channels = append(channels, name)
	}
	c.mu.Unlock()

	for _, name := range channels {
		_ = c.Disconnect(name)
	}
}
