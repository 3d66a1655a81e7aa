package om

import (
	"net"
	"strconv"
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// Client submits orders to the order router over one TCP connection.
// It satisfies the combiner's TradeSink contract.
type Client struct {
	host  string
	port  int
	delim byte

	mu   sync.Mutex
	conn net.Conn
}

// NewClient builds a disconnected client for the given router address.
func NewClient(host string, port int, delim byte) *Client {
	if delim == 0 {
		delim = wire.DefaultDelimiter
	}
	return &Client{host: host, port: port, delim: delim}
}

// Connect dials the router.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial("tcp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return errors.Wrap(err, "connect order router")
	}
	c.conn = conn
	logs.Infof("order client: connected to %s", conn.RemoteAddr())
	return nil
}

// Submit builds an order stamped now and sends it. A HOLD action has
// no order side; it is logged, skipped and reported as ErrInvalidSide.
func (c *Client) Submit(symbol string, quantity int, price float64, action enum.Action) error {
	side, ok := action.Side()
	if !ok {
		logs.Infof("order client: skip %s signal for %s", action, symbol)
		return errors.Wrap(exception.ErrInvalidSide, "action "+action.String())
	}
	order, err := model.NewOrder(symbol, side, quantity, price)
	if err != nil {
		return err
	}
	return c.Send(order)
}

// Send serializes and transmits one order.
func (c *Client) Send(order model.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return exception.ErrNotConnected
	}
	if _, err := c.conn.Write(order.Marshal(c.delim)); err != nil {
		_ = c.conn.Close()
		c.conn = nil
		return errors.Wrap(err, "send order")
	}
	logs.Infof("order client: sent %s", order)
	return nil
}

// Close disconnects. A second Close is a no-op.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	logs.Info("order client: disconnected")
}
