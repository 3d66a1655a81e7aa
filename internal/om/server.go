package om

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	yerrors "github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

const (
	acceptPollInterval  = time.Second
	shutdownJoinTimeout = 2 * time.Second
	recvBufferSize      = 1024
	channelName         = "orders"
)

// ServerConfig configures the order router.
type ServerConfig struct {
	// Port to bind on 0.0.0.0. Zero picks an ephemeral port.
	Port int
	// Delimiter terminates every order frame. Defaults to '*'.
	Delimiter byte
	// Executor receives parsed orders. Defaults to LogExecutor.
	Executor Executor
	// Metrics is optional.
	Metrics *obs.Metrics
}

// Server accepts order submissions over TCP, deframes and parses each
// frame as an Order and forwards it to the execution sink. One bad
// frame is logged and skipped; the session continues.
type Server struct {
	cfg ServerConfig
	ln  *net.TCPListener

	mu      sync.Mutex
	clients map[net.Conn]struct{}

	closed     atomic.Bool
	running    atomic.Bool
	acceptDone chan struct{}
	workers    sync.WaitGroup
	shutdown   sync.Once
}

// NewServer validates the config and builds a router.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = wire.DefaultDelimiter
	}
	if cfg.Executor == nil {
		cfg.Executor = LogExecutor{}
	}
	return &Server{cfg: cfg, clients: make(map[net.Conn]struct{})}
}

// Run binds the listening socket and blocks in the accept loop until
// Shutdown. Each accepted connection gets a dedicated receive loop.
func (s *Server) Run() error {
	if !s.running.CompareAndSwap(false, true) {
		return exception.ErrAlreadyRunning
	}
	addr, err := net.ResolveTCPAddr("tcp", "0.0.0.0:"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return yerrors.Wrap(err, "resolve addr")
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return yerrors.Wrap(err, "listen on port "+strconv.Itoa(s.cfg.Port))
	}
	s.ln = ln
	s.acceptDone = make(chan struct{})
	logs.Infof("order router: listening on %s", ln.Addr())

	s.acceptLoop()
	return nil
}

// Port reports the actual bound port once Run has started listening.
func (s *Server) Port() int {
	if s.ln == nil {
		return s.cfg.Port
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// ClientCount reports the current live session count.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) acceptLoop() {
	defer close(s.acceptDone)
	for !s.closed.Load() {
		if err := s.ln.SetDeadline(time.Now().Add(acceptPollInterval)); err != nil {
			return
		}
		conn, err := s.ln.AcceptTCP()
		if err != nil {
			if s.closed.Load() {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			logs.Errorf("order router: accept, err: %+v", err)
			return
		}

		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		s.cfg.Metrics.ClientConnected(channelName)
		logs.Infof("order router: client connected from %s", conn.RemoteAddr())

		s.workers.Add(1)
		go s.handleClient(conn)
	}
}

func (s *Server) handleClient(conn net.Conn) {
	defer s.workers.Done()
	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		s.cfg.Metrics.ClientDisconnected(channelName)
		logs.Infof("order router: client %s disconnected", conn.RemoteAddr())
	}()

	deframer := wire.NewDeframer(s.cfg.Delimiter)
	buf := make([]byte, recvBufferSize)
	for !s.closed.Load() {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		for _, payload := range deframer.Feed(buf[:n]) {
			s.route(payload)
		}
	}
}

func (s *Server) route(payload []byte) {
	order, err := model.ParseOrder(payload, s.cfg.Delimiter)
	if err != nil {
		logs.Errorf("order router: drop malformed frame %q, err: %+v", payload, err)
		s.cfg.Metrics.FrameDropped(channelName)
		return
	}
	logs.Infof("order router: received %s", order)
	s.cfg.Metrics.OrderRouted()
	if err := s.cfg.Executor.Execute(order); err != nil {
		logs.Errorf("order router: execute %s, err: %+v", order, err)
	}
}

// Shutdown stops the router. Idempotent: closes the listener to
// interrupt accept, joins the accept loop and client loops with a
// bounded timeout, then closes every client socket and clears the set.
func (s *Server) Shutdown() {
	s.shutdown.Do(func() {
		s.closed.Store(true)
		if s.ln != nil {
			_ = s.ln.Close()
		}
		if s.acceptDone != nil {
			select {
			case <-s.acceptDone:
			case <-time.After(shutdownJoinTimeout):
				logs.Warnf("order router: accept loop did not stop in time")
			}
		}

		s.mu.Lock()
		for conn := range s.clients {
			_ = conn.Close()
		}
		s.mu.Unlock()

		done := make(chan struct{})
		go func() {
			s.workers.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownJoinTimeout):
			logs.Warnf("order router: client loops did not stop in time")
		}

		s.mu.Lock()
		s.clients = make(map[net.Conn]struct{})
		s.mu.Unlock()
		logs.Info("order router: shut down")
	})
}
