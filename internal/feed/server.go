package feed

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	yerrors "github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

const (
	// acceptPollInterval bounds how long a blocked accept can delay shutdown.
	acceptPollInterval = time.Second
	// providerRetryDelay is the wait before re-polling a not-ready provider.
	providerRetryDelay = 100 * time.Millisecond
	// shutdownJoinTimeout bounds how long Shutdown waits for worker loops.
	shutdownJoinTimeout = 2 * time.Second
	// portReleaseDelay gives the OS time to release the port after close.
	portReleaseDelay = 100 * time.Millisecond
)

// ServerConfig configures one broadcast channel server.
type ServerConfig struct {
	// Name is the channel name, used in logs and metrics.
	Name string
	// Port to bind on 0.0.0.0. Zero picks an ephemeral port.
	Port int
	// Delimiter terminates every broadcast frame. Defaults to '*'.
	Delimiter byte
	// Provider supplies the ordered outbound payload stream.
	Provider Provider
	// Metrics is optional.
	Metrics *obs.Metrics
}

// Server pushes one provider's output to every connected client over
// TCP, in order, best effort. One accept loop and one broadcast loop
// run per instance.
type Server struct {
	cfg ServerConfig
	ln  *net.TCPListener

	mu      sync.Mutex
	clients []net.Conn

	closed     atomic.Bool
	running    atomic.Bool
	acceptDone chan struct{}
	shutdown   sync.Once
}

// NewServer validates the config and builds a server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Provider == nil {
		return nil, yerrors.New("feed server: nil provider")
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = wire.DefaultDelimiter
	}
	if cfg.Name == "" {
		cfg.Name = "feed"
	}
	return &Server{cfg: cfg}, nil
}

// Run binds the listening socket, starts the accept loop and blocks in
// the broadcast loop until the provider is exhausted or Shutdown is
// called. A failed bind is fatal to this instance.
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
	logs.Infof("%s server: listening on %s", s.cfg.Name, ln.Addr())

	go s.acceptLoop()
	s.broadcastLoop()
	return nil
}

// Port reports the actual bound port once Run has started listening.
func (s *Server) Port() int {
	if s.ln == nil {
		return s.cfg.Port
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// ClientCount reports the current live client set size.
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
			logs.Errorf("%s server: accept, err: %+v", s.cfg.Name, err)
			return
		}
		s.mu.Lock()
		s.clients = append(s.clients, conn)
		s.mu.Unlock()
		s.cfg.Metrics.ClientConnected(s.cfg.Name)
		logs.Infof("%s server: client connected from %s", s.cfg.Name, conn.RemoteAddr())
	}
}

func (s *Server) broadcastLoop() {
	for !s.closed.Load() {
		payload, err := s.cfg.Provider.Next()
		if err != nil {
			switch {
			case errors.Is(err, exception.ErrNoData):
				time.Sleep(providerRetryDelay)
				continue
			case errors.Is(err, exception.ErrExhausted):
				logs.Infof("%s server: provider exhausted", s.cfg.Name)
				return
			default:
				logs.Errorf("%s server: provider, err: %+v", s.cfg.Name, err)
				return
			}
		}
		s.Broadcast(payload)
	}
}

// Broadcast delivers one frame to every currently connected client.
// The client set is snapshotted first so a failing send on one
// connection cannot perturb iteration; failed clients are swept out
// after the pass.
func (s *Server) Broadcast(payload []byte) {
	if len(payload) == 0 {
		return
	}
	payload = wire.Frame(payload, s.cfg.Delimiter)

	s.mu.Lock()
	snapshot := make([]net.Conn, len(s.clients))
	copy(snapshot, s.clients)
	s.mu.Unlock()

	var dead []net.Conn
	for _, conn := range snapshot {
		if _, err := conn.Write(payload); err != nil {
			logs.Errorf("%s server: send to %s, err: %+v", s.cfg.Name, conn.RemoteAddr(), err)
			dead = append(dead, conn)
			continue
		}
		s.cfg.Metrics.FrameBroadcast(s.cfg.Name)
	}
	if len(dead) == 0 {
		return
	}

	s.mu.Lock()
	kept := s.clients[:0]
	for _, conn := range s.clients {
		if !containsConn(dead, conn) {
			kept = append(kept, conn)
		}
	}
	s.clients = kept
	s.mu.Unlock()

	for _, conn := range dead {
		_ = conn.Close()
		s.cfg.Metrics.ClientDisconnected(s.cfg.Name)
	}
}

// Shutdown stops the server. It is idempotent: the listener is closed
// to interrupt a blocked accept, the accept loop is joined with a
// bounded timeout, then every client socket is closed and the set
// cleared.
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
				logs.Warnf("%s server: accept loop did not stop in time", s.cfg.Name)
			}
		}

		s.mu.Lock()
		for _, conn := range s.clients {
			_ = conn.Close()
			s.cfg.Metrics.ClientDisconnected(s.cfg.Name)
		}
		s.clients = nil
		s.mu.Unlock()

		time.Sleep(portReleaseDelay)
		logs.Infof("%s server: shut down", s.cfg.Name)
	})
}

func containsConn(conns []net.Conn, target net.Conn) bool {
	for _, conn := range conns {
		if conn == target {
			return true
		}
	}
	return false
}
