package exception

import "github.com/yanun0323/errors"

var (
	// ErrServerClosed is returned when an operation hits a server after shutdown.
	ErrServerClosed = errors.New("connection: server closed")
	// ErrNotConnected is returned when a client sends before connecting.
	ErrNotConnected = errors.New("connection: not connected")
	// ErrAlreadyRunning is returned when Run is called twice on the same instance.
	ErrAlreadyRunning = errors.New("connection: already running")
)
