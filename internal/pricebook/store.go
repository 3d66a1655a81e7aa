package pricebook

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"golang.org/x/sys/unix"

	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

const (
	// symbolWidth is the fixed byte width of the symbol field in a slot.
	symbolWidth = 16
	// slotSize is symbolWidth + float64 price + float64 timestamp.
	slotSize = symbolWidth + 16

	defaultDir = "/dev/shm"
)

// Config names a shared price segment and fixes its instrument set.
// Creator and attachers must supply the same name and symbol list;
// slot indexes follow symbol order and never change.
type Config struct {
	// Name of the segment file inside Dir.
	Name string
	// Symbols configured for the store, one slot each.
	Symbols []string
	// Dir overrides the segment directory. Defaults to /dev/shm when it
	// exists, else the OS temp dir.
	Dir string
}

// Store is one process's view of a named shared memory segment holding
// one fixed-width price slot per instrument. All reads and writes are
// serialized by an exclusive flock on the segment file, which is valid
// across process boundaries.
type Store struct {
	path  string
	file  *os.File
	data  []byte
	index map[string]int
	owner bool

	mu     sync.Mutex
	closed bool
}

// Create allocates and initializes the segment. A stale segment left by
// a prior run is unlinked and recreated. Every slot starts as
// (symbol, 0.0, 0.0).
func Create(cfg Config) (*Store, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	path := segmentPath(cfg)
	if _, err := os.Stat(path); err == nil {
		logs.Warnf("price store: segment %s already exists, reclaiming", cfg.Name)
		if err := os.Remove(path); err != nil {
			return nil, errors.Wrap(err, "reclaim stale segment")
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "create segment "+path)
	}
	size := len(cfg.Symbols) * slotSize
	if err := file.Truncate(int64(size)); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, errors.Wrap(err, "size segment")
	}

	store, err := wrap(path, file, cfg.Symbols, true)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}

	if err := store.withLock(func() {
		for i, symbol := range cfg.Symbols {
			store.writeSlot(i, symbol, 0, 0)
		}
	}); err != nil {
		_ = store.Close()
		return nil, err
	}
	logs.Infof("price store: created segment %s (%d slots)", cfg.Name, len(cfg.Symbols))
	return store, nil
}

// Attach opens an existing segment without creating one. It fails with
// exception.ErrStoreNotFound when the creator has not run yet; callers
// racing the creator should use AttachWithRetry.
func Attach(cfg Config) (*Store, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	path := segmentPath(cfg)
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, exception.ErrStoreNotFound
		}
		return nil, errors.Wrap(err, "open segment "+path)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "stat segment")
	}
	want := int64(len(cfg.Symbols) * slotSize)
	if info.Size() != want {
		_ = file.Close()
		return nil, errors.New("price store: segment " + cfg.Name + " holds " +
			strconv.FormatInt(info.Size()/slotSize, 10) + " slots, want " +
			strconv.Itoa(len(cfg.Symbols)))
	}

	store, err := wrap(path, file, cfg.Symbols, false)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	logs.Infof("price store: attached segment %s", cfg.Name)
	return store, nil
}

func wrap(path string, file *os.File, symbols []string, owner bool) (*Store, error) {
	size := len(symbols) * slotSize
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap segment")
	}
	index := make(map[string]int, len(symbols))
	for i, symbol := range symbols {
		index[symbol] = i
	}
	return &Store{path: path, file: file, data: data, index: index, owner: owner}, nil
}

// Update overwrites a symbol's price and timestamp under the store
// lock. An unknown symbol is logged and rejected without touching the
// segment.
func (s *Store) Update(symbol string, price, timestamp float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return exception.ErrStoreClosed
	}
	idx, ok := s.index[symbol]
	if !ok {
		logs.Errorf("price store: symbol %s not found", symbol)
		return exception.ErrSymbolNotFound
	}
	return s.withLock(func() {
		off := idx*slotSize + symbolWidth
		binary.LittleEndian.PutUint64(s.data[off:], math.Float64bits(price))
		binary.LittleEndian.PutUint64(s.data[off+8:], math.Float64bits(timestamp))
	})
}

// Read returns a symbol's current price and timestamp under the store
// lock. An unknown symbol yields the not-found sentinel (0, 0, err).
func (s *Store) Read(symbol string) (price, timestamp float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, exception.ErrStoreClosed
	}
	idx, ok := s.index[symbol]
	if !ok {
		return 0, 0, exception.ErrSymbolNotFound
	}
	err = s.withLock(func() {
		off := idx*slotSize + symbolWidth
		price = math.Float64frombits(binary.LittleEndian.Uint64(s.data[off:]))
		timestamp = math.Float64frombits(binary.LittleEndian.Uint64(s.data[off+8:]))
	})
	if err != nil {
		return 0, 0, err
	}
	return price, timestamp, nil
}

// ReadAll snapshots every configured symbol's current price.
func (s *Store) ReadAll() (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, exception.ErrStoreClosed
	}
	out := make(map[string]float64, len(s.index))
	err := s.withLock(func() {
		for symbol, idx := range s.index {
			off := idx*slotSize + symbolWidth
			out[symbol] = math.Float64frombits(binary.LittleEndian.Uint64(s.data[off:]))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close detaches this process's view without destroying the segment.
// A second Close is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := unix.Munmap(s.data); err != nil {
		logs.Errorf("price store: munmap, err: %+v", err)
	}
	s.data = nil
	err := s.file.Close()
	logs.Infof("price store: closed %s", s.path)
	return err
}

// Unlink destroys the segment. Only the creating process should call
// it, after every attached process has closed.
func (s *Store) Unlink() error {
	if !s.owner {
		logs.Warnf("price store: unlink called on non-owning handle for %s", s.path)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unlink segment")
	}
	logs.Infof("price store: unlinked %s", s.path)
	return nil
}

// withLock runs fn while holding an exclusive flock on the segment
// file. flock serializes attached processes; s.mu serializes
// goroutines sharing this handle.
func (s *Store) withLock(fn func()) error {
	if err := flock(s.file, unix.LOCK_EX); err != nil {
		return errors.Wrap(err, "lock segment")
	}
	defer func() {
		if err := flock(s.file, unix.LOCK_UN); err != nil {
			logs.Errorf("price store: unlock, err: %+v", err)
		}
	}()
	fn()
	return nil
}

func flock(file *os.File, how int) error {
	for {
		err := unix.Flock(int(file.Fd()), how)
		if err != unix.EINTR {
			return err
		}
	}
}

func validate(cfg Config) error {
	if cfg.Name == "" {
		return errors.New("price store: empty segment name")
	}
	if len(cfg.Symbols) == 0 {
		return errors.New("price store: no symbols configured")
	}
	for _, symbol := range cfg.Symbols {
		if symbol == "" {
			return exception.ErrEmptySymbol
		}
		if len(symbol) > symbolWidth {
			return errors.Wrap(exception.ErrSymbolTooLong, symbol)
		}
	}
	return nil
}

func segmentPath(cfg Config) string {
	dir := cfg.Dir
	if dir == "" {
		if info, err := os.Stat(defaultDir); err == nil && info.IsDir() {
			dir = defaultDir
		} else {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, cfg.Name)
}

func (s *Store) writeSlot(idx int, symbol string, price, timestamp float64) {
	off := idx * slotSize
	var field [symbolWidth]byte
	copy(field[:], symbol)
	copy(s.data[off:off+symbolWidth], field[:])
	binary.LittleEndian.PutUint64(s.data[off+symbolWidth:], math.Float64bits(price))
	binary.LittleEndian.PutUint64(s.data[off+symbolWidth+8:], math.Float64bits(timestamp))
}
