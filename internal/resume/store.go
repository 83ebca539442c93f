package resume

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"folio/internal/logging"
)

// State is the lifecycle position of a Store.
type State int

const (
	StatePending     State = iota // Load has not finished
	StateReady                    // Document is available
	StateUnavailable              // Load failed; terminal for this store
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

var (
	// ErrNotLoaded is returned by reads that happen before Load completes.
	ErrNotLoaded = errors.New("resume not loaded yet")
	// ErrUnavailable wraps the cause of a failed load.
	ErrUnavailable = errors.New("resume unavailable")
)

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 10 * time.Second

// Store loads the document once and publishes it read-only.
type Store struct {
	source  string
	client  *http.Client
	timeout time.Duration

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	doc   *Document
	state State
	err   error
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.client = c }
}

// WithTimeout bounds the whole load.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore creates a pending store for a file path or http(s) URL.
func NewStore(source string, opts ...Option) *Store {
	s := &Store{
		source:  source,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStaticStore returns a store that is already ready with doc.
func NewStaticStore(doc *Document) *Store {
	s := NewStore("static")
	s.once.Do(func() {
		s.publish(doc, nil)
	})
	return s
}

// Load fetches and decodes the document. Only the first call does any work;
// later calls return the same outcome. There is no retry.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	s.once.Do(func() {
		timer := logging.StartTimer(logging.CategoryStore, "resume load")
		defer timer.Stop()

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		data, err := fetch(ctx, s.client, s.source)
		if err != nil {
			logging.StoreError("load %s failed: %v", s.source, err)
			s.publish(nil, err)
			return
		}
		doc, err := Parse(data)
		if err != nil {
			logging.StoreError("parse %s failed: %v", s.source, err)
			s.publish(nil, err)
			return
		}
		logging.Store("loaded %s: %d positions, %d projects",
			s.source, len(doc.Experience.Positions), len(doc.Projects.Items))
		s.publish(doc, nil)
	})
	return s.Document()
}

func (s *Store) publish(doc *Document, err error) {
	s.mu.Lock()
	if err != nil {
		s.state = StateUnavailable
		s.err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	} else {
		s.state = StateReady
		s.doc = doc
	}
	s.mu.Unlock()
	close(s.done)
}

// Snapshot returns the document (nil unless ready), the state and the load
// error (nil unless unavailable).
func (s *Store) Snapshot() (*Document, State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.state, s.err
}

// Document returns the loaded document or ErrNotLoaded / an ErrUnavailable
// wrapped error.
func (s *Store) Document() (*Document, error) {
	doc, state, err := s.Snapshot()
	switch state {
	case StateReady:
		return doc, nil
	case StateUnavailable:
		return nil, err
	default:
		return nil, ErrNotLoaded
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	_, state, _ := s.Snapshot()
	return state
}

// Source returns the configured source.
func (s *Store) Source() string {
	return s.source
}

// Done is closed once Load has finished, successfully or not.
func (s *Store) Done() <-chan struct{} {
	return s.done
}
