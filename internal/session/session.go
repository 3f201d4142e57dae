// Package session keeps per-visitor storefront state in memory.
//
// Each Session owns its cart ledger and wishlist exclusively. Sessions never
// share state, and a session's data is gone once it is deleted or expires.
package session

import (
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/wishlist"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Listener receives ledger and wishlist events of a session. It is installed
// by Session.Do for the duration of one call.
type Listener interface {
	CartEvent(e cart.Event)
	WishlistEvent(e wishlist.Event)
}

// Session is the state of one visitor.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	closed   bool
	ledger   *cart.Ledger
	wishlist *wishlist.Set
	listener Listener
}

func newSession(id string, now time.Time, strict bool) *Session {
	s := &Session{ID: id, CreatedAt: now}

	opts := []cart.Option{cart.WithNotifier(cart.NotifierFunc(s.cartEvent))}
	if strict {
		opts = append(opts, cart.WithStrict())
	}
	s.ledger = cart.New(opts...)
	s.wishlist = wishlist.New(s.wishlistEvent)
	return s
}

// Do runs fn with exclusive access to the session state. Events raised by fn
// are delivered to l, which may be nil. Do returns ErrNotFound once the
// session has ended.
func (s *Session) Do(l Listener, fn func(ledger *cart.Ledger, wl *wishlist.Set) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotFound
	}

	s.listener = l
	defer func() { s.listener = nil }()

	return fn(s.ledger, s.wishlist)
}

// close ends the session and drops its cart and wishlist.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.ledger = nil
	s.wishlist = nil
}

func (s *Session) cartEvent(e cart.Event) {
	if s.listener != nil {
		s.listener.CartEvent(e)
	}
}

func (s *Session) wishlistEvent(e wishlist.Event) {
	if s.listener != nil {
		s.listener.WishlistEvent(e)
	}
}

// Config controls the session store.
type Config struct {
	// Max is the number of sessions kept; the least recently used one is
	// evicted beyond that.
	Max int
	// TTL is the idle time after which a session expires. Zero disables
	// expiry.
	TTL time.Duration
	// StrictCart makes new ledgers report unknown item ids.
	StrictCart bool
}

// Store is a concurrency-safe registry of sessions.
type Store struct {
	cfg Config

	// mu makes the lookup and idle refresh in Get atomic with respect to
	// Delete.
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	now      func() time.Time
}

// NewStore creates an empty store. Evictions are logged to lg.
func NewStore(cfg Config, lg *zap.Logger) *Store {
	if cfg.Max <= 0 {
		cfg.Max = 10_000
	}
	onEvict := func(id string, s *Session) {
		s.close()
		lg.Debug("Session ended",
			zap.String("session_id", id),
			zap.Duration("age", time.Since(s.CreatedAt)),
		)
	}
	return &Store{
		cfg:      cfg,
		sessions: expirable.NewLRU[string, *Session](cfg.Max, onEvict, cfg.TTL),
		now:      time.Now,
	}
}

// Create starts a new session with an empty ledger and wishlist.
func (st *Store) Create() *Session {
	s := newSession(uuid.New().String(), st.now(), st.cfg.StrictCart)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions.Add(s.ID, s)
	return s
}

// Get returns the session with the given id and restarts its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	st.sessions.Add(id, s)
	return s, nil
}

// Delete ends a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int { return st.sessions.Len() }

// Capacity returns the configured maximum number of sessions.
func (st *Store) Capacity() int { return st.cfg.Max }
