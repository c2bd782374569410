package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/duview/internal/logging"
)

// Session is the state of one in-flight scan. Its inode set lives exactly as
// long as the session.
type Session struct {
	ID        string
	Root      string
	Started   time.Time
	cancelled atomic.Bool
	seen      map[inodeKey]struct{}
}

// Cancel sets the session's cancellation flag.
func (s *Session) Cancel() { s.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (s *Session) Cancelled() bool { return s.cancelled.Load() }

// Manager owns the table of active sessions. Unrelated sessions run
// concurrently; an id runs at most one traversal at a time.
type Manager struct {
	fs   FS
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager that scans fsys. A nil fsys means LocalFS.
func NewManager(fsys FS, opts Options) *Manager {
	if fsys == nil {
		fsys = LocalFS{}
	}
	return &Manager{
		fs:       fsys,
		opts:     opts.normalize(),
		sessions: make(map[string]*Session),
	}
}

// NewSessionID returns a fresh, unique session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Start scans root under session id, generating an id when it is empty. It
// blocks until the walk completes, fails or is cancelled. Progress events
// are sent without blocking; a slow reader loses events, not time.
func (m *Manager) Start(ctx context.Context, root, id string, progress chan<- Progress) Result {
	if id == "" {
		id = NewSessionID()
	}
	s, err := m.register(id, root)
	if err != nil {
		return Result{SessionID: id, Err: err}
	}
	defer m.unregister(id)

	logging.Debug.Printf("session %s: scanning %s", id, root)
	w := NewWalker(m.fs, m.opts, id, &s.cancelled, s.seen, progress)
	tree, err := w.Walk(ctx, root)
	switch {
	case errors.Is(err, ErrCancelled):
		logging.Debug.Printf("session %s: cancelled after %s", id, time.Since(s.Started))
		return Result{SessionID: id, Cancelled: true}
	case err != nil:
		logging.Debug.Printf("session %s: failed: %v", id, err)
		return Result{SessionID: id, Err: fmt.Errorf("scan %s: %w", root, err)}
	}
	logging.Debug.Printf("session %s: done in %s, %d bytes", id, time.Since(s.Started), tree.Size)
	return Result{SessionID: id, Tree: tree}
}

// Cancel flags the session. Unknown or finished ids are ignored, and
// repeated calls are harmless.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.Cancel()
	}
}

// CancelAll flags every active session.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Cancel()
	}
}

// Active returns the ids of running sessions, sorted.
func (m *Manager) Active() []string {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)
	return ids
}

func (m *Manager) register(id, root string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.sessions[id]; busy {
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, id)
	}
	s := &Session{
		ID:      id,
		Root:    root,
		Started: time.Now(),
		seen:    make(map[inodeKey]struct{}),
	}
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) unregister(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
