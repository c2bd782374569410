// Package scanner builds size-annotated trees from a filesystem and manages
// cancellable scan sessions.
package scanner

import (
	"errors"
	"runtime"

	"github.com/sadopc/duview/internal/model"
)

// DefaultBatchSize is how many entries the walker visits between yields.
const DefaultBatchSize = 200

var (
	// ErrCancelled is returned when a scan observes its cancellation flag.
	ErrCancelled = errors.New("scan cancelled")
	// ErrSessionActive is returned when a session id is already scanning.
	ErrSessionActive = errors.New("scan session already active")
)

// Options configures a walk.
type Options struct {
	// BatchSize is the number of visited entries between yields
	// (0 = DefaultBatchSize).
	BatchSize int
	// Yield is called every BatchSize entries. Defaults to runtime.Gosched.
	Yield func()
	// ExcludeNames lists entry names that are skipped entirely.
	ExcludeNames []string
	// SkipHidden drops entries whose name starts with a dot.
	SkipHidden bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		BatchSize: DefaultBatchSize,
		Yield:     runtime.Gosched,
	}
}

func (o Options) normalize() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Yield == nil {
		o.Yield = runtime.Gosched
	}
	return o
}

// Result is the outcome of one session: a tree, a cancellation, or an error.
type Result struct {
	SessionID string
	Tree      *model.Node
	Cancelled bool
	Err       error
}

// OK reports whether the scan completed with a tree.
func (r Result) OK() bool {
	return r.Tree != nil && !r.Cancelled && r.Err == nil
}
