package scanner

import "time"

// Progress is emitted once per completed directory, after all of its
// descendants have been aggregated. Path and Size are therefore final.
type Progress struct {
	SessionID string
	// Path is the directory that just completed.
	Path string
	// Size is that directory's total size.
	Size int64

	// Running counters for the whole scan.
	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
	Errors       int64
	StartTime    time.Time
	Duration     time.Duration
}

// ItemsPerSecond returns the scan rate.
func (p Progress) ItemsPerSecond() float64 {
	if p.Duration.Seconds() == 0 {
		return 0
	}
	return float64(p.FilesScanned+p.DirsScanned) / p.Duration.Seconds()
}

// send delivers p without blocking. A nil or full channel drops the event.
func send(ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}
