// Package logging holds the debug loggers shared by the scanner and the UI.
// Output is discarded unless DUVIEW_DEBUG is set; the TUI owns the terminal,
// so logs go to a file.
package logging

import (
	"io"
	"log"
	"os"
)

// DefaultFile is used when DUVIEW_DEBUG is set to "1" or "true".
const DefaultFile = "duview-debug.log"

var (
	Debug   *log.Logger
	Scanner *log.Logger
	Enabled bool
)

func init() {
	Discard()
	v := os.Getenv("DUVIEW_DEBUG")
	if v == "" {
		return
	}
	path := v
	if v == "1" || v == "true" {
		path = DefaultFile
	}
	if err := Open(path); err != nil {
		SetOutput(os.Stderr)
	}
}

// Discard turns all loggers into no-ops.
func Discard() {
	Debug = log.New(io.Discard, "", 0)
	Scanner = log.New(io.Discard, "", 0)
	Enabled = false
}

// Open appends all loggers to the file at path.
func Open(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	SetOutput(f)
	return nil
}

// SetOutput points all loggers at w.
func SetOutput(w io.Writer) {
	Debug = log.New(w, "[debug] ", log.Lmicroseconds)
	Scanner = log.New(w, "[scan] ", log.Lmicroseconds)
	Enabled = true
}
