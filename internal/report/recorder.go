package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Recorder writes simulator events as JSON lines. The first write error is
// kept and later events are dropped.
type Recorder struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	count  int
	err    error
}

// NewRecorder records to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// OpenRecorder creates (or truncates) path and records to it.
func OpenRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create event log dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}
	r := NewRecorder(file)
	r.closer = file
	return r, nil
}

// OnEvent implements portfolio.EventSink.
func (r *Recorder) OnEvent(e types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(e); err != nil {
		r.err = err
		return
	}
	r.count++
}

// Count returns the number of recorded events.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close closes the underlying file, if any.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return r.Err()
	}
	if err := r.closer.Close(); err != nil {
		return err
	}
	return r.Err()
}
