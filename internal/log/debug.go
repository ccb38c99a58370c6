// Package log is the debug log of lazystack. Messages written before a
// destination is chosen are held in memory and replayed once SetFile is
// called, so startup messages are not lost.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

type sink struct {
	mu      sync.Mutex
	out     io.Writer
	closer  io.Closer
	pending []byte
	off     bool
}

var (
	debugSink = &sink{}
	logger    = log.New(debugSink, "", log.LstdFlags|log.Lmicroseconds)
)

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.off:
		return len(p), nil
	case s.out != nil:
		n, err := s.out.Write(p)
		if f, ok := s.out.(*os.File); ok {
			_ = f.Sync()
		}
		return n, err
	}
	// p may be reused by the caller.
	s.pending = append(s.pending, p...)
	return len(p), nil
}

// release closes the current destination. Callers hold s.mu.
func (s *sink) release() error {
	var err error
	if s.closer != nil {
		err = s.closer.Close()
	}
	s.out, s.closer = nil, nil
	return err
}

// attach switches to w and replays pending messages. Callers hold s.mu.
func (s *sink) attach(w io.Writer, c io.Closer) {
	s.out, s.closer, s.off = w, c, false
	if len(s.pending) > 0 {
		_, _ = w.Write(s.pending)
		s.pending = nil
	}
}

func (s *sink) disable() {
	s.off = true
	s.pending = nil
}

// SetFile appends the debug log to path, creating it if needed. An empty
// path turns debug logging off and drops anything pending. On error logging
// is turned off too.
func SetFile(path string) error {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()

	_ = debugSink.release()
	if path == "" {
		debugSink.disable()
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		debugSink.disable()
		return err
	}
	debugSink.attach(f, f)
	return nil
}

// SetOutput sends the debug log to w. The caller keeps ownership of w.
func SetOutput(w io.Writer) {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()

	_ = debugSink.release()
	if w == nil {
		debugSink.disable()
		return
	}
	debugSink.attach(w, nil)
}

// Enabled reports whether messages currently go anywhere.
func Enabled() bool {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()
	return !debugSink.off
}

// Printf logs a formatted message.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Println logs its operands.
func Println(v ...any) {
	logger.Println(v...)
}

// Close closes the log file, if one is open. Later messages are buffered
// again until a new destination is set.
func Close() error {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()
	return debugSink.release()
}
