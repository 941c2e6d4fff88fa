package logging

import (
	"io"

	"go.uber.org/atomic"
)

// commandKind tags entries on the writer queue.
type commandKind uint8

const (
	cmdWrite commandKind = iota
	cmdFlush
	cmdShutdown
)

// command is one entry on the single-consumer writer queue. Queue order is
// the only serialization of file mutation; there is no lock on the file.
type command struct {
	kind commandKind
	buf  []byte
}

// fanoutWriter is the producer-facing sink. The console copy is written
// synchronously and best-effort; the file copy is a single buffer copy
// enqueued to the writer goroutine. Write never reports failure to the
// producer and always accepts the whole buffer.
type fanoutWriter struct {
	console  io.Writer    // nil when console output is disabled
	queue    chan command // nil when file output is disabled
	closed   *atomic.Bool
	dropped  *atomic.Uint64
	recorder Recorder
}

func (f *fanoutWriter) Write(p []byte) (int, error) {
	if f.console != nil {
		_, _ = f.console.Write(p)
	}
	if f.queue != nil {
		buf := make([]byte, len(p))
		copy(buf, p)
		f.enqueue(command{kind: cmdWrite, buf: buf})
	}
	return len(p), nil
}

// Flush flushes the console copy when the console supports it and queues a
// flush for the file copy.
func (f *fanoutWriter) Flush() {
	if f.console != nil {
		if s, ok := f.console.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}
	if f.queue != nil {
		f.enqueue(command{kind: cmdFlush})
	}
}

// enqueue hands cmd to the writer goroutine without ever blocking the
// producer. Records that arrive after shutdown began, or while the queue is
// full, are dropped and counted.
func (f *fanoutWriter) enqueue(cmd command) {
	if f.closed.Load() {
		f.drop(cmd)
		return
	}
	select {
	case f.queue <- cmd:
	default:
		f.drop(cmd)
	}
}

func (f *fanoutWriter) drop(cmd command) {
	if cmd.kind != cmdWrite {
		return
	}
	f.dropped.Inc()
	if f.recorder != nil {
		f.recorder.RecordDrop()
	}
}
