package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/wardenhq/warden/internal/config"
)

// Lifecycle states. Transitions are one-way:
// uninitialized -> running -> shuttingDown -> terminated.
const (
	stateUninitialized int32 = iota
	stateRunning
	stateShuttingDown
	stateTerminated
)

// Service owns the logging pipeline for one process: the zerolog front end,
// the fan-out sink, and (when file output is enabled) the background writer
// goroutine. Construct it with a validated TelemetryConfig, call
// Initialize once, and Close before process exit.
type Service struct {
	// Config is the telemetry section of the agent configuration.
	Config *config.TelemetryConfig

	// ConsoleOut overrides the console destination. Defaults to os.Stdout.
	ConsoleOut io.Writer

	// Compress overrides the post-rotation hook. Only consulted when
	// Config.LogRotation.Compress is set; defaults to IdentityCompress.
	Compress CompressFunc

	// Recorder receives pipeline events for metrics export. Optional.
	Recorder Recorder

	state   atomic.Int32
	logger  atomic.Pointer[zerolog.Logger]
	sink    *fanoutWriter
	queue   chan command
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64
}

// Initialize validates the configuration, starts the writer goroutine when
// file output is requested, and wires the zerolog logger over the fan-out
// sink. Calling Initialize on a running service is a no-op.
func (s *Service) Initialize() error {
	if s == nil {
		return errors.New(errMsgNilService)
	}
	if s.Config == nil {
		return errors.New(errMsgNilConfig)
	}
	if s.state.Load() != stateUninitialized {
		return nil
	}

	if err := validateConfig(s.Config); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(s.Config.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", s.Config.LogLevel, err)
	}

	if s.Config.FileEnabled() {
		s.queue = make(chan command, queueDepth)
		s.done = make(chan struct{})
		go s.runWriter()
	}

	var console io.Writer
	if s.Config.ConsoleEnabled() {
		console = s.ConsoleOut
		if console == nil {
			console = os.Stdout
		}
	}

	s.sink = &fanoutWriter{
		console:  console,
		queue:    s.queue,
		closed:   &s.closed,
		dropped:  &s.dropped,
		recorder: s.Recorder,
	}

	var out io.Writer = s.sink
	if s.Config.LogFormat == "plain" {
		out = zerolog.ConsoleWriter{Out: s.sink, NoColor: true}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	s.logger.Store(&logger)
	s.state.Store(stateRunning)
	return nil
}

// runWriter is the background writer goroutine. It constructs the rotating
// writer, then drains the command queue strictly in arrival order until a
// shutdown command arrives. A failed construction degrades file logging to
// a no-op; a failed append is reported and the loop keeps going.
func (s *Service) runWriter() {
	defer close(s.done)

	compress := CompressFunc(IdentityCompress)
	if s.Config.LogRotation.Compress && s.Compress != nil {
		compress = s.Compress
	}
	maxSize := int64(s.Config.LogRotation.MaxSizeMB) * 1024 * 1024
	keep := s.Config.LogRotation.MaxFiles - 1

	w, err := newRotatingWriter(s.Config.LogFile, maxSize, keep, compress, s.Recorder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] failed to init file writer: %v\n", err)
		return
	}
	defer func() { _ = w.Close() }()

	for cmd := range s.queue {
		switch cmd.kind {
		case cmdWrite:
			if _, err := w.Write(cmd.buf); err != nil {
				fmt.Fprintf(os.Stderr, "[logging] write error: %v\n", err)
				if s.Recorder != nil {
					s.Recorder.RecordWriteError()
				}
				time.Sleep(writeBackoff)
			}
		case cmdFlush:
			_ = w.Flush()
		case cmdShutdown:
			_ = w.Flush()
			return
		}
	}
}

// Close shuts the pipeline down: no further records are accepted, a
// shutdown command is queued behind everything already enqueued, and the
// call blocks until the writer goroutine has flushed and exited. Close is
// idempotent; second and later calls return nil immediately.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	if !s.state.CompareAndSwap(stateRunning, stateShuttingDown) {
		return nil
	}

	s.closed.Store(true)

	if s.queue != nil {
		// The guard on done covers a writer that never started (worker
		// construction failed) so Close cannot wedge on a full queue.
		select {
		case s.queue <- command{kind: cmdShutdown}:
			<-s.done
		case <-s.done:
		}
	}

	s.state.Store(stateTerminated)
	return nil
}

// Flush pushes the console copy to its device and queues a durability
// flush for the file copy. Best-effort, like every producer-facing call.
func (s *Service) Flush() {
	if s == nil || s.state.Load() != stateRunning {
		return
	}
	s.sink.Flush()
}

// Logger returns the underlying zerolog logger, or a disabled logger when
// the service is not running.
func (s *Service) Logger() zerolog.Logger {
	if s == nil {
		return zerolog.Nop()
	}
	if l := s.logger.Load(); l != nil && s.state.Load() == stateRunning {
		return *l
	}
	return zerolog.Nop()
}

// Dropped reports how many records were discarded because the queue was
// full or the pipeline was shutting down.
func (s *Service) Dropped() uint64 {
	if s == nil {
		return 0
	}
	return s.dropped.Load()
}

// TraceWith returns a trace-level structured event. The returned event is
// nil-safe: when the service is not running or the level is filtered, all
// chained calls are no-ops.
func (s *Service) TraceWith() *zerolog.Event { return s.event(zerolog.TraceLevel) }

// DebugWith returns a debug-level structured event.
func (s *Service) DebugWith() *zerolog.Event { return s.event(zerolog.DebugLevel) }

// InfoWith returns an info-level structured event.
func (s *Service) InfoWith() *zerolog.Event { return s.event(zerolog.InfoLevel) }

// WarnWith returns a warn-level structured event.
func (s *Service) WarnWith() *zerolog.Event { return s.event(zerolog.WarnLevel) }

// ErrorWith returns an error-level structured event.
func (s *Service) ErrorWith() *zerolog.Event { return s.event(zerolog.ErrorLevel) }

func (s *Service) event(level zerolog.Level) *zerolog.Event {
	if s == nil || s.state.Load() != stateRunning {
		return nil
	}
	l := s.logger.Load()
	if l == nil || l.GetLevel() > level {
		return nil
	}
	return l.WithLevel(level)
}
