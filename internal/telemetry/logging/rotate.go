package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CompressFunc is the post-rotation hook invoked with the path of the
// freshly rotated-out generation (base path + ".1"). The default is
// IdentityCompress; a real compressor can be plugged in without touching
// the rotation logic.
type CompressFunc func(path string) error

// IdentityCompress is the default compression hook. It leaves the rotated
// file as-is; on-disk compression is intentionally not implemented yet.
func IdentityCompress(string) error { return nil }

// rotatingWriter owns the active log file and performs size-triggered
// rotation with numbered generations: the active file at basePath, then
// basePath.1 (newest rotated) through basePath.keep (oldest). It is not
// safe for concurrent use; the writer goroutine is its only caller.
type rotatingWriter struct {
	basePath string
	file     *os.File
	size     int64
	maxSize  int64
	keep     int
	compress CompressFunc
	recorder Recorder
}

// newRotatingWriter creates parent directories as needed and opens the
// active file in append mode, seeding size from the existing file length so
// a restarted process keeps its rotation accounting.
func newRotatingWriter(basePath string, maxSize int64, keep int, compress CompressFunc, rec Recorder) (*rotatingWriter, error) {
	if compress == nil {
		compress = IdentityCompress
	}
	if dir := filepath.Dir(basePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}

	w := &rotatingWriter{
		basePath: basePath,
		maxSize:  maxSize,
		keep:     keep,
		compress: compress,
		recorder: rec,
	}
	if err := w.openActive(); err != nil {
		return nil, err
	}
	return w, nil
}

// openActive opens (or creates) the active file in append mode and
// re-synchronizes size with its true length.
func (w *rotatingWriter) openActive() error {
	f, err := os.OpenFile(w.basePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, activeFileMode)
	if err != nil {
		return fmt.Errorf("open log file %q: %w", w.basePath, err)
	}

	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	w.file = f
	w.size = size
	return nil
}

// Write appends p to the active file, rotating first when the append would
// push the file past maxSize. A record larger than maxSize still goes in
// whole after the rotation; records are never split or rejected.
func (w *rotatingWriter) Write(p []byte) (int, error) {
	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	if w.file == nil {
		return 0, fmt.Errorf("log file %q is not open", w.basePath)
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, err
	}
	if w.recorder != nil {
		w.recorder.RecordWrite(n)
	}
	return n, nil
}

// rotate closes the active file and shifts the retained generations one
// slot older, deleting the generation that falls off the end, then reopens
// a fresh active file. With keep == 0 the active file is simply deleted.
func (w *rotatingWriter) rotate() error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}

	if w.keep == 0 {
		_ = os.Remove(w.basePath)
		return w.openActive()
	}

	// Cap enforcement: the oldest generation is dropped before the shift so
	// nothing ever exists beyond basePath.keep.
	_ = os.Remove(w.generation(w.keep))
	for i := w.keep - 1; i >= 1; i-- {
		src := w.generation(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := w.generation(i + 1)
		_ = os.Remove(dst)
		_ = os.Rename(src, dst)
	}

	if _, err := os.Stat(w.basePath); err == nil {
		dst := w.generation(1)
		_ = os.Remove(dst)
		if err := os.Rename(w.basePath, dst); err != nil {
			return fmt.Errorf("rotate log file %q: %w", w.basePath, err)
		}
		if err := w.compress(dst); err != nil {
			fmt.Fprintf(os.Stderr, "[logging] compress %q: %v\n", dst, err)
		}
	}

	if w.recorder != nil {
		w.recorder.RecordRotation()
	}
	return w.openActive()
}

// generation returns the path of rotated generation n; n grows with age.
func (w *rotatingWriter) generation(n int) string {
	return w.basePath + "." + strconv.Itoa(n)
}

// Flush forces buffered bytes of the active file to stable storage.
func (w *rotatingWriter) Flush() error {
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close flushes and closes the active file. Safe to call more than once.
func (w *rotatingWriter) Close() error {
	if w.file == nil {
		return nil
	}
	_ = w.file.Sync()
	err := w.file.Close()
	w.file = nil
	return err
}
