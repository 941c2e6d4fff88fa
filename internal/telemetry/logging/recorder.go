package logging

// Recorder receives pipeline events for metrics export. Implementations
// must be safe for concurrent use; a nil Recorder disables recording.
type Recorder interface {
	// RecordWrite is called after a successful append of n bytes.
	RecordWrite(n int)
	// RecordRotation is called once per completed rotation.
	RecordRotation()
	// RecordWriteError is called when an append or rotation fails.
	RecordWriteError()
	// RecordDrop is called when a record is discarded because the command
	// queue is full or the pipeline is shutting down.
	RecordDrop()
}
