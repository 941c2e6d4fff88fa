package logging

import "time"

const (
	emptyString = ""

	// queueDepth bounds the command channel. Producers that find it full
	// drop the record and bump the dropped counter instead of blocking.
	queueDepth = 1024

	// writeBackoff is how long the writer goroutine pauses after a failed
	// append before draining further commands.
	writeBackoff = 5 * time.Millisecond

	// activeFileMode is the permission set for newly created log files.
	activeFileMode = 0o644
)

const (
	errMsgNilConfig     = "logging config is nil"
	errMsgNilService    = "logging service is nil"
	errMsgConfigInvalid = "logging configuration is invalid"
)
