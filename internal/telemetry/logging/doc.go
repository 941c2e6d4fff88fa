// Package logging provides the agent's structured logging pipeline: a
// zerolog front end over a fan-out sink that writes the console copy
// synchronously and hands the file copy to a single background goroutine
// owning a size-rotated log file.
//
// Key properties
//   - Producers never block on disk I/O; the command channel is the only
//     shared resource and the sole ordering point for file mutation
//   - Size-triggered rotation with numbered generations (file, file.1 ..
//     file.N, oldest highest) and bounded retention
//   - Close() drains and flushes everything enqueued before shutdown, then
//     joins the writer goroutine; calling it again is a no-op
//   - Write and flush never surface errors to producers; I/O failures go to
//     stderr and file logging degrades rather than faulting the process
//
// Typical usage
//
//	svc := &logging.Service{Config: &cfg.Telemetry}
//	if err := svc.Initialize(); err != nil { return err }
//	defer svc.Close()
//
//	svc.InfoWith().Str("plugin", name).Msg("loaded")
package logging
