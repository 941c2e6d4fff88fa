// Package metrics exposes the agent's Prometheus endpoint and implements
// the logging pipeline's Recorder so that write, rotation, error, and drop
// counts are scrapeable.
package metrics
