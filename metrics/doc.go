// Package metrics exports solve outcomes to Prometheus. Collector implements
// engine.Recorder; pass it with engine.WithRecorder and serve Handler.
package metrics
