// Package audit records who did what.
//
// Services hand entries to a Sink. The production Sink is a Recorder: a
// bounded queue drained by a small worker pool that appends entries to the
// action log store. Recording never blocks the caller; when the queue is full
// the entry is dropped and the drop is logged.
package audit
