// Package access decides who may do what to a task.
//
// It holds the task status transition table and a single authorization
// function, Decide, keyed by the actor's role class, the requested operation
// and the actor's relationship to the task. Both are pure: no I/O, no shared
// mutable state. The lifecycle service turns a denied Decision into the
// matching domain error with Decision.Err.
package access
