// Package loop provides a single-writer event loop that runs scheduled tasks
// one at a time, in FIFO order.
//
// A Loop satisfies reactive.Scheduler: Schedule only enqueues, so a flush
// scheduled from Update always runs on a later turn. Run processes tasks on
// one goroutine until its context ends or Stop is called. Drain runs queued
// work on the caller's goroutine, which gives tests and one-shot commands a
// deterministic "next turn".
//
// Every executed task advances the loop's logical Clock, so callers can
// observe how many turns have passed.
package loop
