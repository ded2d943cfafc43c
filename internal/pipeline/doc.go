// Package pipeline overlaps sequence reading, minimizer scanning and
// per-batch classification across goroutines.
//
// One producer feeds a bounded batch queue, nThreads-2 workers scan and run
// the caller's work function, and one consumer pulls outputs through Result.
// Outputs arrive in completion order; restoring input order is up to the
// consumer.
package pipeline
