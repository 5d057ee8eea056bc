// Package pipeline drives the command's modes over the lower-level
// packages.
//
// Pair mode runs one pass: imagedir.Open, index.Load, then the reconciler
// classifies rows in order while a bounded pool of emitters writes the
// Pairable ones. Counters are accumulated into a RunSummary that is
// returned to the caller; nothing is kept in package state.
//
// Merge, missing and stats modes reuse the same building blocks.
package pipeline
