// Package histogram implements the regular binned axis used for k and r
// histograms, plus a set of worker-private histograms that are merged into a
// shared histogram in a single-threaded reduction.
//
// A Local set is an arena of rows indexed by worker slot id. During accumulation
// every worker only touches its own row, so writes need no synchronization.
// Reading is only valid after all writers have finished (ReduceInto).
package histogram
