// Package pipeline runs the batch operations over a record stream: it groups
// records into chunks, hands each chunk to an Engine on a bounded worker pool,
// and assembles the per-sequence results.
//
// The only contract to implement is Engine. This keeps the pipeline swappable
// and testable.
package pipeline
