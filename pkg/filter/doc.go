// Package filter applies declarative per-property transformation pipelines
// to decoded REST resources.
//
// A Spec maps property keys to ordered Stage lists. Model fans a Spec out
// across an Object, running one pipeline per key concurrently, and commits
// every finished value back into the same Object once all pipelines join.
// Property runs a single key's pipeline on its own.
//
// Key operations:
// - NewSpec/Pipe: declare key -> stages, rejecting empty or duplicate keys
// - Model: concurrent fan-out over all keys, fail-fast or continue-on-error
// - Property/Eval: sequential chain for one key, with or without commit
// - Collection: Model over a list response with a fixed number of workers
// - Named/Map/StageFunc: build stages from plain functions
// - Success/Fail/Cancel: construct Result[T]
//
// Every stage in a chain receives the whole Object as its first value, not
// Object[key], so stages can read sibling fields such as "_embedded".
package filter
