// Package engine derives streaks, calendar status, achievements and insights
// from a snapshot of habits and completion logs.
//
// Every function is pure: inputs are never mutated and no state survives
// between calls, so results can be recomputed from scratch whenever the
// underlying data changes.
package engine
