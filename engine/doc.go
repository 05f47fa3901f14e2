// Package engine implements the search state and the drivers that expand it.
//
// A search session grows two trees of rewritten expressions, one rooted at
// each side of the goal. The State owns the token table and the vertex and
// edge arenas; every mutation of the graph goes through it, so duplicate
// detection is a single check-and-insert even when both sides expand in
// parallel.
//
// # Drivers
//
// Driver is the single-threaded reference loop: one expansion step at a
// time over a shared frontier holding both sides. ParallelDriver runs one
// worker per goal side with per-side frontiers, sharing the State and the
// step budget.
//
// # Expansion Step
//
// Each step pops a frontier vertex and asks the external rewrite capability
// for the next applicable rule, resuming at the vertex's cursor. The result
// is recorded as one of:
//
//   - a fresh vertex and its justifying edge (enqueued, keep searching)
//   - a discarded duplicate on the same side (retry the same vertex)
//   - the meeting edge connecting the two trees (terminal success)
//
// A vertex whose rule iterator is exhausted is marked visited and the loop
// moves to the next frontier vertex. On meeting, the proof is reconstructed
// by walking parent edges from both endpoints of the meeting edge back to
// their roots and handing the stitched chain to the caller's composer.
package engine
