// Package token interns fragments of pretty-printed expressions and tracks
// how often each fragment occurs on the left and right side of the goal.
//
// The table is the basis of the approximate-match heuristics: every vertex
// carries the ordered token ids of its pretty form, a roaring-bitmap posting
// index maps tokens back to vertices, and the scorer ranks candidates by
// weighted token overlap with the opposite goal side.
//
// # Thread Safety
//
// Table and Postings are safe for concurrent use.
package token
