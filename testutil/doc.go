// Package testutil provides testing utilities for eqsearch.
//
// This package is intended for use in tests and benchmarks only.
// It provides a scripted rewrite capability over plain strings, a
// deterministic proof composer, and helpers for building rule systems.
//
// # Scripted Rewriting
//
//	rw := testutil.NewStubRewriter().
//		Add("a+b", "comm_add", "b+a")
//
// Expressions and proofs are both strings, so a meeting chain composes
// into a readable transcript that tests can assert on.
package testutil
