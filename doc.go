// Package eqsearch provides a bidirectional proof-search engine for
// equational goals.
//
// Given two expressions and a rewrite capability that enumerates
// justified rule applications, the engine grows one search tree from
// each side of the goal and stops as soon as an edge connects them.
// The per-edge proofs along the two root paths are then composed into
// a single proof equating the goal sides.
//
// The engine is generic over the caller's expression type E and proof
// type P and never inspects either; deduplication happens on canonical
// pretty-printed forms supplied by the caller.
//
// # Quick Start
//
//	engine, err := eqsearch.New[string, string](rewriter, composer,
//		eqsearch.WithMaxSteps(10_000),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	result, err := engine.Search(ctx, lhs, rhs, "f(a)", "g(b)")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Status == eqsearch.StatusSuccess {
//		fmt.Println(result.Proof)
//	}
//
// # Outcomes
//
// Success and exhaustion are ordinary outcomes carried in the Result.
// Budget trips, context cancellation and rewrite or composition
// failures abort the search and come back as an *AbortError; use
// errors.Is with ErrBudgetExhausted or context.Canceled to tell them
// apart.
//
// # Budgets and Strategies
//
// WithMaxSteps caps the total number of expansion steps across both
// trees and trips an abort when exceeded. WithMaxDepth silently drops
// frontier entries beyond the cap, so an out-of-depth goal surfaces as
// exhaustion. WithStrategy selects the frontier order; breadth-first
// and best-first come built in and custom strategies register through
// a strategy.Registry.
//
// # Persistence
//
//	// Journal every search event to an append-only log.
//	engine, _ := eqsearch.New[string, string](rw, comp,
//		eqsearch.WithJournal("./search.journal"),
//	)
//
//	// Archive the finished session to any blob store.
//	store, _ := blobstore.NewLocalStore("./archives")
//	_ = engine.Archive(ctx, store, "session-001")
//	sess, _ := eqsearch.LoadArchive(ctx, store, "session-001")
//
// Blob stores back archived sessions on the local filesystem, in
// memory, on S3 (optionally with DynamoDB commit markers) or on any
// S3-compatible endpoint via MinIO.
package eqsearch
