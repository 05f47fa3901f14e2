package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/eqsearch"
	"github.com/hupe1980/eqsearch/blobstore"
	"github.com/hupe1980/eqsearch/engine"
	"github.com/hupe1980/eqsearch/testutil"
)

func main() {
	ctx := context.Background()

	// Script a small group-theory flavored rule set. Real callers plug in
	// a rewrite capability backed by their own term representation.
	rw := testutil.NewStubRewriter().
		Add("(a * b) * c", "mul_assoc", "a * (b * c)").
		Add("a * (b * c)", "mul_comm_r", "a * (c * b)").
		Add("(c * b) * a", "mul_comm", "a * (c * b)").
		Add("(c * b) * a", "mul_assoc", "c * (b * a)")

	mc := &eqsearch.BasicMetricsCollector{}

	eng, err := eqsearch.New[string, string](rw, testutil.Composer{},
		eqsearch.WithMaxSteps(10_000),
		eqsearch.WithMetricsCollector(mc),
		eqsearch.WithObserver(func(ev engine.Event) {
			if ev.Kind == engine.EventMeeting {
				fmt.Printf("trees met at %q after %d steps\n", ev.Pretty, ev.Step)
			}
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	fmt.Println("--- Search ---")

	start := time.Now()

	result, err := eng.Search(ctx,
		"(a * b) * c", "(c * b) * a",
		"(a * b) * c", "(c * b) * a")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %s (%.2fms)\n", result.Status, float64(time.Since(start).Microseconds())/1000)

	for i, step := range result.Steps {
		rule := step.Rule.Name
		if step.Reversed {
			rule = "~" + rule
		}
		fmt.Printf("  %d. %s -> %s  [%s]\n", i+1, step.From, step.To, rule)
	}
	fmt.Printf("Proof: %s\n\n", result.Proof)

	stats := eng.Stats()
	fmt.Println("--- Stats ---")
	fmt.Printf("Tokens: %d  Vertices: %d  Edges: %d  Steps: %d  MaxDepth: %d\n\n",
		stats.Tokens, stats.Vertices, stats.Edges, stats.Steps, stats.MaxDepthReached)

	snap := mc.Snapshot()
	fmt.Printf("Avg search: %.2fms\n\n", float64(snap.SearchAvgNanos)/1e6)

	fmt.Println("--- Archive ---")

	store, err := blobstore.NewLocalStore("./archives")
	if err != nil {
		log.Fatal(err)
	}

	if err := eng.Archive(ctx, store, "demo-session"); err != nil {
		log.Fatal(err)
	}

	sess, err := eqsearch.LoadArchive(ctx, store, "demo-session")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Archived session %s: %d vertices, %d edges, %d steps\n",
		sess.ID, len(sess.Vertices), len(sess.Edges), len(sess.Steps))
}
