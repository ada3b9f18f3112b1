// Package vybiumchains searches for minimal signed-digit addition-subtraction
// chains.
//
// An addition-subtraction chain for k starts at 1; every further element is
// (±)a + (±)b·2^r for two earlier elements a and b. Following the chain
// computes k·x with additions, subtractions and doublings only, which is how
// scalar multiplication by a fixed constant is usually done.
//
// The search builds a database from every odd value reachable within a bit
// width to the shortest chains found for it. Each round combines all chains
// found so far into chains one element longer. Values above 2^(width-1) are
// reported but the search is not exhaustive for them.
//
// # Quick Start
//
//	config := vybiumchains.DefaultConfig().WithMaxBitWidth(8).WithRounds(3)
//	searcher, err := vybiumchains.NewSearcher(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := searcher.Run(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
//	searcher.WriteReport(os.Stdout, vybiumchains.ReportOptions{})
//
// # Scalar Multiplication
//
// A finished database drives scalar multiplication over the Goldilocks field:
//
//	y, err := vybiumchains.ScalarMul(searcher.Database(), 45, x)
//
// # Persistence
//
// Searches can be stored and reloaded without rerunning them:
//
//	store, err := vybiumchains.OpenStore("./runs")
//	meta, err := searcher.Save(ctx, store)
//	meta, db, err := vybiumchains.LoadRun(ctx, store, meta.ID)
package vybiumchains
