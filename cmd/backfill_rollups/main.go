package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fairlead/chartering-backend/internal/app"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// Walks fixtures and re-runs the rollup repair. The recompute is
// idempotent, so the walk is safe to re-run after any partial failure.
func main() {
	var fixtures idList
	var dryRun bool
	var limit int
	var concurrency int
	flag.Var(&fixtures, "fixture", "fixture id to repair (repeatable; default all)")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned repairs without writing")
	flag.IntVar(&limit, "limit", 0, "limit number of fixtures processed")
	flag.IntVar(&concurrency, "concurrency", 4, "parallel repairs")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	var ids []uuid.UUID
	if len(fixtures) > 0 {
		for _, s := range fixtures {
			id, err := uuid.Parse(strings.TrimSpace(s))
			if err == nil && id != uuid.Nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			fmt.Println("no valid fixture ids provided")
			return
		}
	} else {
		ids, err = application.Services.Fixture.ListIDs(ctx)
		if err != nil {
			fmt.Printf("list fixtures: %v\n", err)
			os.Exit(1)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	if dryRun {
		for _, id := range ids {
			fmt.Printf("[dry-run] repair rollups fixture_id=%s\n", id)
		}
		fmt.Printf("[dry-run] %d fixtures\n", len(ids))
		return
	}

	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := application.Services.Fixture.RecomputeRollups(gctx, nil, id); err != nil {
				return fmt.Errorf("fixture %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("backfill incomplete: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("repaired %d fixtures\n", len(ids))
}
