package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
	"github.com/fwojciec/leadbook/reconcile"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	q := leadbook.SearchQuery{
		Location:     c.Location,
		Category:     c.Category,
		RadiusMeters: leadbook.MilesToMeters(c.Radius),
	}

	session := reconcile.NewSession(deps.Searcher, deps.Businesses, deps.Logger)
	saved, unsaved, err := session.Search(deps.Ctx, q)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	if len(saved)+len(unsaved) == 0 {
		fmt.Fprintln(deps.Stdout, "No businesses found. Try a larger radius or another category.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Found %d businesses (%d already saved)\n", len(saved)+len(unsaved), len(saved))
	for _, cand := range unsaved {
		fmt.Fprintf(deps.Stdout, "  %s\n", describe(cand.Business))
	}
	for _, cand := range saved {
		fmt.Fprintf(deps.Stdout, "  %s  (saved)\n", describe(cand.Business))
	}

	ids := c.Save
	if c.SaveAll {
		ids = ids[:0:0]
		for _, cand := range unsaved {
			ids = append(ids, cand.Business.ID)
		}
	}

	// A failed save is reported and the rest are still attempted.
	var firstErr error
	failed := 0
	for _, id := range ids {
		result, err := session.Save(deps.Ctx, id)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to save %s: %s\n", id, leadbook.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			failed++
			continue
		}
		if result.Created {
			fmt.Fprintf(deps.Stdout, "Saved %q (%s)\n", result.Business.Name, result.Business.ID)
		} else {
			fmt.Fprintf(deps.Stdout, "Already saved %q (%s)\n", result.Business.Name, result.Business.ID)
		}
	}

	if failed > 0 {
		fmt.Fprintf(deps.Stderr, "%d of %d saves failed\n", failed, len(ids))
	}
	return firstErr
}
