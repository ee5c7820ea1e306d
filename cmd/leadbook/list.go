package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	businesses, tracking, err := loadSaved(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	view := leadbook.ApplyView(businesses, tracking, opts)
	if len(view) == 0 {
		if len(businesses) == 0 {
			fmt.Fprintln(deps.Stdout, "No businesses found. Use 'leadbook search' or 'leadbook add' to add some.")
		} else {
			fmt.Fprintln(deps.Stdout, "No businesses match the filters.")
		}
		return nil
	}

	for _, b := range view {
		fmt.Fprintf(deps.Stdout, "%s  [%s]\n", describe(b), tracking.StatusOf(b.ID).DisplayName())
	}
	fmt.Fprintf(deps.Stdout, "%d of %d businesses\n", len(view), len(businesses))

	return nil
}
