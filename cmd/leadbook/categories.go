package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fwojciec/leadbook"
)

// Run executes the categories command. The built-in list is shown when the
// directory cannot be reached.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	categories, err := deps.Categories.Categories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %s; showing built-in categories\n", leadbook.ErrorMessage(err))
		categories = leadbook.Categories
	}

	for _, key := range slices.Sorted(maps.Keys(categories)) {
		fmt.Fprintf(deps.Stdout, "%-18s %s\n", key, categories[key])
	}
	return nil
}
