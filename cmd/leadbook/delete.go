package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return leadbook.Errorf(leadbook.EINVALID, "use --force to confirm deletion")
	}

	b, err := deps.Businesses.FindBusinessByID(deps.Ctx, c.ID)
	if err != nil {
		if leadbook.ErrorCode(err) == leadbook.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: business %q not found. Use 'leadbook list' to see saved businesses.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	if err := deps.Businesses.DeleteBusiness(deps.Ctx, b.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted business %q\n", b.Name)
	return nil
}
