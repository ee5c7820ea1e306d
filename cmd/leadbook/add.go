package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	websites, err := urlList(c.Website)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}
	demos, err := urlList(c.Demo)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	business := &leadbook.Business{
		Name:      c.Name,
		Category:  c.Category,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Phone:     c.Phone,
		Email:     c.Email,
		Websites:  websites,
		Demos:     demos,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Source:    leadbook.SourceManual,
	}

	if err := deps.Businesses.CreateBusiness(deps.Ctx, business); err != nil {
		if leadbook.ErrorCode(err) == leadbook.EUNAVAILABLE {
			business.ID = leadbook.PlaceholderID()
			fmt.Fprintf(deps.Stdout, "Added business %q (%s)\n", business.Name, business.ID)
			fmt.Fprintf(deps.Stderr, "warning: store unavailable, business was not saved\n")
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added business %q (%s)\n", business.Name, business.ID)
	return nil
}
