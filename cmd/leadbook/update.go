package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	upd := leadbook.BusinessUpdate{
		Name:      c.Name,
		Category:  c.Category,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Phone:     c.Phone,
		Email:     c.Email,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}

	if c.ClearWebsites || len(c.Website) > 0 {
		websites, err := urlList(c.Website)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
			return err
		}
		upd.Websites = &websites
	}
	if c.ClearDemos || len(c.Demo) > 0 {
		demos, err := urlList(c.Demo)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
			return err
		}
		upd.Demos = &demos
	}

	if upd == (leadbook.BusinessUpdate{}) {
		fmt.Fprintln(deps.Stderr, "error: no fields to update")
		return leadbook.Errorf(leadbook.EINVALID, "no fields to update")
	}

	b, err := deps.Businesses.UpdateBusiness(deps.Ctx, c.ID, upd)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated business %q (%s)\n", b.Name, b.ID)
	return nil
}
