package main

import (
	"fmt"

	"github.com/fwojciec/leadbook"
)

// Run executes the track command.
func (c *TrackCmd) Run(deps *Dependencies) error {
	var upd leadbook.TrackingUpdate
	if c.Status != nil {
		status, err := leadbook.ParseStatus(*c.Status)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
			return err
		}
		upd.Status = &status
	}
	upd.Notes = c.Notes

	if upd.Status == nil && upd.Notes == nil {
		fmt.Fprintln(deps.Stderr, "error: set --status or --notes")
		return leadbook.Errorf(leadbook.EINVALID, "set --status or --notes")
	}

	tracking, err := deps.Tracking.SaveTracking(deps.Ctx, c.ID, upd)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %s\n", c.ID, tracking.Status.DisplayName())
	return nil
}
