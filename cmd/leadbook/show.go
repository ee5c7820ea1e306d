package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/leadbook"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	b, err := deps.Businesses.FindBusinessByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	tracking, err := deps.Tracking.FindTracking(deps.Ctx, c.ID)
	if err != nil && leadbook.ErrorCode(err) != leadbook.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	w := deps.Stdout
	fmt.Fprintf(w, "%s\n", b.Name)
	fmt.Fprintf(w, "  ID:       %s\n", b.ID)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-9s %s\n", label+":", value)
		}
	}
	field("Category", b.Category)
	field("Address", b.Address)
	field("City", joinNonEmpty(", ", b.City, b.State))
	field("Phone", b.Phone)
	field("Email", b.Email)
	field("Websites", strings.Join(b.Websites, ", "))
	field("Demos", strings.Join(b.Demos, ", "))
	if b.Latitude != nil && b.Longitude != nil {
		field("Location", fmt.Sprintf("%.6f, %.6f", *b.Latitude, *b.Longitude))
	}
	field("Hours", b.OpeningHours)
	field("Source", string(b.Source))

	if tracking == nil {
		fmt.Fprintf(w, "  Status:   %s\n", leadbook.StatusNone.DisplayName())
		return nil
	}
	fmt.Fprintf(w, "  Status:   %s\n", tracking.Status.DisplayName())
	field("Notes", tracking.Notes)
	fmt.Fprintf(w, "  Updated:  %s\n", tracking.UpdatedAt.In(deps.location()).Format(leadbook.CSVTimeLayout))
	return nil
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
