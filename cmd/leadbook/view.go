package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/leadbook"
	"golang.org/x/sync/errgroup"
)

// options converts the flags into view options.
func (f ViewFlags) options() (leadbook.ViewOptions, error) {
	sortBy, err := leadbook.ParseSortKey(f.Sort)
	if err != nil {
		return leadbook.ViewOptions{}, err
	}

	opts := leadbook.ViewOptions{
		Query:  f.Query,
		SortBy: sortBy,
	}
	for _, tf := range []struct {
		name  string
		value string
		dst   **bool
	}{
		{"website", f.Website, &opts.HasWebsite},
		{"phone", f.Phone, &opts.HasPhone},
		{"email", f.Email, &opts.HasEmail},
		{"address", f.Address, &opts.HasAddress},
	} {
		if *tf.dst, err = triState(tf.name, tf.value); err != nil {
			return leadbook.ViewOptions{}, err
		}
	}
	for _, s := range f.Status {
		status, err := leadbook.ParseStatus(s)
		if err != nil {
			return leadbook.ViewOptions{}, err
		}
		opts.Statuses = append(opts.Statuses, status)
	}
	return opts, nil
}

// triState maps "yes" and "no" to a constraint and "any" or "" to none.
func triState(name, v string) (*bool, error) {
	switch v {
	case "", "any":
		return nil, nil
	case "yes":
		b := true
		return &b, nil
	case "no":
		b := false
		return &b, nil
	}
	return nil, leadbook.Errorf(leadbook.EINVALID, "invalid --%s value %q: want any, yes or no", name, v)
}

// loadSaved fetches every saved business and tracking entry concurrently.
// An unavailable store yields empty results and a warning.
func loadSaved(deps *Dependencies) ([]*leadbook.Business, leadbook.TrackingTable, error) {
	var businesses []*leadbook.Business
	var tracking leadbook.TrackingTable

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		var err error
		businesses, err = deps.Businesses.FindBusinesses(ctx, leadbook.BusinessFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		tracking, err = deps.Tracking.FindAllTracking(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if leadbook.ErrorCode(err) == leadbook.EUNAVAILABLE {
			fmt.Fprintf(deps.Stderr, "warning: %s\n", leadbook.ErrorMessage(err))
			return nil, leadbook.TrackingTable{}, nil
		}
		return nil, nil, err
	}
	return businesses, tracking, nil
}

// urlList normalizes flag values the same way stored URL lists are.
func urlList(values []string) (leadbook.URLList, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return leadbook.NormalizeURLs(raw)
}

// describe renders a one-line summary of a business.
func describe(b *leadbook.Business) string {
	line := fmt.Sprintf("%s  %s", b.ID, b.Name)
	if b.Phone != "" {
		line += "  " + b.Phone
	}
	if site := b.Websites.First(); site != "" {
		line += "  " + site
	}
	return line
}
