package main

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/leadbook"
	lbfs "github.com/fwojciec/leadbook/fs"
	lbs3 "github.com/fwojciec/leadbook/s3"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
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
		fmt.Fprintln(deps.Stderr, "No businesses to export.")
		return nil
	}

	if c.Output == "-" {
		return leadbook.WriteCSV(deps.Stdout, view, tracking, deps.location())
	}
	if lbs3.IsURL(c.Output) {
		return c.upload(deps, view, tracking)
	}

	path := c.Output
	if path == "" {
		path = leadbook.ExportFilename(deps.now())
	}
	if err := lbfs.NewExportFile(path).Write(view, tracking, deps.location()); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", path, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d businesses to %s\n", len(view), path)
	return nil
}

// upload renders the export and stores it at the s3:// URL in Output.
func (c *ExportCmd) upload(deps *Dependencies, view []*leadbook.Business, tracking leadbook.TrackingTable) error {
	bucket, key, err := lbs3.ParseURL(c.Output, leadbook.ExportFilename(deps.now()))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}
	if deps.Exports == nil {
		err := leadbook.Errorf(leadbook.EUNAVAILABLE, "object storage is not configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	var buf bytes.Buffer
	if err := leadbook.WriteCSV(&buf, view, tracking, deps.location()); err != nil {
		return err
	}
	if err := deps.Exports.PutExport(deps.Ctx, bucket, key, buf.Bytes()); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d businesses to s3://%s/%s\n", len(view), bucket, key)
	return nil
}
