package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/leadbook"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Businesses leadbook.BusinessService
	Tracking   leadbook.TrackingService
	Searcher   leadbook.Searcher
	Categories leadbook.CategoryLister
	Exports    leadbook.ExportStore
	Logger     *slog.Logger

	// Location renders export timestamps. Nil means UTC.
	Location *time.Location

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

func (d *Dependencies) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service calls to stderr"`

	Search     SearchCmd     `cmd:"" help:"Search the business directory near a location"`
	Add        AddCmd        `cmd:"" help:"Add a business by hand"`
	List       ListCmd       `cmd:"" help:"List saved businesses"`
	Export     ExportCmd     `cmd:"" help:"Export saved businesses to CSV"`
	Show       ShowCmd       `cmd:"" help:"Show a saved business and its tracking"`
	Update     UpdateCmd     `cmd:"" help:"Update fields of a saved business"`
	Delete     DeleteCmd     `cmd:"" help:"Delete a saved business and its tracking"`
	Track      TrackCmd      `cmd:"" help:"Set outreach status or notes for a business"`
	Categories CategoriesCmd `cmd:"" help:"List search categories"`
	Keyring    KeyringCmd    `cmd:"" help:"Manage the Postgres DSN stored in the OS keychain"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Location string   `arg:"" help:"City or address to search around"`
	Category string   `short:"c" default:"restaurant" help:"Business category (see 'leadbook categories')"`
	Radius   float64  `short:"r" default:"10" help:"Search radius in miles"`
	SaveAll  bool     `name:"save-all" help:"Save every result that is not saved yet"`
	Save     []string `short:"s" help:"Save the result with this ID (repeatable)"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name      string   `arg:"" help:"Business name"`
	Category  string   `help:"Category"`
	Address   string   `help:"Street address"`
	City      string   `help:"City"`
	State     string   `help:"State"`
	Phone     string   `help:"Phone number"`
	Email     string   `help:"Email address"`
	Website   []string `help:"Website URL (repeatable)"`
	Demo      []string `help:"Demo site URL (repeatable)"`
	Latitude  *float64 `name:"lat" help:"Latitude"`
	Longitude *float64 `name:"lon" help:"Longitude"`
}

// ViewFlags select and order businesses for list and export.
type ViewFlags struct {
	Query   string   `short:"q" help:"Match name, address, email or phone digits"`
	Website string   `enum:"any,yes,no" default:"any" help:"Filter on having a website (any, yes, no)"`
	Phone   string   `enum:"any,yes,no" default:"any" help:"Filter on having a phone (any, yes, no)"`
	Email   string   `enum:"any,yes,no" default:"any" help:"Filter on having an email (any, yes, no)"`
	Address string   `enum:"any,yes,no" default:"any" help:"Filter on having an address (any, yes, no)"`
	Status  []string `help:"Keep businesses with this status (repeatable)"`
	Sort    string   `enum:"name-asc,name-desc,has-website,has-phone" default:"name-asc" help:"Sort order"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	ViewFlags `embed:""`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	ViewFlags `embed:""`
	Output    string `short:"o" help:"Output file, s3://bucket/key, or - for stdout (default businesses_YYYY-MM-DD.csv)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Business ID"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	ID            string   `arg:"" help:"Business ID"`
	Name          *string  `help:"Business name"`
	Category      *string  `help:"Category"`
	Address       *string  `help:"Street address"`
	City          *string  `help:"City"`
	State         *string  `help:"State"`
	Phone         *string  `help:"Phone number"`
	Email         *string  `help:"Email address"`
	Website       []string `help:"Replace websites (repeatable)"`
	Demo          []string `help:"Replace demo sites (repeatable)"`
	ClearWebsites bool     `name:"clear-websites" help:"Remove all websites"`
	ClearDemos    bool     `name:"clear-demos" help:"Remove all demo sites"`
	Latitude      *float64 `name:"lat" help:"Latitude"`
	Longitude     *float64 `name:"lon" help:"Longitude"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Business ID"`
	Force bool   `help:"Confirm deletion"`
}

// TrackCmd is the "track" subcommand.
type TrackCmd struct {
	ID     string  `arg:"" help:"Business ID"`
	Status *string `help:"Outreach status (none, contacted, creating-site, scheduled-meeting)"`
	Notes  *string `help:"Notes, replacing any existing notes"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// KeyringCmd groups the "keyring" subcommands.
type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a Postgres DSN in the OS keychain"`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a Postgres DSN from the OS keychain"`
}

// KeyringSetCmd is the "keyring set" subcommand.
type KeyringSetCmd struct {
	Account string `arg:"" help:"Keychain account name"`
	DSN     string `help:"Postgres DSN to store (read from stdin when omitted)"`
}

// KeyringDeleteCmd is the "keyring delete" subcommand.
type KeyringDeleteCmd struct {
	Account string `arg:"" help:"Keychain account name"`
}
