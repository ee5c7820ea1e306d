package leadbook

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Source tags where a business record came from.
type Source string

// Source values.
const (
	SourceManual Source = "manual"
	SourceSearch Source = "osm"
)

// Business represents a local business, either saved in the store or
// returned by a search and not yet saved.
type Business struct {
	ID           string    `json:"id"`
	ExternalID   string    `json:"osm_identifier,omitempty"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Address      string    `json:"address"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Websites     URLList   `json:"websites"`
	Demos        URLList   `json:"demos"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	Source       Source    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UnmarshalJSON decodes a business document, folding the legacy singular
// "website" and "our_website" fields into Websites and Demos.
func (b *Business) UnmarshalJSON(data []byte) error {
	type alias Business
	aux := struct {
		*alias
		Websites   json.RawMessage `json:"websites"`
		Demos      json.RawMessage `json:"demos"`
		Website    json.RawMessage `json:"website"`
		OurWebsite json.RawMessage `json:"our_website"`
	}{alias: (*alias)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if b.Websites, err = normalizeWithLegacy(aux.Websites, aux.Website); err != nil {
		return fmt.Errorf("websites: %w", err)
	}
	if b.Demos, err = normalizeWithLegacy(aux.Demos, aux.OurWebsite); err != nil {
		return fmt.Errorf("demos: %w", err)
	}
	return nil
}

func normalizeWithLegacy(list, legacy json.RawMessage) (URLList, error) {
	urls, err := NormalizeURLs(list)
	if err != nil || len(urls) > 0 {
		return urls, err
	}
	return NormalizeURLs(legacy)
}

// HasWebsite reports whether the business lists at least one website.
func (b *Business) HasWebsite() bool { return len(b.Websites) > 0 }

// HasPhone reports whether the business has a phone number.
func (b *Business) HasPhone() bool { return strings.TrimSpace(b.Phone) != "" }

// HasEmail reports whether the business has an email address.
func (b *Business) HasEmail() bool { return strings.TrimSpace(b.Email) != "" }

// HasAddress reports whether the business has an address.
func (b *Business) HasAddress() bool { return strings.TrimSpace(b.Address) != "" }

var (
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRE   = regexp.MustCompile(`^https?://.+`)
)

// Validate returns an EINVALID error listing every malformed field.
func (b *Business) Validate() error {
	errs := fieldErrors{}

	if strings.TrimSpace(b.Name) == "" {
		errs["name"] = "business name is required"
	}
	if b.Email != "" && !emailRE.MatchString(b.Email) {
		errs["email"] = "invalid email address"
	}
	for _, u := range b.Websites {
		if !urlRE.MatchString(u) {
			errs["websites"] = fmt.Sprintf("%q must start with http:// or https://", u)
			break
		}
	}
	for _, u := range b.Demos {
		if !urlRE.MatchString(u) {
			errs["demos"] = fmt.Sprintf("%q must start with http:// or https://", u)
			break
		}
	}
	if b.Latitude != nil && (*b.Latitude < -90 || *b.Latitude > 90) {
		errs["latitude"] = "latitude must be between -90 and 90"
	}
	if b.Longitude != nil && (*b.Longitude < -180 || *b.Longitude > 180) {
		errs["longitude"] = "longitude must be between -180 and 180"
	}
	switch b.Source {
	case "", SourceManual, SourceSearch:
	default:
		errs["source"] = fmt.Sprintf("unknown source %q", b.Source)
	}

	return errs.err("business")
}

// ValidateForInsert checks business before it is first stored. Directory
// results are stored as the directory returned them, so only their source
// is checked; every other record gets the full Validate.
func (b *Business) ValidateForInsert() error {
	if b.Source != SourceSearch {
		return b.Validate()
	}
	return nil
}

// Apply merges the non-nil fields of upd into b.
func (b *Business) Apply(upd BusinessUpdate) {
	if upd.Name != nil {
		b.Name = *upd.Name
	}
	if upd.Category != nil {
		b.Category = *upd.Category
	}
	if upd.Address != nil {
		b.Address = *upd.Address
	}
	if upd.City != nil {
		b.City = *upd.City
	}
	if upd.State != nil {
		b.State = *upd.State
	}
	if upd.Phone != nil {
		b.Phone = *upd.Phone
	}
	if upd.Email != nil {
		b.Email = *upd.Email
	}
	if upd.Websites != nil {
		b.Websites = *upd.Websites
	}
	if upd.Demos != nil {
		b.Demos = *upd.Demos
	}
	if upd.Latitude != nil {
		b.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		b.Longitude = upd.Longitude
	}
	if upd.OpeningHours != nil {
		b.OpeningHours = *upd.OpeningHours
	}
}

// BusinessService represents a service for managing saved businesses.
type BusinessService interface {
	// CreateBusiness validates and saves a new business, assigning its ID
	// and timestamps. Source defaults to SourceManual.
	// Returns ECONFLICT if another business has the same external ID.
	// Returns EUNAVAILABLE if the store cannot be reached.
	CreateBusiness(ctx context.Context, business *Business) error

	// EnsureBusiness saves business unless one with the same external ID
	// already exists, as a single conditional write. When a business
	// already exists, business is overwritten with the stored record and
	// created is false.
	EnsureBusiness(ctx context.Context, business *Business) (created bool, err error)

	// FindBusinessByID retrieves a business by ID.
	// Returns ENOTFOUND if business does not exist.
	FindBusinessByID(ctx context.Context, id string) (*Business, error)

	// FindBusinesses retrieves businesses matching the filter, newest first.
	FindBusinesses(ctx context.Context, filter BusinessFilter) ([]*Business, error)

	// UpdateBusiness merges upd into an existing business.
	// Returns ENOTFOUND if business does not exist.
	UpdateBusiness(ctx context.Context, id string, upd BusinessUpdate) (*Business, error)

	// DeleteBusiness permanently removes a business and its tracking entry.
	// Returns ENOTFOUND if business does not exist.
	DeleteBusiness(ctx context.Context, id string) error
}

// BusinessFilter represents a filter for FindBusinesses.
type BusinessFilter struct {
	ID         *string `json:"id"`
	ExternalID *string `json:"externalId"`
	Category   *string `json:"category"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// BusinessUpdate represents fields that can be updated on a business.
type BusinessUpdate struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email"`
	Websites     *URLList `json:"websites"`
	Demos        *URLList `json:"demos"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	OpeningHours *string  `json:"opening_hours"`
}
