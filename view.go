package leadbook

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a business view.
type SortKey string

// SortKey values for ViewOptions.
const (
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortHasWebsite SortKey = "has-website"
	SortHasPhone   SortKey = "has-phone"
)

// SortKeys lists every valid sort key.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortHasWebsite, SortHasPhone}

// ParseSortKey returns the SortKey named by s. An empty s selects SortNameAsc.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNameAsc, nil
	}
	for _, key := range SortKeys {
		if string(key) == s {
			return key, nil
		}
	}
	return "", Errorf(EINVALID, "unknown sort key %q", s)
}

// ViewOptions configures ApplyView.
//
// The Has* fields are tri-state: nil places no constraint, true keeps only
// businesses with the field set and false keeps only those without it.
type ViewOptions struct {
	Query string

	HasWebsite *bool
	HasPhone   *bool
	HasEmail   *bool
	HasAddress *bool

	// Statuses keeps businesses whose tracking status is any of the listed
	// values. Empty means any status.
	Statuses []Status

	SortBy SortKey
}

// ApplyView filters and sorts businesses. It applies the free-text query,
// then the field and status filters, then a stable sort. The result depends
// only on its arguments and the input slice is not modified.
func ApplyView(businesses []*Business, tracking TrackingTable, opts ViewOptions) []*Business {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	result := make([]*Business, 0, len(businesses))
	for _, b := range businesses {
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		if !matchesFilters(b, tracking, opts) {
			continue
		}
		result = append(result, b)
	}

	sortBusinesses(result, opts.SortBy)
	return result
}

// matchesQuery reports whether a lowercased query appears in the name,
// address or email. Phones are compared on digits alone, and only when the
// query itself looks like a phone number.
func matchesQuery(b *Business, query string) bool {
	if strings.Contains(strings.ToLower(b.Name), query) ||
		strings.Contains(strings.ToLower(b.Address), query) ||
		strings.Contains(strings.ToLower(b.Email), query) {
		return true
	}
	if d, ok := phoneDigits(query); ok && d != "" {
		pd, _ := phoneDigits(b.Phone)
		return strings.Contains(pd, d)
	}
	return false
}

// phoneDigits returns the digits of s. ok is false if s contains anything
// other than digits and common phone punctuation.
func phoneDigits(s string) (digits string, ok bool) {
	var sb strings.Builder
	ok = true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case strings.ContainsRune(" +-().", r):
		default:
			ok = false
		}
	}
	return sb.String(), ok
}

func matchesFilters(b *Business, tracking TrackingTable, opts ViewOptions) bool {
	if !matchTriState(opts.HasWebsite, b.HasWebsite()) ||
		!matchTriState(opts.HasPhone, b.HasPhone()) ||
		!matchTriState(opts.HasEmail, b.HasEmail()) ||
		!matchTriState(opts.HasAddress, b.HasAddress()) {
		return false
	}
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, tracking.StatusOf(b.ID)) {
		return false
	}
	return true
}

func matchTriState(want *bool, has bool) bool {
	return want == nil || *want == has
}

func sortBusinesses(businesses []*Business, key SortKey) {
	// Collators keep internal buffers, so each sort gets its own.
	c := collate.New(language.English)
	byName := func(a, b *Business) int {
		return c.CompareString(a.Name, b.Name)
	}
	present := func(has func(*Business) bool) func(a, b *Business) int {
		return func(a, b *Business) int {
			ha, hb := has(a), has(b)
			if ha != hb {
				if ha {
					return -1
				}
				return 1
			}
			return byName(a, b)
		}
	}

	switch key {
	case SortNameAsc, "":
		slices.SortStableFunc(businesses, byName)
	case SortNameDesc:
		slices.SortStableFunc(businesses, func(a, b *Business) int { return byName(b, a) })
	case SortHasWebsite:
		slices.SortStableFunc(businesses, present((*Business).HasWebsite))
	case SortHasPhone:
		slices.SortStableFunc(businesses, present((*Business).HasPhone))
	}
}
