// Package reconcile matches search results against saved businesses and
// saves them without creating duplicates.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/leadbook"
	"golang.org/x/sync/singleflight"
)

// Candidate is a search result paired with whether it is already saved.
// Saved candidates carry the persisted ID; the rest carry an ephemeral one.
type Candidate struct {
	Business *leadbook.Business
	Saved    bool
}

// Classify marks each candidate whose external ID matches a saved business
// as saved and gives every other candidate a deterministic ephemeral ID.
// The inputs are not modified.
func Classify(candidates, saved []*leadbook.Business) []*Candidate {
	persisted := make(map[string]string, len(saved))
	for _, b := range saved {
		if b.ExternalID != "" {
			persisted[b.ExternalID] = b.ID
		}
	}

	out := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		b := *c
		if id, ok := persisted[b.ExternalID]; ok && b.ExternalID != "" {
			b.ID = id
			out = append(out, &Candidate{Business: &b, Saved: true})
			continue
		}
		b.ID = EphemeralID(&b)
		out = append(out, &Candidate{Business: &b})
	}
	return out
}

// EphemeralID derives a stable in-memory ID from the external ID, or from
// the name and address when the directory gave none.
func EphemeralID(b *leadbook.Business) string {
	key := b.ExternalID
	if key == "" {
		key = b.Name + "\x00" + b.Address
	}
	return fmt.Sprintf("%s%016x", leadbook.EphemeralPrefix, xxhash.Sum64String(key))
}

// SaveResult reports the persisted business for a saved candidate.
type SaveResult struct {
	Business *leadbook.Business

	// Created is false when the business already existed.
	Created bool
}

// Reconciler saves candidates so that at most one business exists per
// external ID.
type Reconciler struct {
	businesses leadbook.BusinessService
	logger     *slog.Logger
	group      singleflight.Group
}

// NewReconciler creates a Reconciler. A nil logger discards output.
func NewReconciler(businesses leadbook.BusinessService, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{businesses: businesses, logger: logger}
}

// Save persists the candidate unless it is already saved. Concurrent saves
// of the same candidate share one store write, and the store's conditional
// insert covers saves from other processes.
func (r *Reconciler) Save(ctx context.Context, c *Candidate) (*SaveResult, error) {
	if c.Saved {
		return &SaveResult{Business: c.Business}, nil
	}

	key := c.Business.ExternalID
	if key == "" {
		key = c.Business.ID
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.save(ctx, c.Business)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SaveResult), nil
}

func (r *Reconciler) save(ctx context.Context, candidate *leadbook.Business) (*SaveResult, error) {
	if candidate.ExternalID != "" {
		existing, err := r.businesses.FindBusinesses(ctx, leadbook.BusinessFilter{
			ExternalID: &candidate.ExternalID,
			Limit:      1,
		})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return &SaveResult{Business: existing[0]}, nil
		}
	}

	b := *candidate
	b.ID = ""
	b.Source = leadbook.SourceSearch

	created, err := r.businesses.EnsureBusiness(ctx, &b)
	if err != nil {
		return nil, err
	}
	if !created {
		r.logger.Info("business saved concurrently", "external_id", b.ExternalID, "id", b.ID)
	}
	return &SaveResult{Business: &b, Created: created}, nil
}
