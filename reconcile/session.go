package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/fwojciec/leadbook"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned by Session.Search when a newer search was
// started before this one finished. The session keeps the newer results.
var ErrSuperseded = errors.New("search superseded by a newer search")

// Session holds the saved and unsaved candidates of the most recent search.
// It is safe for concurrent use.
type Session struct {
	searcher   leadbook.Searcher
	businesses leadbook.BusinessService
	reconciler *Reconciler
	logger     *slog.Logger

	mu      sync.Mutex
	seq     uint64
	saved   []*Candidate
	unsaved []*Candidate

	// moved maps the ephemeral ID of each candidate saved through the
	// session to its saved candidate.
	moved map[string]*Candidate
}

// NewSession creates a Session. A nil logger discards output.
func NewSession(searcher leadbook.Searcher, businesses leadbook.BusinessService, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		searcher:   searcher,
		businesses: businesses,
		reconciler: NewReconciler(businesses, logger),
		logger:     logger,
	}
}

// Search queries the directory and lists saved businesses concurrently,
// then classifies the results. If the saved list cannot be loaded every
// result is treated as unsaved.
func (s *Session) Search(ctx context.Context, q leadbook.SearchQuery) (saved, unsaved []*Candidate, err error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	var results, existing []*leadbook.Business
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.searcher.Search(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = s.businesses.FindBusinesses(gctx, leadbook.BusinessFilter{})
		if err != nil {
			s.logger.Warn("list saved businesses", "err", err)
			existing = nil
		}
		return nil
	})
	searchErr := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return nil, nil, ErrSuperseded
	}
	if searchErr != nil {
		return nil, nil, searchErr
	}

	s.saved, s.unsaved = nil, nil
	s.moved = make(map[string]*Candidate)
	for _, c := range Classify(results, existing) {
		if c.Saved {
			s.saved = append(s.saved, c)
		} else {
			s.unsaved = append(s.unsaved, c)
		}
	}
	return slices.Clone(s.saved), slices.Clone(s.unsaved), nil
}

// Saved returns the saved candidates of the last applied search.
func (s *Session) Saved() []*Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved)
}

// Unsaved returns the unsaved candidates of the last applied search.
func (s *Session) Unsaved() []*Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.unsaved)
}

// Save persists the unsaved candidate with the given ephemeral ID and moves
// it to the saved set. Saving a candidate that is already saved returns it
// without a write. Returns ENOTFOUND if no candidate has the ID.
func (s *Session) Save(ctx context.Context, id string) (*SaveResult, error) {
	s.mu.Lock()
	c := s.find(id)
	s.mu.Unlock()
	if c == nil {
		return nil, leadbook.Errorf(leadbook.ENOTFOUND, "search result %q not found", id)
	}

	result, err := s.reconciler.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.unsaved, c); i >= 0 {
		moved := &Candidate{Business: result.Business, Saved: true}
		s.unsaved = slices.Delete(s.unsaved, i, i+1)
		s.saved = append(s.saved, moved)
		s.moved[id] = moved
	}
	return result, nil
}

// find returns the candidate with id from either set. Callers hold mu.
func (s *Session) find(id string) *Candidate {
	for _, c := range s.unsaved {
		if c.Business.ID == id {
			return c
		}
	}
	for _, c := range s.saved {
		if c.Business.ID == id {
			return c
		}
	}
	return s.moved[id]
}
