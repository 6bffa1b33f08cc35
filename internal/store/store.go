package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/logger"
)

var ErrNotFound = errors.New("knot not found")

// Store is the authoritative view of the knot collection, the selected knot
// and whether the side panel is open. Knots are persisted through KnotRepo;
// the panel-open flag lives for the process only.
type Store struct {
	mu       sync.RWMutex
	repo     *KnotRepo
	knots    []knot.Knot
	selected string
	menuOpen bool
	now      func() time.Time
}

// New loads the collection and the saved selection from repo.
func New(ctx context.Context, repo *KnotRepo) (*Store, error) {
	s := &Store{repo: repo, menuOpen: true, now: Now}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the collection from the database.
func (s *Store) Reload(ctx context.Context) error {
	knots, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list knots: %w", err)
	}
	selected, err := s.repo.GetState(ctx, stateSelected)
	if err != nil {
		return fmt.Errorf("load selection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.knots = knots
	if !knot.Contains(knots, selected) {
		selected = ""
	}
	s.selected = selected
	return nil
}

// Knots returns the collection in insertion order.
func (s *Store) Knots() []knot.Knot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]knot.Knot, len(s.knots))
	copy(out, s.knots)
	return out
}

// Get returns the knot with id.
func (s *Store) Get(id string) (knot.Knot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return knot.Find(s.knots, id)
}

// Selected returns the selected knot id, or "" when none is selected.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// MenuOpen reports whether the side panel is visible.
func (s *Store) MenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menuOpen
}

func (s *Store) SetMenuOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = open
}

// SelectKnot marks id as selected. Unknown ids are ignored. Persisting the
// selection is best effort; a failure is logged and the in-memory selection
// still changes.
func (s *Store) SelectKnot(id string) {
	s.mu.Lock()
	if !knot.Contains(s.knots, id) {
		s.mu.Unlock()
		logger.Get().Debug("select ignored, unknown knot", "id", id)
		return
	}
	s.selected = id
	s.mu.Unlock()

	if err := s.repo.SetState(context.Background(), stateSelected, id); err != nil {
		logger.Get().Warn("persist selection", "id", id, "err", err)
	}
}

// CreateKnot appends a new knot and selects it.
func (s *Store) CreateKnot(ctx context.Context, name, code string) (knot.Knot, error) {
	now := s.now()
	k := knot.Knot{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := knot.Validate(k); err != nil {
		return knot.Knot{}, err
	}
	if err := s.repo.Insert(ctx, k); err != nil {
		return knot.Knot{}, fmt.Errorf("insert knot: %w", err)
	}
	if err := s.repo.SetState(ctx, stateSelected, k.ID); err != nil {
		return knot.Knot{}, fmt.Errorf("select new knot: %w", err)
	}

	s.mu.Lock()
	s.knots = append(s.knots, k)
	s.selected = k.ID
	s.mu.Unlock()

	logger.Get().Info("knot created", "id", k.ID, "name", k.Name)
	return k, nil
}

// UpdateKnot saves a new name and code for an existing knot.
func (s *Store) UpdateKnot(ctx context.Context, k knot.Knot) (knot.Knot, error) {
	k.Name = strings.TrimSpace(k.Name)
	if err := knot.Validate(k); err != nil {
		return knot.Knot{}, err
	}
	k.UpdatedAt = s.now()
	found, err := s.repo.Update(ctx, k)
	if err != nil {
		return knot.Knot{}, fmt.Errorf("update knot: %w", err)
	}
	if !found {
		return knot.Knot{}, fmt.Errorf("%w: %s", ErrNotFound, k.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.knots {
		if s.knots[i].ID == k.ID {
			k.CreatedAt = s.knots[i].CreatedAt
			s.knots[i] = k
			break
		}
	}
	logger.Get().Info("knot updated", "id", k.ID, "name", k.Name)
	return k, nil
}

// DeleteKnot removes a knot and clears the selection if it pointed there.
func (s *Store) DeleteKnot(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.knots[:0:0]
	for _, k := range s.knots {
		if k.ID != id {
			kept = append(kept, k)
		}
	}
	s.knots = kept
	if s.selected == id {
		s.selected = ""
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	logger.Get().Info("knot deleted", "id", id)
	return nil
}

// Find resolves ref as an exact id or a case-insensitive name.
func (s *Store) Find(ref string) (knot.Knot, bool) {
	ref = strings.TrimSpace(ref)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k, ok := knot.Find(s.knots, ref); ok {
		return k, true
	}
	for _, k := range s.knots {
		if strings.EqualFold(k.Name, ref) {
			return k, true
		}
	}
	return knot.Knot{}, false
}

// Suggest returns the knot name closest to ref, if any is reasonably close.
func (s *Store) Suggest(ref string) (string, bool) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := ""
	bestDist := -1
	for _, k := range s.knots {
		d := levenshtein.ComputeDistance(ref, strings.ToLower(k.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k.Name, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(ref)/3) {
		return "", false
	}
	return best, true
}
