// Package passport keeps the traveller's saved places and answers
// "is this place already in the passport" for discovery results.
package passport

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"wanderlens/internal/models"
)

// Store persists the passport list under a single named key, newest entry
// first. Load reports an absent key as an empty list, not an error.
type Store interface {
	Load(ctx context.Context) ([]models.SavedEntry, error)
	Save(ctx context.Context, entries []models.SavedEntry) error
}

// Index is the in-memory view over the persisted passport. Every mutation is
// written through to the store before it becomes visible, so a persistence
// failure never leaves memory and store disagreeing.
type Index struct {
	mu      sync.Mutex
	store   Store
	entries []models.SavedEntry

	now    func() time.Time
	lastID int64
}

// NewIndex loads the persisted entries and builds the index over them.
func NewIndex(ctx context.Context, store Store) (*Index, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("passport: failed to load saved entries: %w", err)
	}
	return &Index{store: store, entries: entries, now: time.Now}, nil
}

// Entries returns a copy of the saved entries, newest first.
func (i *Index) Entries() []models.SavedEntry {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]models.SavedEntry, len(i.entries))
	copy(out, i.entries)
	return out
}

// Status reports whether the candidate matches a saved entry by id or name.
// Name matching is exact but deliberately loose as an identity test: two
// distinct places sharing a name count as already saved.
func (i *Index) Status(candidate models.PlaceCandidate) models.SavedStateFlag {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.statusLocked(candidate.ID, candidate.Name)
}

// Save prepends a new entry minted from the candidate. It reports false
// without writing when some entry already matches by id or name; being
// already saved is expected, not an error.
func (i *Index) Save(ctx context.Context, candidate models.PlaceCandidate) (models.SavedEntry, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.saveLocked(ctx, candidate)
}

// Remove deletes the first entry whose id matches and reports whether a
// removal occurred.
func (i *Index) Remove(ctx context.Context, entryID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.removeLocked(ctx, entryID)
}

// Toggle saves the candidate when absent and removes the matched entry when
// present, returning the flag after the change. The read and the
// complementary write happen under one lock, so no other mutation can
// interleave.
func (i *Index) Toggle(ctx context.Context, candidate models.PlaceCandidate) (models.SavedStateFlag, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	current := i.statusLocked(candidate.ID, candidate.Name)
	if current.IsSaved {
		if _, err := i.removeLocked(ctx, current.MatchedEntryID); err != nil {
			return current, err
		}
		return models.SavedStateFlag{}, nil
	}

	entry, _, err := i.saveLocked(ctx, candidate)
	if err != nil {
		return models.SavedStateFlag{}, err
	}
	return models.SavedStateFlag{IsSaved: true, MatchedEntryID: entry.ID}, nil
}

func (i *Index) statusLocked(id, name string) models.SavedStateFlag {
	for _, e := range i.entries {
		if e.ID == id || e.Name == name {
			return models.SavedStateFlag{IsSaved: true, MatchedEntryID: e.ID}
		}
	}
	return models.SavedStateFlag{}
}

func (i *Index) saveLocked(ctx context.Context, candidate models.PlaceCandidate) (models.SavedEntry, bool, error) {
	if flag := i.statusLocked(candidate.ID, candidate.Name); flag.IsSaved {
		return models.SavedEntry{}, false, nil
	}

	category := candidate.Category
	if category == "" {
		category = models.CategoryLandmark
	}

	entry := models.SavedEntry{
		ID:         i.mintID(),
		Name:       candidate.Name,
		Info:       infoFor(candidate),
		Category:   category,
		DistanceKm: candidate.DistanceKm,
		Timestamp:  i.now().UTC(),
		ToDiscover: true,
	}

	updated := make([]models.SavedEntry, 0, len(i.entries)+1)
	updated = append(updated, entry)
	updated = append(updated, i.entries...)

	if err := i.store.Save(ctx, updated); err != nil {
		return models.SavedEntry{}, false, fmt.Errorf("passport: failed to persist saved entries: %w", err)
	}
	i.entries = updated
	return entry, true, nil
}

func (i *Index) removeLocked(ctx context.Context, entryID string) (bool, error) {
	idx := -1
	for n, e := range i.entries {
		if e.ID == entryID {
			idx = n
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	updated := make([]models.SavedEntry, 0, len(i.entries)-1)
	updated = append(updated, i.entries[:idx]...)
	updated = append(updated, i.entries[idx+1:]...)

	if err := i.store.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("passport: failed to persist saved entries: %w", err)
	}
	i.entries = updated
	return true, nil
}

// mintID returns a millisecond-timestamp token, bumped past the previous one
// when two saves land in the same millisecond, so ids stay unique and sort by
// save order.
func (i *Index) mintID() string {
	ms := i.now().UnixMilli()
	if ms <= i.lastID {
		ms = i.lastID + 1
	}
	i.lastID = ms
	return strconv.FormatInt(ms, 10)
}

// infoFor picks the most descriptive line the candidate offers.
func infoFor(c models.PlaceCandidate) string {
	switch {
	case c.Description != "":
		return c.Description
	case c.Address != "":
		return c.Address
	default:
		return c.Type
	}
}
