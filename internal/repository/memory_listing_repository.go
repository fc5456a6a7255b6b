package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"job-hunter/internal/domain/listing"
)

// MemoryListingRepository keeps listings in process. Snapshots are copies
// taken under the read lock, so later upserts never show through.
type MemoryListingRepository struct {
	mu      sync.RWMutex
	byID    map[string]int
	items   []listing.Listing
	version uint64
	now     func() time.Time
}

func NewMemoryListingRepository() *MemoryListingRepository {
	return &MemoryListingRepository{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

func (r *MemoryListingRepository) Upsert(ctx context.Context, listings []listing.Listing) (int, error) {
	if r == nil {
		return 0, ErrNilListingRepository
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(listings) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range listings {
		if idx, ok := r.byID[l.ID()]; ok {
			r.items[idx] = l
			continue
		}
		r.byID[l.ID()] = len(r.items)
		r.items = append(r.items, l)
	}
	r.version++
	return len(listings), nil
}

func (r *MemoryListingRepository) Snapshot(ctx context.Context) (Snapshot, error) {
	if r == nil {
		return Snapshot{}, ErrNilListingRepository
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	r.mu.RLock()
	items := make([]listing.Listing, len(r.items))
	copy(items, r.items)
	version := r.version
	r.mu.RUnlock()

	return Snapshot{
		Version:  "mem-" + strconv.FormatUint(version, 10),
		TakenAt:  r.now().UTC(),
		Listings: items,
	}, nil
}

func (r *MemoryListingRepository) List(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	items := snap.Listings
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.DiscoveredAt().Equal(b.DiscoveredAt()) {
			return a.DiscoveredAt().After(b.DiscoveredAt())
		}
		return a.ID() < b.ID()
	})

	if offset >= len(items) {
		return []listing.Listing{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (r *MemoryListingRepository) Count(ctx context.Context) (int, error) {
	if r == nil {
		return 0, ErrNilListingRepository
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryListingRepository) LatestDiscoveredAt(ctx context.Context) (time.Time, error) {
	if r == nil {
		return time.Time{}, ErrNilListingRepository
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest time.Time
	for _, l := range r.items {
		if l.DiscoveredAt().After(latest) {
			latest = l.DiscoveredAt()
		}
	}
	return latest, nil
}

var _ ListingRepository = (*MemoryListingRepository)(nil)
