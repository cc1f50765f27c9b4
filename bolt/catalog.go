package bolt

import (
	"context"
	"time"

	"github.com/go-errors/errors"

	"github.com/quantonganh/prefcenter"
)

// catalogEntry is the single cached snapshot of the backend's catalog.
type catalogEntry struct {
	ID          int `storm:"id"`
	FetchedAt   time.Time
	Newsletters map[string]prefcenter.Newsletter
}

const catalogEntryID = 1

type catalogService struct {
	db       *DB
	upstream prefcenter.CatalogService
	ttl      time.Duration
	now      func() time.Time
}

// NewCatalogService returns a read-through cache in front of upstream.
// Snapshots older than ttl are refetched; when the backend is unreachable a
// stale snapshot is still served so the preference center keeps working.
func NewCatalogService(db *DB, upstream prefcenter.CatalogService, ttl time.Duration) prefcenter.CatalogService {
	return &catalogService{
		db:       db,
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Newsletters returns the catalog, fetching from upstream when the cached
// snapshot is missing or expired.
func (cs *catalogService) Newsletters(ctx context.Context) (map[string]prefcenter.Newsletter, error) {
	var entry catalogEntry
	err := cs.db.stormDB.One("ID", catalogEntryID, &entry)
	cached := err == nil

	if cached && cs.now().Sub(entry.FetchedAt) < cs.ttl {
		return entry.Newsletters, nil
	}

	fresh, err := cs.upstream.Newsletters(ctx)
	if err != nil {
		if cached {
			return entry.Newsletters, nil
		}
		return nil, err
	}

	if err := cs.save(fresh); err != nil {
		return nil, err
	}

	return fresh, nil
}

// Refresh refetches the catalog unconditionally. Wired to a cron schedule so
// request paths mostly hit a warm cache.
func (cs *catalogService) Refresh(ctx context.Context) error {
	fresh, err := cs.upstream.Newsletters(ctx)
	if err != nil {
		return err
	}

	return cs.save(fresh)
}

func (cs *catalogService) save(catalog map[string]prefcenter.Newsletter) error {
	entry := catalogEntry{
		ID:          catalogEntryID,
		FetchedAt:   cs.now(),
		Newsletters: catalog,
	}
	if err := cs.db.stormDB.Save(&entry); err != nil {
		return errors.Errorf("failed to save catalog: %v", err)
	}

	return nil
}
