package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-hunter/internal/database"
	"job-hunter/internal/domain/listing"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var ErrNilListingRepository = errors.New("nil listing repository")

// Snapshot is a point-in-time copy of the listing set. Version changes
// whenever the set changes, so it can key derived data.
type Snapshot struct {
	Version  string
	TakenAt  time.Time
	Listings []listing.Listing
}

type ListingRepository interface {
	Upsert(ctx context.Context, listings []listing.Listing) (int, error)
	Snapshot(ctx context.Context) (Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]listing.Listing, error)
	Count(ctx context.Context) (int, error)
	LatestDiscoveredAt(ctx context.Context) (time.Time, error)
}

type PostgresListingRepository struct {
	db     database.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewPostgresListingRepository(db database.DB, logger *zap.Logger) *PostgresListingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresListingRepository{db: db, logger: logger, now: time.Now}
}

func (r *PostgresListingRepository) Upsert(ctx context.Context, listings []listing.Listing) (int, error) {
	if r == nil || r.db == nil {
		return 0, ErrNilListingRepository
	}
	if len(listings) == 0 {
		return 0, nil
	}

	var affected int64
	err := database.WithTx(ctx, r.db, database.TxOptions{Isolation: database.ReadCommitted}, func(tx database.Tx) error {
		for _, l := range listings {
			n, err := tx.Exec(ctx,
				`INSERT INTO job_listings (id, title, company, location, score, discovered_at)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (id) DO UPDATE SET
					title = EXCLUDED.title,
					company = EXCLUDED.company,
					location = EXCLUDED.location,
					score = EXCLUDED.score,
					discovered_at = EXCLUDED.discovered_at,
					updated_at = now()`,
				l.ID(), l.Title(), l.Company(), l.Location(), l.Score(), l.DiscoveredAt(),
			)
			if err != nil {
				return fmt.Errorf("upsert listing id=%s: %w", l.ID(), err)
			}
			affected += n
		}

		// Bumping the counter row serialises writers until commit, so a later
		// commit always carries a higher revision than an earlier one.
		_, err := tx.Exec(ctx,
			`INSERT INTO job_listings_revision (id, revision) VALUES (1, 1)
			 ON CONFLICT (id) DO UPDATE SET revision = job_listings_revision.revision + 1`,
		)
		if err != nil {
			return fmt.Errorf("bump listing revision: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Snapshot reads the version and all rows inside one repeatable-read
// transaction so both come from the same committed state.
func (r *PostgresListingRepository) Snapshot(ctx context.Context) (Snapshot, error) {
	if r == nil || r.db == nil {
		return Snapshot{}, ErrNilListingRepository
	}

	var out Snapshot
	err := database.WithTx(ctx, r.db, database.SnapshotTx, func(tx database.Tx) error {
		var count int
		var revision int64
		row := tx.QueryRow(ctx,
			`SELECT COUNT(1),
			        COALESCE((SELECT revision FROM job_listings_revision WHERE id = 1), 0)
			 FROM job_listings`,
		)
		if err := row.Scan(&count, &revision); err != nil {
			return err
		}
		out.Version = snapshotVersion(count, revision)

		rows, err := tx.Query(ctx,
			`SELECT id, title, company, location, score, discovered_at
			 FROM job_listings
			 ORDER BY discovered_at ASC, id ASC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		out.Listings, err = r.scanListings(rows, count)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}

	out.TakenAt = r.now().UTC()
	return out, nil
}

func (r *PostgresListingRepository) List(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	if r == nil || r.db == nil {
		return nil, ErrNilListingRepository
	}
	limit, offset = clampPage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT id, title, company, location, score, discovered_at
		 FROM job_listings
		 ORDER BY discovered_at DESC, id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanListings(rows, limit)
}

func (r *PostgresListingRepository) Count(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, ErrNilListingRepository
	}
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM job_listings`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresListingRepository) LatestDiscoveredAt(ctx context.Context) (time.Time, error) {
	if r == nil || r.db == nil {
		return time.Time{}, ErrNilListingRepository
	}
	var t *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(discovered_at) FROM job_listings`).Scan(&t); err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return t.UTC(), nil
}

// scanListings skips rows that no longer satisfy the listing invariants
// instead of clamping them.
func (r *PostgresListingRepository) scanListings(rows database.Rows, hint int) ([]listing.Listing, error) {
	if hint < 0 {
		hint = 0
	}
	out := make([]listing.Listing, 0, hint)
	for rows.Next() {
		var in listing.Input
		if err := rows.Scan(&in.ID, &in.Title, &in.Company, &in.Location, &in.Score, &in.DiscoveredAt); err != nil {
			return nil, err
		}
		l, err := listing.New(in)
		if err != nil {
			r.logger.Warn("listing row skipped", zap.String("id", in.ID), zap.Error(err))
			continue
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func snapshotVersion(count int, revision int64) string {
	return fmt.Sprintf("pg-%d-%d", count, revision)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var _ ListingRepository = (*PostgresListingRepository)(nil)
