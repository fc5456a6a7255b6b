package seeder

import (
	"context"
	"fmt"
	"time"

	"job-hunter/internal/domain/listing"
	"job-hunter/internal/repository"
)

// DemoListingsSeeder only writes into an empty store, so it never mixes
// fixtures with collected listings.
type DemoListingsSeeder struct {
	Now func() time.Time
}

func (DemoListingsSeeder) Name() string { return "demo_listings" }

func (s DemoListingsSeeder) Run(ctx context.Context, repo repository.ListingRepository) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := now().UTC()

	items := []listing.Input{
		{ID: "demo-backend-go", Title: "Backend Engineer (Go)", Company: "Acme Cloud", Location: "Madrid", Score: 0.92},
		{ID: "demo-platform", Title: "Platform Engineer", Company: "Nimbus", Location: "Remote", Score: 0.86},
		{ID: "demo-data", Title: "Data Engineer", Company: "Lumen Analytics", Location: "Barcelona", Score: 0.71},
		{ID: "demo-fullstack", Title: "Full Stack Developer", Company: "Tienda Online", Location: "Valencia", Score: 0.58},
		{ID: "demo-support", Title: "Support Engineer", Company: "HelpDesk Co", Location: "Sevilla", Score: 0.34},
	}

	out := make([]listing.Listing, 0, len(items))
	for i, in := range items {
		in.DiscoveredAt = base.Add(-time.Duration(i) * time.Hour)
		l, err := listing.New(in)
		if err != nil {
			return fmt.Errorf("fixture %s: %w", in.ID, err)
		}
		out = append(out, l)
	}

	_, err = repo.Upsert(ctx, out)
	return err
}
