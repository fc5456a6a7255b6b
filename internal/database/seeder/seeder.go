package seeder

import (
	"context"

	"job-hunter/internal/repository"
)

// Seeder fills an empty listing store with fixture data for local runs.
type Seeder interface {
	Name() string
	Run(ctx context.Context, repo repository.ListingRepository) error
}
