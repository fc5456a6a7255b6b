package seeder

import (
	"context"
	"fmt"

	"job-hunter/internal/repository"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, repo repository.ListingRepository) error {
	if repo == nil {
		return fmt.Errorf("nil listing repository")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, repo); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
