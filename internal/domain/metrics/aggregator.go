package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"job-hunter/internal/domain/listing"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

const DefaultTopThreshold = 0.8

type Summary struct {
	TotalCount     int
	AverageScore   float64
	TopOffersCount int
	TopThreshold   float64
}

// Summarize reduces one snapshot of listings to the dashboard figures.
// Scores are summed left to right so equal inputs always give equal output.
func Summarize(listings []listing.Listing, topThreshold float64) (Summary, error) {
	if err := ValidateThreshold(topThreshold); err != nil {
		return Summary{}, err
	}

	out := Summary{TotalCount: len(listings), TopThreshold: topThreshold}
	if len(listings) == 0 {
		return out, nil
	}

	sum := 0.0
	for _, l := range listings {
		sum += l.Score()
		if l.Score() > topThreshold {
			out.TopOffersCount++
		}
	}
	out.AverageScore = sum / float64(len(listings))

	return out, nil
}

func SummarizeDefault(listings []listing.Listing) (Summary, error) {
	return Summarize(listings, DefaultTopThreshold)
}

func ValidateThreshold(topThreshold float64) error {
	if math.IsNaN(topThreshold) || topThreshold < listing.MinScore || topThreshold > listing.MaxScore {
		return fmt.Errorf("%w: top threshold %v outside [%.1f, %.1f]", ErrInvalidConfiguration, topThreshold, listing.MinScore, listing.MaxScore)
	}
	return nil
}

func IsTopOffer(l listing.Listing, topThreshold float64) bool {
	return l.Score() > topThreshold
}

// TopOffers returns the listings above topThreshold, best first. Ties fall
// back to the most recently discovered, then to ID. limit <= 0 keeps all.
func TopOffers(listings []listing.Listing, topThreshold float64, limit int) ([]listing.Listing, error) {
	if err := ValidateThreshold(topThreshold); err != nil {
		return nil, err
	}

	out := make([]listing.Listing, 0)
	for _, l := range listings {
		if IsTopOffer(l, topThreshold) {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if !a.DiscoveredAt().Equal(b.DiscoveredAt()) {
			return a.DiscoveredAt().After(b.DiscoveredAt())
		}
		return a.ID() < b.ID()
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
