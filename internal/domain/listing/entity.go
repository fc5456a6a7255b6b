package listing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidListing = errors.New("invalid listing")

const (
	MinScore = 0.0
	MaxScore = 1.0
)

// Input carries the raw fields of a discovered posting before validation.
// An empty ID asks New to assign one.
type Input struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Score        float64
	DiscoveredAt time.Time
}

// Listing is a validated, immutable job posting. The zero value is not a
// valid listing; build one with New.
type Listing struct {
	id           string
	title        string
	company      string
	location     string
	score        float64
	discoveredAt time.Time
}

func New(in Input) (Listing, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		id = strings.TrimSpace(id)
		if id == "" {
			return Listing{}, fmt.Errorf("%w: blank id", ErrInvalidListing)
		}
	}

	if err := validateScore(in.Score); err != nil {
		return Listing{}, err
	}

	discovered := in.DiscoveredAt
	if discovered.IsZero() {
		discovered = time.Now()
	}

	return Listing{
		id:           id,
		title:        strings.TrimSpace(in.Title),
		company:      strings.TrimSpace(in.Company),
		location:     strings.TrimSpace(in.Location),
		score:        in.Score,
		discoveredAt: discovered.UTC(),
	}, nil
}

// WithScore returns a copy of l carrying a new score. l itself is untouched.
func (l Listing) WithScore(score float64) (Listing, error) {
	if err := validateScore(score); err != nil {
		return Listing{}, err
	}
	out := l
	out.score = score
	return out, nil
}

func (l Listing) ID() string              { return l.id }
func (l Listing) Title() string           { return l.title }
func (l Listing) Company() string         { return l.company }
func (l Listing) Location() string        { return l.location }
func (l Listing) Score() float64          { return l.score }
func (l Listing) DiscoveredAt() time.Time { return l.discoveredAt }

func (l Listing) Input() Input {
	return Input{
		ID:           l.id,
		Title:        l.title,
		Company:      l.company,
		Location:     l.location,
		Score:        l.score,
		DiscoveredAt: l.discoveredAt,
	}
}

func validateScore(score float64) error {
	if math.IsNaN(score) || score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score %v outside [%.1f, %.1f]", ErrInvalidListing, score, MinScore, MaxScore)
	}
	return nil
}
