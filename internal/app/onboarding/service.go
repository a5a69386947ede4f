package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"memorygarden/internal/ports"
)

// GardenSeeder writes the starter garden for a user when none exists.
type GardenSeeder interface {
	Seed(ctx context.Context, userID string) (bool, error)
}

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// GardenSeeded is false when the user already had a garden.
	GardenSeeded bool
	// DisplayName is the generated gardener name.
	DisplayName string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	gardens  GardenSeeder
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/gardens must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, gardens GardenSeeder, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		gardens:  gardens,
		rng:      rng,
	}
}

// OnboardNewUser names a newly created account and plants its starter garden.
// Returns a Result with any non-fatal issues and an error if the garden cannot be seeded.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.gardens == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateGardenerName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		// The garden matters more than the name.
		result.ProfileUpdateErr = err
	}

	seeded, err := s.gardens.Seed(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to seed garden: %w", err)
	}
	result.GardenSeeded = seeded

	return result, nil
}

func (s *Service) generateGardenerName() string {
	adjectives := []string{"Sunny", "Dewy", "Gentle", "Blooming", "Leafy", "Misty", "Bright", "Quiet", "Golden", "Wild"}
	nouns := []string{"Rose", "Tulip", "Daisy", "Lily", "Fern", "Clover", "Poppy", "Iris", "Maple", "Willow"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
