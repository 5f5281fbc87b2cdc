package ea

import "context"

// EAClient defines the interface for interacting with the EA Pro Clubs API.
// This allows for mock implementations to be used in tests.
type EAClient interface {
	GetClubMatches(ctx context.Context, clubID string) ([]RawMatch, error)
	SearchClubs(ctx context.Context, name string) ([]ClubInfo, error)
}
