package seed

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/metrics"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// UserStore is the account persistence the user seeder needs.
type UserStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
}

// UserSeeder creates sample accounts so parcel seeding has owners.
type UserSeeder struct {
	users   UserStore
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewUserSeeder creates a UserSeeder. m may be nil.
func NewUserSeeder(users UserStore, log *logger.Logger, m *metrics.Metrics) *UserSeeder {
	if log == nil {
		log = logger.Nop()
	}
	return &UserSeeder{users: users, log: log.WithComponent("seed"), metrics: m}
}

// Run creates SampleUsers when the user table is empty and returns how many
// accounts it wrote.
func (s *UserSeeder) Run(ctx context.Context) (int, error) {
	existing, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		s.log.Info("Users already present, skipping", map[string]interface{}{
			"existing_users": existing,
		})
		return 0, nil
	}

	created := 0
	for _, u := range SampleUsers() {
		user := u
		if err := s.users.Create(ctx, &user); err != nil {
			return created, fmt.Errorf("failed to create sample user %s: %w", user.Email, err)
		}
		created++
	}
	s.metrics.AddSeeded("user", created)

	s.log.Info("Sample users created", map[string]interface{}{"users": created})
	return created, nil
}

// SampleUsers returns the fixed set of active accounts. The last one has no
// profile, so its display name comes from its email address.
func SampleUsers() []models.User {
	phone := func(s string) *string { return &s }

	return []models.User{
		{
			WalletAddress: "0x1111111111111111111111111111111111111111",
			Email:         "admin@landregistry.rw",
			Role:          "admin",
			IsActive:      true,
			Profiles:      []models.Profile{{FullName: "Registry Administrator", Phone: phone("+250788000001")}},
		},
		{
			WalletAddress: "0x2222222222222222222222222222222222222222",
			Email:         "alice.uwase@example.rw",
			Role:          "citizen",
			IsActive:      true,
			Profiles:      []models.Profile{{FullName: "Alice Uwase", Phone: phone("+250788000002")}},
		},
		{
			WalletAddress: "0x3333333333333333333333333333333333333333",
			Email:         "eric.mugisha@example.rw",
			Role:          "citizen",
			IsActive:      true,
			Profiles:      []models.Profile{{FullName: "Eric Mugisha", Phone: phone("+250788000003")}},
		},
		{
			WalletAddress: "0x4444444444444444444444444444444444444444",
			Email:         "grace.ingabire@example.rw",
			Role:          "surveyor",
			IsActive:      true,
			Profiles:      []models.Profile{{FullName: "Grace Ingabire"}},
		},
		{
			WalletAddress: "0xABC0000000000000000000000000000000000001",
			Email:         "jean.bosco@example.rw",
			Role:          "citizen",
			IsActive:      true,
		},
	}
}
