// Command seed loads venue fixtures from a YAML file and inserts them as
// already-approved venues owned by a dedicated seed account. Intended for
// local development and demo environments.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	authrepo "portal_da_fe_backend/internal/auth/repository"
	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"
	venuerepo "portal_da_fe_backend/internal/venues/repository"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/db"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type venueFixture struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Description  string   `yaml:"description"`
	Street       string   `yaml:"street"`
	Number       string   `yaml:"number"`
	City         string   `yaml:"city"`
	State        string   `yaml:"state"`
	Latitude     *float64 `yaml:"latitude"`
	Longitude    *float64 `yaml:"longitude"`
	OpeningHours string   `yaml:"openingHours"`
	Phone        string   `yaml:"phone"`
	Images       []string `yaml:"images"`
}

type fixtureFile struct {
	Venues []venueFixture `yaml:"venues"`
}

const seedOwnerEmail = "seed@portaldafe.local"

func main() {
	file := flag.String("file", "seed/venues.yaml", "path to the venue fixture file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Error("failed to read fixture file", "file", *file, "error", err)
		panic("failed to read fixture file: " + err.Error())
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		log.Error("failed to parse fixture file", "file", *file, "error", err)
		panic("failed to parse fixture file: " + err.Error())
	}
	if len(fixtures.Venues) == 0 {
		log.Info("fixture file contains no venues, nothing to do", "file", *file)
		return
	}

	users := authrepo.New(pool)
	ownerID, err := ensureSeedOwner(ctx, users)
	if err != nil {
		log.Error("failed to ensure seed owner", "error", err)
		panic("failed to ensure seed owner: " + err.Error())
	}

	venues := venuerepo.New(pool)
	inserted := 0
	for _, fx := range fixtures.Venues {
		var coord *geo.Coordinate
		if fx.Latitude != nil && fx.Longitude != nil {
			coord = &geo.Coordinate{Latitude: *fx.Latitude, Longitude: *fx.Longitude}
		}

		_, err := venues.Create(ctx, venuerepo.CreateParams{
			ID:          uuid.New(),
			Name:        fx.Name,
			Category:    fx.Category,
			Description: fx.Description,
			Address: domain.Address{
				Street: fx.Street,
				Number: fx.Number,
				City:   fx.City,
				State:  fx.State,
			},
			Coordinate:   coord,
			OpeningHours: fx.OpeningHours,
			Phone:        fx.Phone,
			Images:       fx.Images,
			Status:       domain.StatusActive,
			OwnerID:      ownerID,
		})
		if err != nil {
			log.Error("failed to insert venue", "name", fx.Name, "error", err)
			continue
		}
		inserted++
		log.Info("venue seeded", "name", fx.Name, "city", fx.City)
	}

	log.Info("seeding complete", "inserted", inserted, "total", len(fixtures.Venues))
}

// ensureSeedOwner finds or creates the account that owns seeded venues. The
// password is random; the account exists only to satisfy ownership.
func ensureSeedOwner(ctx context.Context, users *authrepo.Repo) (uuid.UUID, error) {
	existing, err := users.GetUserByEmail(ctx, seedOwnerEmail)
	if err == nil {
		return existing.ID, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return uuid.Nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash seed password: %w", err)
	}

	user, err := users.CreateUser(ctx, "Portal da Fé", seedOwnerEmail, string(hash), []string{"admin"})
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
