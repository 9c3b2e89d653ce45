package server

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/emberquest/api/internal/geom"
)

// Default local credentials, replaced on first login in any real
// deployment.
const (
	demoAdminEmail    = "admin@emberquest.local"
	demoAdminPassword = "emberquest"
)

// SeedDemo creates the demo admin and scenario if the database is
// empty. Idempotent: does nothing once an admin exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	n, err := store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := store.CreateAdmin(ctx, demoAdminEmail, string(hash)); err != nil {
		return err
	}

	if _, err := store.CreateScenario(ctx, demoScenario()); err != nil {
		return err
	}

	logger.Info("demo admin and scenario seeded")
	return nil
}

func demoScenario() ScenarioRequest {
	return ScenarioRequest{
		Name:         "Embers of the Old Harbor",
		City:         "Valdora",
		Description:  "Four fires have been lit across the old harbor district. Follow the riddles and reach each one before it burns out.",
		QuestSeconds: 120,
		Quests: []ScenarioQuest{
			{
				ID:             1,
				Title:          "The Old Lighthouse",
				Riddle:         "I warned a hundred ships away, yet no ship ever saw my face. Climb to where my light once lay.",
				SuccessMessage: "The first ember burns bright. The harbor remembers you.",
				Fire:           geom.Vec3{X: 72, Y: 18, Z: -41},
			},
			{
				ID:             2,
				Title:          "The Clocktower",
				Riddle:         "My hands are stuck at ten past nine, the hour the great fire came. Stand beneath the frozen time.",
				SuccessMessage: "Right on time. Two embers down.",
				Trigger:        "phonecall",
				Caller:         "The Warden",
				Fire:           geom.Vec3{X: -18, Y: 25, Z: 12},
			},
			{
				ID:             3,
				Title:          "The Fish Market",
				Riddle:         "Empty crates and silver scales, the morning's catch is long since sold. Find the stall that never sells.",
				SuccessMessage: "The third ember glows among the stalls.",
				Fire:           geom.Vec3{X: 33, Y: 1, Z: 58},
			},
			{
				ID:             4,
				Title:          "The Drowned Bell",
				Riddle:         "I ring beneath the water line when storms come in from sea. Follow the pier to its very end.",
				SuccessMessage: "The last ember. The old harbor is at peace.",
				Trigger:        "phonecall",
				Caller:         "Unknown",
				Fire:           geom.Vec3{X: -64, Y: 0, Z: -77},
			},
		},
	}
}
