package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/emberquest/api/internal/game"
	"github.com/emberquest/api/internal/geom"
)

// PositionRequest is one render-loop tick: the player's current world
// position.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type TickResponse struct {
	State   game.State    `json:"state"`
	Effects []game.Effect `json:"effects"`
}

func handlePosition(logger *slog.Logger, store Store, sessions *SessionRegistry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req PositionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		effects := live.Game.Tick(geom.Vec3{X: req.X, Y: req.Y, Z: req.Z})
		broker.Publish(live.Token, effects)
		recordIfFinished(r.Context(), logger, store, live)

		resp := TickResponse{State: live.Game.State(), Effects: effects}
		if resp.Effects == nil {
			resp.Effects = []game.Effect{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// recordIfFinished persists the attempt outcome exactly once when the
// session reaches a terminal result.
func recordIfFinished(ctx context.Context, logger *slog.Logger, store Store, live *LiveSession) {
	outcome, done := live.Game.Finished()
	if !done || !live.MarkRecorded() {
		return
	}
	err := store.RecordAttempt(ctx, live.ScenarioID, outcome,
		live.Game.CompletedCount(), live.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		logger.Error("recording attempt", "scenario", live.ScenarioID, "outcome", outcome, "error", err)
	}
}
