package server

import (
	"log/slog"
	"net/http"

	"github.com/emberquest/api/internal/game"
)

// GameEventRequest carries a UI callback: a modal was dismissed, the
// phone was answered, or the map control was pressed.
type GameEventRequest struct {
	Type string `json:"type"`
}

func handleGameEvent(logger *slog.Logger, store Store, sessions *SessionRegistry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req GameEventRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !game.KnownEvent(req.Type) {
			writeError(w, http.StatusBadRequest, "unknown event type")
			return
		}

		effects := live.Game.Dispatch(game.Event(req.Type))
		broker.Publish(live.Token, effects)
		recordIfFinished(r.Context(), logger, store, live)

		resp := TickResponse{State: live.Game.State(), Effects: effects}
		if resp.Effects == nil {
			resp.Effects = []game.Effect{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
