package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/emberquest/api/internal/geom"
)

// handleGameWS is the low-latency alternative to POST /api/game/position:
// the client streams position frames and receives the resulting effect
// batches on the same connection.
func handleGameWS(logger *slog.Logger, store Store, sessions *SessionRegistry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		live, err := sessions.Get(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
		defer cancel()

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			var pos PositionRequest
			if err := json.Unmarshal(msg, &pos); err != nil {
				continue // malformed frame, skip
			}

			effects := live.Game.Tick(geom.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z})
			broker.Publish(live.Token, effects)
			recordIfFinished(ctx, logger, store, live)

			if len(effects) == 0 {
				continue
			}
			out, err := json.Marshal(TickResponse{State: live.Game.State(), Effects: effects})
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
