package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/emberquest/api/internal/quest"
)

// StartSessionRequest begins a new attempt. ScenarioID is optional;
// the seeded default scenario is used when absent.
type StartSessionRequest struct {
	ScenarioID string `json:"scenarioId,omitempty"`
}

type ScenarioInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Description string `json:"description"`
}

type QuestInfo struct {
	ID     int          `json:"id"`
	Title  string       `json:"title"`
	Status quest.Status `json:"status"`
}

type StartSessionResponse struct {
	Token        string       `json:"token"`
	Scenario     ScenarioInfo `json:"scenario"`
	Quests       []QuestInfo  `json:"quests"`
	QuestSeconds int          `json:"questSeconds"`
}

func handleStartSession(store Store, sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartSessionRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		var sc Scenario
		var err error
		if req.ScenarioID != "" {
			sc, err = store.GetScenario(r.Context(), req.ScenarioID)
		} else {
			sc, err = store.DefaultScenario(r.Context())
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		live, err := sessions.Create(sc)
		if err != nil {
			// Broken content is a deployment problem, not a player one.
			writeError(w, http.StatusInternalServerError, "scenario content is invalid")
			return
		}

		writeJSON(w, http.StatusOK, StartSessionResponse{
			Token: live.Token,
			Scenario: ScenarioInfo{
				ID:          sc.ID,
				Name:        sc.Name,
				City:        sc.City,
				Description: sc.Description,
			},
			Quests:       questInfos(live),
			QuestSeconds: sc.QuestSeconds,
		})
	}
}

// handleAbandonSession ends the attempt early and records it.
func handleAbandonSession(store Store, sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		if live.MarkRecorded() {
			outcome := "abandoned"
			if o, done := live.Game.Finished(); done {
				outcome = o
			}
			if err := store.RecordAttempt(r.Context(), live.ScenarioID, outcome,
				live.Game.CompletedCount(), live.StartedAt.Format(time.RFC3339Nano)); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		sessions.Delete(live.Token)
		w.WriteHeader(http.StatusNoContent)
	}
}

func questInfos(live *LiveSession) []QuestInfo {
	quests := live.Game.Quests()
	out := make([]QuestInfo, 0, len(quests))
	for _, q := range quests {
		out = append(out, QuestInfo{ID: q.ID, Title: q.Title, Status: q.Status})
	}
	return out
}
