package server

import (
	"net/http"

	"github.com/emberquest/api/internal/game"
)

type CurrentQuestInfo struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Riddle string `json:"riddle"`
}

type GameStateResponse struct {
	State            game.State        `json:"state"`
	Scenario         string            `json:"scenario"`
	CurrentQuest     *CurrentQuestInfo `json:"currentQuest"`
	PendingQuest     *CurrentQuestInfo `json:"pendingQuest"`
	TimerRemainingMS int64             `json:"timerRemainingMs"`
	MapMode          bool              `json:"mapMode"`
	FireQuestID      int               `json:"fireQuestId,omitempty"`
	Quests           []QuestInfo       `json:"quests"`
}

// handleGameState returns a full snapshot, used by the client to
// rebuild the HUD after reconnecting its event stream.
func handleGameState(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		g := live.Game
		resp := GameStateResponse{
			State:            g.State(),
			Scenario:         live.Scenario,
			TimerRemainingMS: g.TimerRemaining().Milliseconds(),
			MapMode:          g.MapMode(),
			Quests:           questInfos(live),
		}
		if cur, ok := g.CurrentQuest(); ok {
			resp.CurrentQuest = &CurrentQuestInfo{ID: cur.ID, Title: cur.Title, Riddle: cur.Riddle}
		}
		if p, ok := g.PendingQuest(); ok {
			resp.PendingQuest = &CurrentQuestInfo{ID: p.ID, Title: p.Title, Riddle: p.Riddle}
		}
		if id, ok := g.VisibleFire(); ok {
			resp.FireQuestID = id
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// handleQuestLog lists every quest with its status, for the quest
// journal UI.
func handleQuestLog(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}
		writeJSON(w, http.StatusOK, questInfos(live))
	}
}
