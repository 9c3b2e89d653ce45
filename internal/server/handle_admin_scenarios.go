package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emberquest/api/internal/quest"
	"github.com/emberquest/api/internal/world"
)

// ScenarioSummary is the list view of a scenario.
type ScenarioSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	QuestSeconds int    `json:"questSeconds"`
	QuestCount   int    `json:"questCount"`
	CreatedAt    string `json:"createdAt"`
}

// ScenarioRequest creates or replaces a scenario.
type ScenarioRequest struct {
	Name         string          `json:"name"`
	City         string          `json:"city"`
	Description  string          `json:"description"`
	QuestSeconds int             `json:"questSeconds"`
	Quests       []ScenarioQuest `json:"quests"`
}

// validateScenarioRequest runs the same content checks a session would
// hit at start, so broken content is rejected at authoring time.
func validateScenarioRequest(req *ScenarioRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.QuestSeconds < 0 {
		return errors.New("questSeconds must not be negative")
	}
	defs := make([]quest.Definition, 0, len(req.Quests))
	points := make([]world.FirePoint, 0, len(req.Quests))
	for _, q := range req.Quests {
		defs = append(defs, quest.Definition{
			ID:             q.ID,
			Title:          q.Title,
			Riddle:         q.Riddle,
			SuccessMessage: q.SuccessMessage,
			Trigger:        quest.Trigger(q.Trigger),
			Caller:         q.Caller,
		})
		points = append(points, world.FirePoint{QuestID: q.ID, Position: q.Fire})
	}
	if _, err := quest.NewManager(defs); err != nil {
		return err
	}
	if _, err := world.New(points); err != nil {
		return err
	}
	return nil
}

func handleAdminListScenarios(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarios, err := store.ListScenarios(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, scenarios)
	}
}

func handleAdminCreateScenario(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScenarioRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validateScenarioRequest(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sc, err := store.CreateScenario(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("scenario created", "id", sc.ID, "name", sc.Name, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusCreated, sc)
	}
}

func handleAdminGetScenario(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := store.GetScenario(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

func handleAdminUpdateScenario(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScenarioRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validateScenarioRequest(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sc, err := store.UpdateScenario(r.Context(), chi.URLParam(r, "id"), req)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("scenario updated", "id", sc.ID, "name", sc.Name, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusOK, sc)
	}
}

func handleAdminDeleteScenario(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		used, err := store.ScenarioHasAttempts(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if used {
			writeError(w, http.StatusConflict, "scenario has recorded attempts")
			return
		}

		err = store.DeleteScenario(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("scenario deleted", "id", id, "admin", adminFrom(r).Email)
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminListAttempts(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := store.ListAttempts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, attempts)
	}
}
