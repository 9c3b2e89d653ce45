package server

import (
	"context"
	"errors"

	"github.com/emberquest/api/internal/geom"
)

var ErrNotFound = errors.New("not found")

// ScenarioQuest is one quest definition inside a scenario, together
// with its fire-point coordinates in the city model.
type ScenarioQuest struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Riddle         string    `json:"riddle"`
	SuccessMessage string    `json:"successMessage"`
	Trigger        string    `json:"trigger,omitempty"`
	Caller         string    `json:"caller,omitempty"`
	Fire           geom.Vec3 `json:"fire"`
}

// Scenario is a named quest registry: the content one session plays
// through.
type Scenario struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	Description  string          `json:"description"`
	QuestSeconds int             `json:"questSeconds"`
	Quests       []ScenarioQuest `json:"quests"`
	CreatedAt    string          `json:"createdAt"`
}

// AttemptRecord is the durable outcome of one finished session.
type AttemptRecord struct {
	ID              string `json:"id"`
	ScenarioID      string `json:"scenarioId"`
	Outcome         string `json:"outcome"` // completed | failed | abandoned
	QuestsCompleted int    `json:"questsCompleted"`
	StartedAt       string `json:"startedAt"`
	EndedAt         string `json:"endedAt"`
}

type Store interface {
	// Scenario content.
	DefaultScenario(ctx context.Context) (Scenario, error)
	GetScenario(ctx context.Context, id string) (Scenario, error)
	ListScenarios(ctx context.Context) ([]ScenarioSummary, error)
	CreateScenario(ctx context.Context, req ScenarioRequest) (Scenario, error)
	UpdateScenario(ctx context.Context, id string, req ScenarioRequest) (Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
	ScenarioHasAttempts(ctx context.Context, id string) (bool, error)

	// Attempt outcomes.
	RecordAttempt(ctx context.Context, scenarioID, outcome string, questsCompleted int, startedAt string) error
	ListAttempts(ctx context.Context) ([]AttemptRecord, error)

	// Admin auth.
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
