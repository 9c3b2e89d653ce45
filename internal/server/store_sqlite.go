package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLiteStore implements Store over the libSQL connection.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func scanScenario(row *sql.Row) (Scenario, error) {
	var sc Scenario
	var questsJSON string
	err := row.Scan(&sc.ID, &sc.Name, &sc.City, &sc.Description, &sc.QuestSeconds, &questsJSON, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	if err != nil {
		return sc, err
	}
	if err := json.Unmarshal([]byte(questsJSON), &sc.Quests); err != nil {
		return sc, fmt.Errorf("decoding quests for scenario %s: %w", sc.ID, err)
	}
	return sc, nil
}

func (s *SQLiteStore) DefaultScenario(ctx context.Context) (Scenario, error) {
	return scanScenario(s.db.QueryRowContext(ctx, `
		SELECT id, name, city, description, quest_seconds, quests, created_at
		FROM scenarios
		ORDER BY created_at, id
		LIMIT 1
	`))
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (Scenario, error) {
	return scanScenario(s.db.QueryRowContext(ctx, `
		SELECT id, name, city, description, quest_seconds, quests, created_at
		FROM scenarios
		WHERE id = ?
	`, id))
}

func (s *SQLiteStore) ListScenarios(ctx context.Context) ([]ScenarioSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, city, quest_seconds, quests, created_at
		FROM scenarios
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ScenarioSummary{}
	for rows.Next() {
		var sum ScenarioSummary
		var questsJSON string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.City, &sum.QuestSeconds, &questsJSON, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var quests []ScenarioQuest
		if err := json.Unmarshal([]byte(questsJSON), &quests); err != nil {
			return nil, fmt.Errorf("decoding quests for scenario %s: %w", sum.ID, err)
		}
		sum.QuestCount = len(quests)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateScenario(ctx context.Context, req ScenarioRequest) (Scenario, error) {
	quests, err := json.Marshal(req.Quests)
	if err != nil {
		return Scenario{}, err
	}
	id := newID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, city, description, quest_seconds, quests)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, req.Name, req.City, req.Description, req.QuestSeconds, string(quests))
	if err != nil {
		return Scenario{}, err
	}
	return s.GetScenario(ctx, id)
}

func (s *SQLiteStore) UpdateScenario(ctx context.Context, id string, req ScenarioRequest) (Scenario, error) {
	quests, err := json.Marshal(req.Quests)
	if err != nil {
		return Scenario{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE scenarios
		SET name = ?, city = ?, description = ?, quest_seconds = ?, quests = ?
		WHERE id = ?
	`, req.Name, req.City, req.Description, req.QuestSeconds, string(quests), id)
	if err != nil {
		return Scenario{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Scenario{}, ErrNotFound
	}
	return s.GetScenario(ctx, id)
}

func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ScenarioHasAttempts(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts WHERE scenario_id = ?`, id,
	).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) RecordAttempt(ctx context.Context, scenarioID, outcome string, questsCompleted int, startedAt string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, scenario_id, outcome, quests_completed, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, newID(), scenarioID, outcome, questsCompleted, startedAt)
	return err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario_id, outcome, quests_completed, started_at, ended_at
		FROM attempts
		ORDER BY ended_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AttemptRecord{}
	for rows.Next() {
		var a AttemptRecord
		if err := rows.Scan(&a.ID, &a.ScenarioID, &a.Outcome, &a.QuestsCompleted, &a.StartedAt, &a.EndedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admins WHERE email = ?`,
		strings.ToLower(email),
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)`,
		newID(), strings.ToLower(email), passwordHash,
	)
	return err
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)`, id, adminID,
	)
	return id, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE id = ?`, sessionID,
	)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}
