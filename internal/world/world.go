// Package world tracks the fire points, the target locations the city
// model exposes keyed by quest id, and which fire effect is currently
// visible.
package world

import (
	"fmt"

	"github.com/emberquest/api/internal/geom"
)

// FirePoint is a named target location keyed by quest id.
type FirePoint struct {
	QuestID  int       `json:"questId"`
	Position geom.Vec3 `json:"position"`
}

// World owns the fire-effect lifecycle: at most one fire is visible at
// a time, and positions are stable for the session. Not safe for
// concurrent use; the owning session serializes access.
type World struct {
	points  map[int]geom.Vec3
	visible int // quest id of the visible fire, 0 when none
}

// New builds a World from the scenario's fire points. Every quest id
// must appear at most once.
func New(points []FirePoint) (*World, error) {
	w := &World{points: make(map[int]geom.Vec3, len(points))}
	for _, p := range points {
		if p.QuestID <= 0 {
			return nil, fmt.Errorf("fire point quest id must be positive, got %d", p.QuestID)
		}
		if _, dup := w.points[p.QuestID]; dup {
			return nil, fmt.Errorf("duplicate fire point for quest %d", p.QuestID)
		}
		w.points[p.QuestID] = p.Position
	}
	return w, nil
}

// FirePointPosition resolves a quest's target position. Lookup misses
// return false; callers skip the dependent action for that frame.
func (w *World) FirePointPosition(questID int) (geom.Vec3, bool) {
	p, ok := w.points[questID]
	return p, ok
}

// ShowFireAt makes the given quest's fire the only visible one.
// Unknown ids leave the world unchanged.
func (w *World) ShowFireAt(questID int) {
	if _, ok := w.points[questID]; !ok {
		return
	}
	w.visible = questID
}

// HideAllFires hides every fire effect.
func (w *World) HideAllFires() {
	w.visible = 0
}

// VisibleFire reports which fire is currently shown, if any.
func (w *World) VisibleFire() (int, bool) {
	if w.visible == 0 {
		return 0, false
	}
	return w.visible, true
}
