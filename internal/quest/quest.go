// Package quest defines the quest content model and the progression
// bookkeeping on top of it.
package quest

import "fmt"

// Trigger determines how a quest's riddle is introduced to the player.
type Trigger string

const (
	// TriggerDirect shows the riddle modal immediately.
	TriggerDirect Trigger = "direct"
	// TriggerPhoneCall plays a ringtone and shows a phone-call prompt
	// first; the riddle is revealed when the call is answered or the
	// prompt dismissed.
	TriggerPhoneCall Trigger = "phonecall"
)

// Status is the lifecycle state of a single quest.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Definition is the immutable content of one quest. Its ID doubles as
// the lookup key into the world's fire-point registry.
type Definition struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Riddle         string  `json:"riddle"`
	SuccessMessage string  `json:"successMessage"`
	Trigger        Trigger `json:"trigger"`
	Caller         string  `json:"caller,omitempty"`
}

// Quest is a definition together with its current status.
type Quest struct {
	Definition
	Status Status `json:"status"`
}

func validate(defs []Definition) error {
	if len(defs) == 0 {
		return fmt.Errorf("quest registry is empty")
	}
	seen := make(map[int]struct{}, len(defs))
	for i, d := range defs {
		if d.ID <= 0 {
			return fmt.Errorf("quest %d: id must be positive, got %d", i, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("duplicate quest id %d", d.ID)
		}
		seen[d.ID] = struct{}{}
		switch d.Trigger {
		case TriggerDirect, TriggerPhoneCall:
		case "":
			// Absent trigger means direct.
		default:
			return fmt.Errorf("quest %d: unknown trigger %q", d.ID, d.Trigger)
		}
	}
	return nil
}
