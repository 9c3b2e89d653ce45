// Package game implements the quest orchestrator: a finite state
// machine driven by position ticks and UI events, emitting presentation
// effects for the browser client to render.
package game

import (
	"math"
	"sync"
	"time"

	"github.com/emberquest/api/internal/geom"
	"github.com/emberquest/api/internal/quest"
	"github.com/emberquest/api/internal/world"
)

// State is the authoritative session state.
type State string

const (
	// StateAwaitingQuest holds between quests: at startup before the
	// start delay elapses, and terminally once every quest is done.
	StateAwaitingQuest State = "awaiting_quest"
	// StateShowingInstructions means a quest is being introduced via
	// the phone-call prompt or the riddle modal.
	StateShowingInstructions State = "showing_instructions"
	// StatePlaying means the player is pursuing the active quest.
	StatePlaying State = "playing"
	// StateShowingSuccess means the objective was reached and the
	// success modal is up.
	StateShowingSuccess State = "showing_success"
	// StateFailed is terminal: the quest timer expired. The attempt is
	// over; a new session is required.
	StateFailed State = "failed"
)

// Event is a UI callback fed back into the machine.
type Event string

const (
	EventInstructionsDismissed Event = "instructions_dismissed"
	EventPhoneAnswered         Event = "phone_answered"
	EventPhoneDismissed        Event = "phone_dismissed"
	EventSuccessDismissed      Event = "success_dismissed"
	EventMapToggled            Event = "map_toggled"
)

// KnownEvent reports whether s names a dispatchable event.
func KnownEvent(s string) bool {
	switch Event(s) {
	case EventInstructionsDismissed, EventPhoneAnswered, EventPhoneDismissed,
		EventSuccessDismissed, EventMapToggled:
		return true
	}
	return false
}

// Config carries the tunables of one session.
type Config struct {
	// StartDelay is how long after session creation the first quest is
	// introduced.
	StartDelay time.Duration
	// QuestDuration is the countdown per quest.
	QuestDuration time.Duration
	// CompletionRadius is the objective radius: the objective completes
	// when the squared player-to-target distance is strictly below
	// CompletionRadius².
	CompletionRadius float64
	// VolumeNear and VolumeFar bound the logarithmic proximity scaling
	// of the fire ambience: full volume at or inside VolumeNear,
	// silence at or beyond VolumeFar.
	VolumeNear float64
	VolumeFar  float64
}

// DefaultConfig matches the shipped game tuning.
func DefaultConfig() Config {
	return Config{
		StartDelay:       3 * time.Second,
		QuestDuration:    2 * time.Minute,
		CompletionRadius: 5,
		VolumeNear:       2,
		VolumeFar:        60,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.StartDelay <= 0 {
		c.StartDelay = d.StartDelay
	}
	if c.QuestDuration <= 0 {
		c.QuestDuration = d.QuestDuration
	}
	if c.CompletionRadius <= 0 {
		c.CompletionRadius = d.CompletionRadius
	}
	if c.VolumeNear <= 0 {
		c.VolumeNear = d.VolumeNear
	}
	if c.VolumeFar <= c.VolumeNear {
		c.VolumeFar = d.VolumeFar
	}
}

// Session is one attempt at a scenario. It exclusively owns the state,
// the pending-quest reference, and the timer deadline; the Manager owns
// quest statuses; the World owns fire visibility. Safe for concurrent
// use: every entry point takes the session lock, so a tick always
// observes manager state consistent with the last processed UI event.
type Session struct {
	mu sync.Mutex

	cfg    Config
	quests *quest.Manager
	world  *world.World
	now    func() time.Time

	state        State
	pending      *quest.Definition // quest being introduced, nil otherwise
	phonePending bool              // phone prompt up, riddle not yet revealed

	startAt     time.Time // when the first quest may be introduced
	deadline    time.Time // quest timer deadline, valid while timerOn
	timerOn     bool
	mapMode     bool
	lastPos     geom.Vec3
	gameOver    bool // all quests completed
	timeExpired bool
}

// Option tweaks session construction.
type Option func(*Session)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession builds a session over the given quest registry and fire
// points. The first quest is introduced StartDelay after creation, on
// the first tick past the deadline.
func NewSession(defs []quest.Definition, points []world.FirePoint, cfg Config, opts ...Option) (*Session, error) {
	qm, err := quest.NewManager(defs)
	if err != nil {
		return nil, err
	}
	w, err := world.New(points)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	s := &Session{
		cfg:    cfg,
		quests: qm,
		world:  w,
		now:    time.Now,
		state:  StateAwaitingQuest,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startAt = s.now().Add(cfg.StartDelay)
	return s, nil
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Quests returns the quest log in registry order.
func (s *Session) Quests() []quest.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.All()
}

// CurrentQuest returns the active quest, if any.
func (s *Session) CurrentQuest() (quest.Quest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.Current()
}

// PendingQuest returns the quest currently being introduced, if any.
func (s *Session) PendingQuest() (quest.Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return quest.Definition{}, false
	}
	return *s.pending, true
}

// VisibleFire reports which quest's fire effect is currently shown.
func (s *Session) VisibleFire() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.VisibleFire()
}

// MapMode reports whether the top-down map view is active.
func (s *Session) MapMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapMode
}

// TimerRemaining returns the countdown left on the active quest, zero
// when no timer runs.
func (s *Session) TimerRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timerOn {
		return 0
	}
	if rem := s.deadline.Sub(s.now()); rem > 0 {
		return rem
	}
	return 0
}

// CompletedCount reports how many quests this attempt has completed.
func (s *Session) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.CompletedCount()
}

// Finished reports whether the attempt reached a terminal outcome and
// which: ("completed" or "failed"). Used to record the attempt once.
func (s *Session) Finished() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.timeExpired:
		return "failed", true
	case s.gameOver:
		return "completed", true
	}
	return "", false
}

// Tick is the per-frame update. It advances deadline-driven transitions
// (quest introduction, timer expiry) and, while playing outside map
// mode, runs the objective distance check against pos.
func (s *Session) Tick(pos geom.Vec3) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mapMode {
		// Movement is disabled while the map is open; a stale position
		// must not complete an objective.
		s.lastPos = pos
	}

	switch s.state {
	case StateAwaitingQuest:
		if s.gameOver || s.now().Before(s.startAt) {
			return nil
		}
		next, ok := s.quests.Next()
		if !ok {
			return nil
		}
		return s.beginQuest(next)

	case StatePlaying:
		return s.tickPlaying()
	}
	return nil
}

func (s *Session) tickPlaying() []Effect {
	now := s.now()
	if s.timerOn && !now.Before(s.deadline) {
		// Hard failure: terminal for the attempt, no retry in place.
		s.timerOn = false
		s.timeExpired = true
		s.state = StateFailed
		s.world.HideAllFires()
		return []Effect{
			{Type: EffectTimerStopped},
			{Type: EffectHideAllFires},
			{Type: EffectTimeExpired},
		}
	}

	var effects []Effect
	if s.timerOn {
		effects = append(effects, Effect{
			Type:        EffectTimerUpdate,
			RemainingMS: s.deadline.Sub(now).Milliseconds(),
		})
	}

	if s.mapMode {
		// Objective checks are suspended while movement is disabled.
		return effects
	}

	cur, ok := s.quests.Current()
	if !ok {
		return effects
	}
	target, ok := s.world.FirePointPosition(cur.ID)
	if !ok {
		// Lookup miss: skip this frame's check, never fail.
		return effects
	}

	d2 := geom.DistSq(s.lastPos, target)
	r2 := s.cfg.CompletionRadius * s.cfg.CompletionRadius
	if d2 < r2 {
		s.timerOn = false
		s.state = StateShowingSuccess
		effects = append(effects,
			Effect{Type: EffectTimerStopped},
			Effect{Type: EffectQuestCompleteSound},
			distanceReached(),
			Effect{Type: EffectShowSuccess, QuestID: cur.ID, Speaker: cur.Title, Text: cur.SuccessMessage},
		)
		return effects
	}

	d := math.Sqrt(d2)
	effects = append(effects,
		distanceEffect(d),
		Effect{Type: EffectFireVolume, Volume: s.fireVolume(d)},
	)
	return effects
}

// Dispatch feeds a UI event into the machine. Events that are invalid
// for the current state are ignored, which makes duplicate clicks and
// late modal callbacks harmless.
func (s *Session) Dispatch(ev Event) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev == EventMapToggled {
		// Orthogonal to quest state: allowed everywhere except after
		// the attempt already failed.
		if s.state == StateFailed {
			return nil
		}
		s.mapMode = !s.mapMode
		return []Effect{{Type: EffectMapMode, Enabled: s.mapMode}}
	}

	switch s.state {
	case StateShowingInstructions:
		return s.dispatchInstructions(ev)
	case StateShowingSuccess:
		if ev == EventSuccessDismissed {
			return s.advanceAfterSuccess()
		}
	}
	return nil
}

func (s *Session) dispatchInstructions(ev Event) []Effect {
	if s.pending == nil {
		return nil
	}
	switch ev {
	case EventPhoneAnswered, EventPhoneDismissed:
		if !s.phonePending {
			return nil
		}
		// Dismissing without answering falls through to the riddle, so
		// the quest is never permanently skippable.
		s.phonePending = false
		return []Effect{
			{Type: EffectStopRingtone},
			{Type: EffectHidePhoneCall},
			s.riddleEffect(*s.pending),
		}

	case EventInstructionsDismissed:
		if s.phonePending {
			return nil
		}
		def := *s.pending
		s.pending = nil
		s.quests.Activate(def.ID)
		s.world.HideAllFires()
		s.world.ShowFireAt(def.ID)
		s.deadline = s.now().Add(s.cfg.QuestDuration)
		s.timerOn = true
		s.state = StatePlaying
		return []Effect{
			{Type: EffectHideAllFires},
			{Type: EffectShowFire, QuestID: def.ID},
			{Type: EffectTimerStarted, RemainingMS: s.cfg.QuestDuration.Milliseconds()},
		}
	}
	return nil
}

func (s *Session) advanceAfterSuccess() []Effect {
	// The timer was already stopped on success; clearing the deadline
	// here as well guards against a stale timeout firing against the
	// next quest.
	s.timerOn = false

	next, ok := s.quests.CompleteCurrent()
	if !ok {
		s.state = StateAwaitingQuest
		s.gameOver = true
		s.world.HideAllFires()
		return []Effect{
			{Type: EffectHideAllFires},
			{Type: EffectGameOver},
		}
	}
	return s.beginQuest(next)
}

// beginQuest enters SHOWING_INSTRUCTIONS for def, branching on its
// trigger kind.
func (s *Session) beginQuest(def quest.Definition) []Effect {
	s.pending = &def
	s.state = StateShowingInstructions

	if def.Trigger == quest.TriggerPhoneCall {
		s.phonePending = true
		return []Effect{
			{Type: EffectPlayRingtone},
			{Type: EffectShowPhoneCall, QuestID: def.ID, Caller: def.Caller},
		}
	}
	s.phonePending = false
	return []Effect{s.riddleEffect(def)}
}

func (s *Session) riddleEffect(def quest.Definition) Effect {
	speaker := def.Caller
	if speaker == "" {
		speaker = def.Title
	}
	return Effect{Type: EffectShowInstructions, QuestID: def.ID, Speaker: speaker, Text: def.Riddle}
}

// fireVolume maps distance to ambience volume, scaled logarithmically
// between the near and far bounds.
func (s *Session) fireVolume(d float64) float64 {
	near, far := s.cfg.VolumeNear, s.cfg.VolumeFar
	if d <= near {
		return 1
	}
	if d >= far {
		return 0
	}
	return (math.Log(far) - math.Log(d)) / (math.Log(far) - math.Log(near))
}
