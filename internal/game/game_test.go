package game

import (
	"testing"
	"time"

	"github.com/emberquest/api/internal/geom"
	"github.com/emberquest/api/internal/quest"
	"github.com/emberquest/api/internal/world"
)

// fakeClock is a manually advanced clock for deadline-driven tests.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var (
	fire1 = geom.Vec3{X: 40, Y: 0, Z: -12}
	fire2 = geom.Vec3{X: -25, Y: 3, Z: 60}
)

func twoQuestDefs() []quest.Definition {
	return []quest.Definition{
		{ID: 1, Title: "The Old Lighthouse", Riddle: "Where the light once warned the ships.", SuccessMessage: "The first ember burns."},
		{ID: 2, Title: "The Clocktower", Riddle: "Time stands still above the square.", SuccessMessage: "The city is safe.", Trigger: quest.TriggerPhoneCall, Caller: "The Warden"},
	}
}

func twoQuestPoints() []world.FirePoint {
	return []world.FirePoint{
		{QuestID: 1, Position: fire1},
		{QuestID: 2, Position: fire2},
	}
}

func newTestSession(t *testing.T, defs []quest.Definition, points []world.FirePoint) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s, err := NewSession(defs, points, Config{}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, clock
}

func hasEffect(effects []Effect, typ EffectType) bool {
	for _, e := range effects {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func findEffect(t *testing.T, effects []Effect, typ EffectType) Effect {
	t.Helper()
	for _, e := range effects {
		if e.Type == typ {
			return e
		}
	}
	t.Fatalf("effect %q not found in %+v", typ, effects)
	return Effect{}
}

func TestStartDelayGatesFirstQuest(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())

	if got := s.State(); got != StateAwaitingQuest {
		t.Fatalf("state = %q, want awaiting_quest", got)
	}
	if effects := s.Tick(geom.Vec3{}); len(effects) != 0 {
		t.Fatalf("tick before start delay produced %+v", effects)
	}

	clock.Advance(3 * time.Second)
	effects := s.Tick(geom.Vec3{})
	if s.State() != StateShowingInstructions {
		t.Fatalf("state = %q, want showing_instructions", s.State())
	}
	instr := findEffect(t, effects, EffectShowInstructions)
	if instr.Text != "Where the light once warned the ships." {
		t.Errorf("riddle = %q", instr.Text)
	}
	if pending, ok := s.PendingQuest(); !ok || pending.ID != 1 {
		t.Errorf("pending = %+v, %v; want quest 1", pending, ok)
	}
}

func TestFullTwoQuestScenario(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	clock.Advance(3 * time.Second)

	// Quest 1 is direct: riddle straight away.
	s.Tick(geom.Vec3{})
	effects := s.Dispatch(EventInstructionsDismissed)
	if s.State() != StatePlaying {
		t.Fatalf("state = %q, want playing", s.State())
	}
	if !hasEffect(effects, EffectTimerStarted) {
		t.Error("expected timer_started on entering playing")
	}
	if fire := findEffect(t, effects, EffectShowFire); fire.QuestID != 1 {
		t.Errorf("show_fire quest = %d, want 1", fire.QuestID)
	}
	if cur, ok := s.CurrentQuest(); !ok || cur.ID != 1 || cur.Status != quest.StatusActive {
		t.Fatalf("current = %+v, %v; want quest 1 active", cur, ok)
	}

	// Far away: distance HUD + fire volume, no transition.
	effects = s.Tick(geom.Vec3{X: 0, Y: 0, Z: 0})
	d := findEffect(t, effects, EffectDistanceUpdate)
	if d.Distance == nil || *d.Distance < 41 {
		t.Errorf("distance effect = %+v, want ~41.7", d)
	}
	if s.State() != StatePlaying {
		t.Fatalf("state = %q after far tick", s.State())
	}

	// Reach the fire point.
	effects = s.Tick(fire1)
	if s.State() != StateShowingSuccess {
		t.Fatalf("state = %q, want showing_success", s.State())
	}
	if !hasEffect(effects, EffectTimerStopped) || !hasEffect(effects, EffectQuestCompleteSound) {
		t.Errorf("success effects missing: %+v", effects)
	}
	success := findEffect(t, effects, EffectShowSuccess)
	if success.Text != "The first ember burns." {
		t.Errorf("success text = %q", success.Text)
	}
	reached := findEffect(t, effects, EffectDistanceUpdate)
	if reached.Distance != nil {
		t.Errorf("expected reached sentinel, got distance %v", *reached.Distance)
	}

	// Dismiss success: quest 2 is phonecall-gated.
	effects = s.Dispatch(EventSuccessDismissed)
	if s.State() != StateShowingInstructions {
		t.Fatalf("state = %q, want showing_instructions for quest 2", s.State())
	}
	if !hasEffect(effects, EffectPlayRingtone) {
		t.Error("expected ringtone for phonecall quest")
	}
	call := findEffect(t, effects, EffectShowPhoneCall)
	if call.Caller != "The Warden" {
		t.Errorf("caller = %q", call.Caller)
	}

	// Dismissing instructions while the phone is still up does nothing.
	if effects := s.Dispatch(EventInstructionsDismissed); len(effects) != 0 {
		t.Errorf("instruction dismiss before answering produced %+v", effects)
	}

	effects = s.Dispatch(EventPhoneAnswered)
	if !hasEffect(effects, EffectStopRingtone) {
		t.Error("expected stop_ringtone on answer")
	}
	riddle := findEffect(t, effects, EffectShowInstructions)
	if riddle.Speaker != "The Warden" {
		t.Errorf("speaker = %q, want the caller", riddle.Speaker)
	}

	s.Dispatch(EventInstructionsDismissed)
	if s.State() != StatePlaying {
		t.Fatalf("state = %q, want playing quest 2", s.State())
	}

	// Reach quest 2's target, dismiss, and the game is over.
	s.Tick(fire2)
	effects = s.Dispatch(EventSuccessDismissed)
	if s.State() != StateAwaitingQuest {
		t.Fatalf("state = %q, want terminal awaiting_quest", s.State())
	}
	if !hasEffect(effects, EffectGameOver) {
		t.Errorf("expected game_over, got %+v", effects)
	}
	if outcome, done := s.Finished(); !done || outcome != "completed" {
		t.Errorf("finished = %q, %v", outcome, done)
	}
	if cur, ok := s.CurrentQuest(); ok {
		t.Errorf("current quest = %+v after game over", cur)
	}

	// Terminal: further ticks introduce nothing.
	clock.Advance(time.Hour)
	if effects := s.Tick(fire1); len(effects) != 0 {
		t.Errorf("tick after game over produced %+v", effects)
	}
}

func TestPhoneDismissFallsThroughToRiddle(t *testing.T) {
	defs := []quest.Definition{{
		ID: 1, Title: "The Clocktower", Riddle: "Time stands still.",
		SuccessMessage: "Done.", Trigger: quest.TriggerPhoneCall, Caller: "Unknown",
	}}
	points := []world.FirePoint{{QuestID: 1, Position: fire1}}
	s, clock := newTestSession(t, defs, points)
	clock.Advance(3 * time.Second)

	effects := s.Tick(geom.Vec3{})
	if !hasEffect(effects, EffectShowPhoneCall) {
		t.Fatal("expected phone prompt before riddle")
	}
	if hasEffect(effects, EffectShowInstructions) {
		t.Fatal("riddle must not show before the phone step")
	}

	// Hanging up still reveals the riddle.
	effects = s.Dispatch(EventPhoneDismissed)
	if !hasEffect(effects, EffectShowInstructions) {
		t.Fatalf("expected riddle after dismissing the call, got %+v", effects)
	}
	s.Dispatch(EventInstructionsDismissed)
	if s.State() != StatePlaying {
		t.Fatalf("state = %q, want playing", s.State())
	}
}

func TestDistanceBoundaryIsStrict(t *testing.T) {
	defs := []quest.Definition{{ID: 1, Title: "T", Riddle: "r", SuccessMessage: "s"}}
	points := []world.FirePoint{{QuestID: 1, Position: geom.Vec3{}}}
	s, clock := newTestSession(t, defs, points)
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{X: 100})
	s.Dispatch(EventInstructionsDismissed)

	// Exactly on the radius: squared distance equals threshold², must
	// NOT complete.
	s.Tick(geom.Vec3{X: 5})
	if s.State() != StatePlaying {
		t.Fatalf("state = %q at exact radius, want playing", s.State())
	}

	s.Tick(geom.Vec3{X: 4.999})
	if s.State() != StateShowingSuccess {
		t.Fatalf("state = %q just inside radius, want showing_success", s.State())
	}
}

func TestTimerExpiryIsTerminal(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	s.Dispatch(EventInstructionsDismissed)

	clock.Advance(2 * time.Minute)
	effects := s.Tick(geom.Vec3{})
	if s.State() != StateFailed {
		t.Fatalf("state = %q, want failed", s.State())
	}
	if !hasEffect(effects, EffectTimeExpired) || !hasEffect(effects, EffectHideAllFires) {
		t.Errorf("expiry effects = %+v", effects)
	}
	if outcome, done := s.Finished(); !done || outcome != "failed" {
		t.Errorf("finished = %q, %v", outcome, done)
	}

	// Standing on the target afterward must not flip to success.
	s.Tick(fire1)
	if s.State() != StateFailed {
		t.Fatalf("state = %q after in-range tick, want failed", s.State())
	}
	// Nor do stale UI events resurrect the attempt.
	if effects := s.Dispatch(EventSuccessDismissed); len(effects) != 0 {
		t.Errorf("dispatch after failure produced %+v", effects)
	}
}

func TestTimerClearedOnSuccess(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	s.Dispatch(EventInstructionsDismissed)

	// Complete quest 1 with seconds to spare, then let the old deadline
	// pass while quest 2's instructions are up. The stale timeout must
	// not fire against quest 2.
	clock.Advance(119 * time.Second)
	s.Tick(fire1)
	s.Dispatch(EventSuccessDismissed)
	clock.Advance(10 * time.Second) // old deadline long gone

	s.Dispatch(EventPhoneAnswered)
	s.Dispatch(EventInstructionsDismissed)
	if s.State() != StatePlaying {
		t.Fatalf("state = %q, want playing", s.State())
	}

	effects := s.Tick(geom.Vec3{})
	if hasEffect(effects, EffectTimeExpired) {
		t.Fatal("stale deadline fired against the new quest")
	}
	tu := findEffect(t, effects, EffectTimerUpdate)
	if tu.RemainingMS <= 0 || tu.RemainingMS > (2*time.Minute).Milliseconds() {
		t.Errorf("remaining = %dms, want a fresh countdown", tu.RemainingMS)
	}
}

func TestMapModeSuspendsObjectiveChecks(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	s.Dispatch(EventInstructionsDismissed)

	effects := s.Dispatch(EventMapToggled)
	mm := findEffect(t, effects, EffectMapMode)
	if !mm.Enabled {
		t.Fatal("expected map mode enabled")
	}

	// In range while the map is open: no success, no HUD distance.
	effects = s.Tick(fire1)
	if s.State() != StatePlaying {
		t.Fatalf("state = %q with map open, want playing", s.State())
	}
	if hasEffect(effects, EffectDistanceUpdate) || hasEffect(effects, EffectFireVolume) {
		t.Errorf("HUD updates while map open: %+v", effects)
	}
	// The countdown keeps running.
	if !hasEffect(effects, EffectTimerUpdate) {
		t.Error("expected timer_update while map open")
	}

	// Closing the map resumes checks with live positions.
	s.Dispatch(EventMapToggled)
	s.Tick(fire1)
	if s.State() != StateShowingSuccess {
		t.Fatalf("state = %q after closing map in range, want showing_success", s.State())
	}
}

func TestMapToggleOrthogonalToQuestState(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())

	// Toggle during awaiting_quest, before anything started.
	s.Dispatch(EventMapToggled)
	if !s.MapMode() {
		t.Fatal("map mode should toggle in awaiting_quest")
	}
	s.Dispatch(EventMapToggled)

	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	if s.State() != StateShowingInstructions {
		t.Fatalf("state = %q, want showing_instructions", s.State())
	}
	// Toggle during the instruction modal leaves progression untouched.
	s.Dispatch(EventMapToggled)
	if p, ok := s.PendingQuest(); !ok || p.ID != 1 {
		t.Errorf("pending lost across map toggle: %+v, %v", p, ok)
	}
}

func TestDuplicateEventsAreIgnored(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})

	first := s.Dispatch(EventInstructionsDismissed)
	if len(first) == 0 {
		t.Fatal("first dismissal should transition")
	}
	second := s.Dispatch(EventInstructionsDismissed)
	if len(second) != 0 {
		t.Errorf("duplicate dismissal produced %+v", second)
	}
	if cur, ok := s.CurrentQuest(); !ok || cur.ID != 1 {
		t.Fatalf("current = %+v, %v", cur, ok)
	}
}

func TestFirePointLookupMissSkipsFrame(t *testing.T) {
	// Quest 2 has no fire point registered.
	defs := twoQuestDefs()
	points := []world.FirePoint{{QuestID: 1, Position: fire1}}
	s, clock := newTestSession(t, defs, points)
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	s.Dispatch(EventInstructionsDismissed)
	s.Tick(fire1)
	s.Dispatch(EventSuccessDismissed)
	s.Dispatch(EventPhoneAnswered)
	s.Dispatch(EventInstructionsDismissed)

	// Playing quest 2 with no target: the frame degrades to timer-only.
	effects := s.Tick(geom.Vec3{})
	if s.State() != StatePlaying {
		t.Fatalf("state = %q, want playing", s.State())
	}
	if hasEffect(effects, EffectDistanceUpdate) {
		t.Errorf("distance update without a target: %+v", effects)
	}
	if !hasEffect(effects, EffectTimerUpdate) {
		t.Error("expected timer_update despite missing target")
	}
}

func TestFireVolumeScaling(t *testing.T) {
	s, _ := newTestSession(t, twoQuestDefs(), twoQuestPoints())

	tests := []struct {
		d    float64
		want float64 // -1 means "strictly between 0 and 1"
	}{
		{0.5, 1},
		{2, 1},
		{10, -1},
		{60, 0},
		{500, 0},
	}
	for _, tt := range tests {
		got := s.fireVolume(tt.d)
		if tt.want == -1 {
			if got <= 0 || got >= 1 {
				t.Errorf("fireVolume(%v) = %v, want in (0,1)", tt.d, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("fireVolume(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}

	// Monotone: closer is never quieter.
	prev := -1.0
	for d := 59.0; d >= 3; d -= 7 {
		v := s.fireVolume(d)
		if v < prev {
			t.Fatalf("volume not monotone at d=%v: %v < %v", d, v, prev)
		}
		prev = v
	}
}

func TestTimerRemaining(t *testing.T) {
	s, clock := newTestSession(t, twoQuestDefs(), twoQuestPoints())
	if got := s.TimerRemaining(); got != 0 {
		t.Errorf("remaining before start = %v", got)
	}
	clock.Advance(3 * time.Second)
	s.Tick(geom.Vec3{})
	s.Dispatch(EventInstructionsDismissed)

	clock.Advance(30 * time.Second)
	if got := s.TimerRemaining(); got != 90*time.Second {
		t.Errorf("remaining = %v, want 90s", got)
	}
}
