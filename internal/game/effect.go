package game

// EffectType enumerates the presentation instructions the state machine
// emits. The browser client maps these onto modals, audio cues, fire
// particles, and HUD widgets; the server never renders anything itself.
type EffectType string

const (
	// Modals and phone call.
	EffectShowPhoneCall    EffectType = "show_phone_call"
	EffectHidePhoneCall    EffectType = "hide_phone_call"
	EffectShowInstructions EffectType = "show_instructions"
	EffectShowSuccess      EffectType = "show_success"

	// Audio cues.
	EffectPlayRingtone       EffectType = "play_ringtone"
	EffectStopRingtone       EffectType = "stop_ringtone"
	EffectQuestCompleteSound EffectType = "quest_complete_sound"
	EffectFireVolume         EffectType = "fire_volume"

	// World visuals.
	EffectShowFire     EffectType = "show_fire"
	EffectHideAllFires EffectType = "hide_all_fires"

	// HUD.
	EffectDistanceUpdate EffectType = "distance_update"
	EffectTimerStarted   EffectType = "timer_started"
	EffectTimerUpdate    EffectType = "timer_update"
	EffectTimerStopped   EffectType = "timer_stopped"

	// Session-level.
	EffectMapMode     EffectType = "map_mode"
	EffectGameOver    EffectType = "game_over"
	EffectTimeExpired EffectType = "time_expired"
)

// Effect is one presentation instruction. Only the fields relevant to
// its type are set; the zero value of the rest is omitted on the wire.
//
// Distance is a pointer so the HUD can tell "reached" (absent) apart
// from an actual distance: a distance_update without a distance is the
// reached sentinel.
type Effect struct {
	Type        EffectType `json:"type"`
	QuestID     int        `json:"questId,omitempty"`
	Speaker     string     `json:"speaker,omitempty"`
	Text        string     `json:"text,omitempty"`
	Caller      string     `json:"caller,omitempty"`
	Distance    *float64   `json:"distance,omitempty"`
	Volume      float64    `json:"volume,omitempty"`
	RemainingMS int64      `json:"remainingMs,omitempty"`
	Enabled     bool       `json:"enabled,omitempty"`
}

func distanceEffect(d float64) Effect {
	return Effect{Type: EffectDistanceUpdate, Distance: &d}
}

// distanceReached is the HUD sentinel: a distance update with no value.
func distanceReached() Effect {
	return Effect{Type: EffectDistanceUpdate}
}
