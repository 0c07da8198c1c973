package model

import "encoding/json"

// BaseRunner is one runner's base-state transition during a game event.
// Bases run 0 (not on base) through 4 (scored). The stolen/caught/picked-off
// flags are taken from the source as-is and are not reconciled with the bases.
type BaseRunner struct {
	ID                   int64  `json:"id"`
	GameEventID          int64  `json:"game_event_id"`
	RunnerID             string `json:"runner_id"`
	ResponsiblePitcherID string `json:"responsible_pitcher_id"`
	BaseBeforePlay       int    `json:"base_before_play"`
	BaseAfterPlay        int    `json:"base_after_play"`
	WasBaseStolen        *bool  `json:"was_base_stolen"`
	WasCaughtStealing    *bool  `json:"was_caught_stealing"`
	WasPickedOff         *bool  `json:"was_picked_off"`
}

type baseRunnerWire struct {
	ID                   *int64 `json:"id"`
	GameEventID          int64  `json:"game_event_id"`
	RunnerID             string `json:"runner_id"`
	ResponsiblePitcherID string `json:"responsible_pitcher_id"`
	BaseBeforePlay       int    `json:"base_before_play"`
	BaseAfterPlay        int    `json:"base_after_play"`
	WasBaseStolen        *bool  `json:"was_base_stolen"`
	WasCaughtStealing    *bool  `json:"was_caught_stealing"`
	WasPickedOff         *bool  `json:"was_picked_off"`
}

// UnmarshalJSON maps a base runner record field by field.
func (b *BaseRunner) UnmarshalJSON(data []byte) error {
	const record = "base runner"
	var w baseRunnerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return wrapDecode(record, err)
	}
	if w.ID == nil {
		return missingField(record, "id")
	}
	*b = BaseRunner{
		ID:                   *w.ID,
		GameEventID:          w.GameEventID,
		RunnerID:             w.RunnerID,
		ResponsiblePitcherID: w.ResponsiblePitcherID,
		BaseBeforePlay:       w.BaseBeforePlay,
		BaseAfterPlay:        w.BaseAfterPlay,
		WasBaseStolen:        w.WasBaseStolen,
		WasCaughtStealing:    w.WasCaughtStealing,
		WasPickedOff:         w.WasPickedOff,
	}
	return nil
}
