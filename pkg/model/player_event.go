package model

import (
	"encoding/json"
	"fmt"
)

// PlayerEvent is an out-of-band effect (incineration, peanut reaction)
// applied to a player during a game event.
type PlayerEvent struct {
	ID          int64            `json:"id"`
	GameEventID int64            `json:"game_event_id"`
	PlayerID    string           `json:"player_id"`
	EventType   *PlayerEventType `json:"event_type"`
}

type playerEventWire struct {
	ID          *int64  `json:"id"`
	GameEventID int64   `json:"game_event_id"`
	PlayerID    string  `json:"player_id"`
	EventType   *string `json:"event_type"`
}

// UnmarshalJSON maps a player event record. Unlike game events, a present
// but unrecognized event_type is an error.
func (p *PlayerEvent) UnmarshalJSON(data []byte) error {
	const record = "player event"
	var w playerEventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return wrapDecode(record, err)
	}
	if w.ID == nil {
		return missingField(record, "id")
	}
	out := PlayerEvent{
		ID:          *w.ID,
		GameEventID: w.GameEventID,
		PlayerID:    w.PlayerID,
	}
	if w.EventType != nil && *w.EventType != "" {
		t, err := decodeStrict(*w.EventType, playerEventTypesByCode)
		if err != nil {
			return fmt.Errorf("%s: %w", record, err)
		}
		out.EventType = &t
	}
	*p = out
	return nil
}
