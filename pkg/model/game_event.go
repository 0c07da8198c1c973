// Package model contains the value objects decoded from the statistics API.
//
// Records are built once per response and never mutated afterwards. Each
// type maps its JSON object field by field through an unexported wire struct
// so that required keys and enumeration codes are checked explicitly.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/blaseref/internal/coerce"
)

// GameEvent is a plate-appearance-level (or sub-event) record within a game.
type GameEvent struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	EventType EventType `json:"event_type"`

	EventIndex     int  `json:"event_index"` // 0-indexed within the game
	Inning         int  `json:"inning"`      // 1-indexed
	TopOfInning    bool `json:"top_of_inning"`
	OutsBeforePlay int  `json:"outs_before_play"`

	BatterID      string `json:"batter_id"`
	BatterTeamID  string `json:"batter_team_id"`
	PitcherID     string `json:"pitcher_id"`
	PitcherTeamID string `json:"pitcher_team_id"`

	HomeScore       int `json:"home_score"`
	AwayScore       int `json:"away_score"`
	HomeStrikeCount int `json:"home_strike_count"`
	AwayStrikeCount int `json:"away_strike_count"`
	BatterCount     int `json:"batter_count"`

	Pitches      []PitchType `json:"pitches"`
	TotalStrikes int         `json:"total_strikes"`
	TotalBalls   int         `json:"total_balls"`
	TotalFouls   int         `json:"total_fouls"`

	IsLeadoff                     *bool `json:"is_leadoff"`
	IsPinchHit                    *bool `json:"is_pinch_hit"`
	LineupPosition                int   `json:"lineup_position"`
	IsLastEventForPlateAppearance *bool `json:"is_last_event_for_plate_appearance"`

	BasesHit            int             `json:"bases_hit"`
	RunsBattedIn        int             `json:"runs_batted_in"`
	IsSacrificeHit      *bool           `json:"is_sacrifice_hit"`
	IsSacrificeFly      *bool           `json:"is_sacrifice_fly"`
	OutsOnPlay          int             `json:"outs_on_play"`
	IsDoublePlay        *bool           `json:"is_double_play"`
	IsTriplePlay        *bool           `json:"is_triple_play"`
	IsWildPitch         *bool           `json:"is_wild_pitch"`
	BattedBallType      *BattedBallType `json:"batted_ball_type"`
	IsBunt              *bool           `json:"is_bunt"`
	ErrorsOnPlay        int             `json:"errors_on_play"`
	BatterBaseAfterPlay int             `json:"batter_base_after_play"`
	IsLastGameEvent     *bool           `json:"is_last_game_event"`

	EventText         []string `json:"event_text"`
	AdditionalContext string   `json:"additional_context"`

	// Present only when the query asked for them to be embedded.
	BaseRunners  []BaseRunner  `json:"base_runners"`
	PlayerEvents []PlayerEvent `json:"player_events"`
}

type gameEventWire struct {
	ID        *int64  `json:"id"`
	GameID    string  `json:"game_id"`
	EventType *string `json:"event_type"`

	EventIndex     int  `json:"event_index"`
	Inning         int  `json:"inning"`
	TopOfInning    bool `json:"top_of_inning"`
	OutsBeforePlay int  `json:"outs_before_play"`

	BatterID      string `json:"batter_id"`
	BatterTeamID  string `json:"batter_team_id"`
	PitcherID     string `json:"pitcher_id"`
	PitcherTeamID string `json:"pitcher_team_id"`

	HomeScore       json.RawMessage `json:"home_score"`
	AwayScore       json.RawMessage `json:"away_score"`
	HomeStrikeCount int             `json:"home_strike_count"`
	AwayStrikeCount int             `json:"away_strike_count"`
	BatterCount     int             `json:"batter_count"`

	Pitches      json.RawMessage `json:"pitches"`
	TotalStrikes int             `json:"total_strikes"`
	TotalBalls   int             `json:"total_balls"`
	TotalFouls   int             `json:"total_fouls"`

	IsLeadoff                     *bool `json:"is_leadoff"`
	IsPinchHit                    *bool `json:"is_pinch_hit"`
	LineupPosition                int   `json:"lineup_position"`
	IsLastEventForPlateAppearance *bool `json:"is_last_event_for_plate_appearance"`

	BasesHit            int     `json:"bases_hit"`
	RunsBattedIn        int     `json:"runs_batted_in"`
	IsSacrificeHit      *bool   `json:"is_sacrifice_hit"`
	IsSacrificeFly      *bool   `json:"is_sacrifice_fly"`
	OutsOnPlay          int     `json:"outs_on_play"`
	IsDoublePlay        *bool   `json:"is_double_play"`
	IsTriplePlay        *bool   `json:"is_triple_play"`
	IsWildPitch         *bool   `json:"is_wild_pitch"`
	BattedBallType      *string `json:"batted_ball_type"`
	IsBunt              *bool   `json:"is_bunt"`
	ErrorsOnPlay        int     `json:"errors_on_play"`
	BatterBaseAfterPlay int     `json:"batter_base_after_play"`
	IsLastGameEvent     *bool   `json:"is_last_game_event"`

	EventText         json.RawMessage `json:"event_text"`
	AdditionalContext string          `json:"additional_context"`

	BaseRunners  []BaseRunner  `json:"base_runners"`
	PlayerEvents []PlayerEvent `json:"player_events"`
}

// UnmarshalJSON maps a game event record. Event, pitch and batted-ball codes
// never fail: unknown values become EventTypeUnknown, PitchNone and nil.
func (e *GameEvent) UnmarshalJSON(data []byte) error {
	const record = "game event"
	var w gameEventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return wrapDecode(record, err)
	}
	if w.ID == nil {
		return missingField(record, "id")
	}

	homeScore, err := scoreOrZero(w.HomeScore)
	if err != nil {
		return wrapDecode(record+": home_score", err)
	}
	awayScore, err := scoreOrZero(w.AwayScore)
	if err != nil {
		return wrapDecode(record+": away_score", err)
	}
	pitches, err := decodePitches(w.Pitches)
	if err != nil {
		return wrapDecode(record+": pitches", err)
	}
	eventText, err := decodeEventText(w.EventText)
	if err != nil {
		return wrapDecode(record+": event_text", err)
	}

	eventType := EventTypeUnknown
	if w.EventType != nil {
		eventType = decodeLenient(*w.EventType, eventTypesByCode, EventTypeUnknown)
	}

	var battedBall *BattedBallType
	if w.BattedBallType != nil {
		if b := decodeLenient(*w.BattedBallType, battedBallsByCode, ""); b != "" {
			battedBall = &b
		}
	}

	*e = GameEvent{
		ID:                            *w.ID,
		GameID:                        w.GameID,
		EventType:                     eventType,
		EventIndex:                    w.EventIndex,
		Inning:                        w.Inning,
		TopOfInning:                   w.TopOfInning,
		OutsBeforePlay:                w.OutsBeforePlay,
		BatterID:                      w.BatterID,
		BatterTeamID:                  w.BatterTeamID,
		PitcherID:                     w.PitcherID,
		PitcherTeamID:                 w.PitcherTeamID,
		HomeScore:                     homeScore,
		AwayScore:                     awayScore,
		HomeStrikeCount:               w.HomeStrikeCount,
		AwayStrikeCount:               w.AwayStrikeCount,
		BatterCount:                   w.BatterCount,
		Pitches:                       pitches,
		TotalStrikes:                  w.TotalStrikes,
		TotalBalls:                    w.TotalBalls,
		TotalFouls:                    w.TotalFouls,
		IsLeadoff:                     w.IsLeadoff,
		IsPinchHit:                    w.IsPinchHit,
		LineupPosition:                w.LineupPosition,
		IsLastEventForPlateAppearance: w.IsLastEventForPlateAppearance,
		BasesHit:                      w.BasesHit,
		RunsBattedIn:                  w.RunsBattedIn,
		IsSacrificeHit:                w.IsSacrificeHit,
		IsSacrificeFly:                w.IsSacrificeFly,
		OutsOnPlay:                    w.OutsOnPlay,
		IsDoublePlay:                  w.IsDoublePlay,
		IsTriplePlay:                  w.IsTriplePlay,
		IsWildPitch:                   w.IsWildPitch,
		BattedBallType:                battedBall,
		IsBunt:                        w.IsBunt,
		ErrorsOnPlay:                  w.ErrorsOnPlay,
		BatterBaseAfterPlay:           w.BatterBaseAfterPlay,
		IsLastGameEvent:               w.IsLastGameEvent,
		EventText:                     eventText,
		AdditionalContext:             w.AdditionalContext,
		BaseRunners:                   w.BaseRunners,
		PlayerEvents:                  w.PlayerEvents,
	}
	return nil
}

// scoreOrZero defaults an absent score to 0. A present value must convert.
func scoreOrZero(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	return coerce.Int(raw)
}

func decodePitches(raw json.RawMessage) ([]PitchType, error) {
	if isNull(raw) {
		return []PitchType{}, nil
	}
	var codes []*string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, err
	}
	pitches := make([]PitchType, len(codes))
	for i, code := range codes {
		if code != nil {
			pitches[i] = decodeLenient(*code, pitchesByCode, PitchNone)
		}
	}
	return pitches, nil
}

func decodeEventText(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func wrapDecode(record string, err error) error {
	if errors.Is(err, ErrDecode) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrDecode, record, err)
}

func missingField(record, field string) error {
	return fmt.Errorf("%w: %s: missing required field %q", ErrDecode, record, field)
}
