package model

import "fmt"

// EventType classifies a game event.
type EventType string

const (
	EventTypeUnknown         EventType = "UNKNOWN"
	EventTypeNone            EventType = "NONE"
	EventTypeOut             EventType = "OUT"
	EventTypeStrikeout       EventType = "STRIKEOUT"
	EventTypeStolenBase      EventType = "STOLEN_BASE"
	EventTypeCaughtStealing  EventType = "CAUGHT_STEALING"
	EventTypePickoff         EventType = "PICKOFF"
	EventTypeWildPitch       EventType = "WILD_PITCH"
	EventTypeBalk            EventType = "BALK"
	EventTypeOtherAdvance    EventType = "OTHER_ADVANCE"
	EventTypeWalk            EventType = "WALK"
	EventTypeIntentionalWalk EventType = "INTENTIONAL_WALK"
	EventTypeHitByPitch      EventType = "HIT_BY_PITCH"
	EventTypeFieldersChoice  EventType = "FIELDERS_CHOICE"
	EventTypeSingle          EventType = "SINGLE"
	EventTypeDouble          EventType = "DOUBLE"
	EventTypeTriple          EventType = "TRIPLE"
	EventTypeHomeRun         EventType = "HOME_RUN"
)

// EventTypes lists every event type in declaration order.
var EventTypes = []EventType{
	EventTypeUnknown, EventTypeNone, EventTypeOut, EventTypeStrikeout,
	EventTypeStolenBase, EventTypeCaughtStealing, EventTypePickoff, EventTypeWildPitch,
	EventTypeBalk, EventTypeOtherAdvance, EventTypeWalk, EventTypeIntentionalWalk,
	EventTypeHitByPitch, EventTypeFieldersChoice, EventTypeSingle, EventTypeDouble,
	EventTypeTriple, EventTypeHomeRun,
}

var eventTypesByCode = index(EventTypes)

// Valid reports whether t is a member of the enumeration.
func (t EventType) Valid() bool {
	_, ok := eventTypesByCode[string(t)]
	return ok
}

// PitchType is a Retrosheet pitch code. The zero value PitchNone marks a
// code the decoder did not recognize.
type PitchType string

const (
	PitchNone                     PitchType = ""
	PitchCalledStrike             PitchType = "C"
	PitchSwingingStrike           PitchType = "S"
	PitchBall                     PitchType = "B"
	PitchFoul                     PitchType = "F"
	PitchPickoffFirst             PitchType = "1"
	PitchPickoffSecond            PitchType = "2"
	PitchPickoffThird             PitchType = "3"
	PitchPickoffFourth            PitchType = "4"
	PitchCatcherPickoffFirst      PitchType = "+1"
	PitchCatcherPickoffSecond     PitchType = "+2"
	PitchCatcherPickoffThird      PitchType = "+3"
	PitchCatcherPickoffFourth     PitchType = "+4"
	PitchFoulBunt                 PitchType = "L"
	PitchMissedBunt               PitchType = "M"
	PitchSwingingStrikeOnPitchout PitchType = "Q"
	PitchFoulBallOnPitchout       PitchType = "R"
	PitchIntentionalBall          PitchType = "I"
	PitchPitchout                 PitchType = "P"
	PitchHitByPitch               PitchType = "H"
	PitchUnknownStrike            PitchType = "K"
	PitchUnknownOrMissing         PitchType = "U"
	PitchHit                      PitchType = "X"
)

var pitchNames = map[PitchType]string{
	PitchCalledStrike:             "CALLED_STRIKE",
	PitchSwingingStrike:           "SWINGING_STRIKE",
	PitchBall:                     "BALL",
	PitchFoul:                     "FOUL",
	PitchPickoffFirst:             "PICKOFF_FIRST",
	PitchPickoffSecond:            "PICKOFF_SECOND",
	PitchPickoffThird:             "PICKOFF_THIRD",
	PitchPickoffFourth:            "PICKOFF_FOURTH",
	PitchCatcherPickoffFirst:      "CATCHER_PICKOFF_FIRST",
	PitchCatcherPickoffSecond:     "CATCHER_PICKOFF_SECOND",
	PitchCatcherPickoffThird:      "CATCHER_PICKOFF_THIRD",
	PitchCatcherPickoffFourth:     "CATCHER_PICKOFF_FOURTH",
	PitchFoulBunt:                 "FOUL_BUNT",
	PitchMissedBunt:               "MISSED_BUNT",
	PitchSwingingStrikeOnPitchout: "SWINGING_STRIKE_ON_PITCHOUT",
	PitchFoulBallOnPitchout:       "FOUL_BALL_ON_PITCHOUT",
	PitchIntentionalBall:          "INTENTIONAL_BALL",
	PitchPitchout:                 "PITCHOUT",
	PitchHitByPitch:               "HIT_BY_PITCH",
	PitchUnknownStrike:            "UNKNOWN_STRIKE",
	PitchUnknownOrMissing:         "UNKNOWN_OR_MISSING",
	PitchHit:                      "HIT",
}

var pitchesByCode = indexKeys(pitchNames)

// String returns the enumeration name, or an empty string for PitchNone.
func (p PitchType) String() string {
	return pitchNames[p]
}

// BattedBallType classifies how a batted ball was struck.
type BattedBallType string

const (
	BattedBallFlyBall    BattedBallType = "F"
	BattedBallGroundBall BattedBallType = "G"
	BattedBallLineDrive  BattedBallType = "L"
	BattedBallPopUp      BattedBallType = "P"
)

var battedBallNames = map[BattedBallType]string{
	BattedBallFlyBall:    "FLY_BALL",
	BattedBallGroundBall: "GROUND_BALL",
	BattedBallLineDrive:  "LINE_DRIVE",
	BattedBallPopUp:      "POP_UP",
}

var battedBallsByCode = indexKeys(battedBallNames)

func (b BattedBallType) String() string {
	return battedBallNames[b]
}

// PlayerEventType is an out-of-band effect applied to a player.
type PlayerEventType string

const (
	PlayerEventIncineration PlayerEventType = "INCINERATION"
	PlayerEventPeanutGood   PlayerEventType = "PEANUT_GOOD"
	PlayerEventPeanutBad    PlayerEventType = "PEANUT_BAD"
)

var playerEventTypesByCode = index([]PlayerEventType{
	PlayerEventIncineration, PlayerEventPeanutGood, PlayerEventPeanutBad,
})

// decodeLenient maps code onto a known member, returning fallback for
// anything it does not recognize.
func decodeLenient[T ~string](code string, known map[string]T, fallback T) T {
	if v, ok := known[code]; ok {
		return v
	}
	return fallback
}

// decodeStrict maps code onto a known member and fails on anything else.
func decodeStrict[T ~string](code string, known map[string]T) (T, error) {
	v, ok := known[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: unrecognized %T %q", ErrDecode, zero, code)
	}
	return v, nil
}

func index[T ~string](members []T) map[string]T {
	m := make(map[string]T, len(members))
	for _, v := range members {
		m[string(v)] = v
	}
	return m
}

func indexKeys[T ~string](names map[T]string) map[string]T {
	m := make(map[string]T, len(names))
	for v := range names {
		m[string(v)] = v
	}
	return m
}
