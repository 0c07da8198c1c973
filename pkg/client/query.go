package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/blaseref/pkg/model"
)

// IDs is an identifier filter: one opaque identifier or an ordered list.
// It is sent comma-joined. An empty IDs means the filter is not supplied.
type IDs []string

// ID returns a filter holding a single identifier.
func ID(id string) IDs {
	if id == "" {
		return nil
	}
	return IDs{id}
}

// IDList returns a filter holding ids in order.
func IDList(ids ...string) IDs {
	return IDs(ids)
}

// ToIDs converts a loosely typed identifier argument. It accepts a string,
// []string, IDs or []any holding only strings.
func ToIDs(v any) (IDs, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return ID(t), nil
	case IDs:
		return t, t.validate()
	case []string:
		return IDs(t), IDs(t).validate()
	case []any:
		ids := make(IDs, 0, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: identifier %d has type %T, want string", ErrInvalidArgument, i, e)
			}
			ids = append(ids, s)
		}
		return ids, ids.validate()
	default:
		return nil, fmt.Errorf("%w: identifier has type %T, want string or list of strings", ErrInvalidArgument, v)
	}
}

func (ids IDs) validate() error {
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: identifier %d is empty", ErrInvalidArgument, i)
		}
	}
	return nil
}

func (ids IDs) String() string {
	return strings.Join(ids, ",")
}

func setIDs(op string, v url.Values, key string, ids IDs) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ids.validate(); err != nil {
		return Wrap(op, fmt.Errorf("%s: %w", key, err))
	}
	v.Set(key, ids.String())
	return nil
}

// EventsQuery selects game events. Exactly one identifier filter is
// expected; when several are set the first of player, game, pitcher, batter
// is used and the rest are ignored.
type EventsQuery struct {
	PlayerIDs  IDs
	GameIDs    IDs
	PitcherIDs IDs
	BatterIDs  IDs

	// Optional, sent verbatim when set.
	Type                model.EventType
	IncludeBaseRunners  *bool
	IncludePlayerEvents *bool
	SortBy              string
	SortDirection       string
}

func (q EventsQuery) params(op string) (url.Values, error) {
	v := url.Values{}
	filters := []struct {
		key string
		ids IDs
	}{
		{"playerId", q.PlayerIDs},
		{"gameId", q.GameIDs},
		{"pitcherId", q.PitcherIDs},
		{"batterId", q.BatterIDs},
	}
	for _, f := range filters {
		if len(f.ids) == 0 {
			continue
		}
		if err := setIDs(op, v, f.key, f.ids); err != nil {
			return nil, err
		}
		break
	}
	if len(v) == 0 {
		return nil, missingArgument(op, "one of playerId, gameId, pitcherId or batterId is required")
	}

	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.IncludeBaseRunners != nil {
		v.Set("baseRunners", strconv.FormatBool(*q.IncludeBaseRunners))
	}
	if q.IncludePlayerEvents != nil {
		v.Set("playerEvents", strconv.FormatBool(*q.IncludePlayerEvents))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDirection != "" {
		v.Set("sortDirection", q.SortDirection)
	}
	return v, nil
}

// StatQuery filters a per-player statistic. Both fields are optional.
type StatQuery struct {
	IDs    IDs
	Season *int
}

// params places the identifiers under subjectKey, batterId or pitcherId.
func (q StatQuery) params(op, subjectKey string) (url.Values, error) {
	v := url.Values{}
	if err := setIDs(op, v, subjectKey, q.IDs); err != nil {
		return nil, err
	}
	if q.Season != nil {
		if *q.Season < 0 {
			return nil, invalidArgument(op, "season must not be negative, got %d", *q.Season)
		}
		v.Set("season", strconv.Itoa(*q.Season))
	}
	return v, nil
}

// CountByTypeQuery counts events of one type per pitcher and per batter.
type CountByTypeQuery struct {
	EventType  model.EventType
	PitcherIDs IDs
	BatterIDs  IDs
}

func (q CountByTypeQuery) params(op string) (url.Values, error) {
	if q.EventType == "" {
		return nil, missingArgument(op, "eventType is required")
	}
	if !q.EventType.Valid() {
		return nil, invalidArgument(op, "unknown event type %q", q.EventType)
	}
	v := url.Values{}
	v.Set("eventType", string(q.EventType))
	if err := setIDs(op, v, "pitcherId", q.PitcherIDs); err != nil {
		return nil, err
	}
	if err := setIDs(op, v, "batterId", q.BatterIDs); err != nil {
		return nil, err
	}
	return v, nil
}

// Season returns a pointer for StatQuery.Season.
func Season(season int) *int {
	return &season
}

// Bool returns a pointer for the EventsQuery toggles.
func Bool(b bool) *bool {
	return &b
}
