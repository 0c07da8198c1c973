package client

import (
	"context"
	"io"
)

// Subject query keys.
const (
	paramBatter  = "batterId"
	paramPitcher = "pitcherId"
)

func (c *Client) counts(ctx context.Context, endpoint, param, key string, q StatQuery) (map[string]int, error) {
	op := "client." + endpoint
	params, err := q.params(op, param)
	if err != nil {
		return nil, c.fail(ctx, endpoint, err)
	}
	return fetch(ctx, c, op, endpoint, params,
		func(r io.Reader) (map[string]int, error) { return decodeCounts(r, key) },
		func(m map[string]int) int { return len(m) })
}

func (c *Client) rates(ctx context.Context, endpoint, param, key string, q StatQuery) (map[string]float64, error) {
	op := "client." + endpoint
	params, err := q.params(op, param)
	if err != nil {
		return nil, c.fail(ctx, endpoint, err)
	}
	return fetch(ctx, c, op, endpoint, params,
		func(r io.Reader) (map[string]float64, error) { return decodeRates(r, key) },
		func(m map[string]float64) int { return len(m) })
}

// Batting counts, keyed by batter.

func (c *Client) PlateAppearances(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "plateAppearances", paramBatter, keyBatter, q)
}

func (c *Client) AtBats(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "atBats", paramBatter, keyBatter, q)
}

func (c *Client) Hits(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "hits", paramBatter, keyBatter, q)
}

func (c *Client) TimesOnBase(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "timesOnBase", paramBatter, keyBatter, q)
}

// Batting rates, keyed by batter.

func (c *Client) BattingAverage(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "battingAverage", paramBatter, keyBatter, q)
}

func (c *Client) OnBasePercentage(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "onBasePercentage", paramBatter, keyBatter, q)
}

// OnBasePlusSlugging calls the API's capitalized OnBasePlusSlugging endpoint.
func (c *Client) OnBasePlusSlugging(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "OnBasePlusSlugging", paramBatter, keyBatter, q)
}

func (c *Client) Slugging(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "slugging", paramBatter, keyBatter, q)
}

// Pitching counts, keyed by pitcher.

func (c *Client) OutsRecorded(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "outsRecorded", paramPitcher, keyPitcher, q)
}

func (c *Client) HitsRecorded(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "hitsRecorded", paramPitcher, keyPitcher, q)
}

func (c *Client) WalksRecorded(ctx context.Context, q StatQuery) (map[string]int, error) {
	return c.counts(ctx, "walksRecorded", paramPitcher, keyPitcher, q)
}

// Pitching rates, keyed by pitcher.

func (c *Client) EarnedRuns(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "earnedRuns", paramPitcher, keyPitcher, q)
}

// WHIP is walks plus hits per inning pitched.
func (c *Client) WHIP(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "whip", paramPitcher, keyPitcher, q)
}

// ERA is earned run average.
func (c *Client) ERA(ctx context.Context, q StatQuery) (map[string]float64, error) {
	return c.rates(ctx, "era", paramPitcher, keyPitcher, q)
}
