package solver

import (
	"errors"
	"fmt"
)

// DefaultRaiseLimit is used when a GameConfig leaves RaiseLimit at its zero
// value without explicitly opting into the raise_limit=0 scenario; callers
// that want a limit of zero must set RaiseLimit to 0 and RaiseLimitSet to
// true (Validate rejects a negative RaiseLimit when RaiseLimitSet is true).
const DefaultRaiseLimit = 3

// GameConfig describes a river subgame: the pot already built on earlier
// streets, each player's remaining stack, and the bet/raise sizing ladder
// the builder expands at every action node.
type GameConfig struct {
	InitialPot float64
	Stacks     [2]float64

	// BetSizes are fractions of the current pot offered when no bet faces
	// the acting player (an opening bet).
	BetSizes []float64

	// RaiseSizes are fractions used when a bet already faces the acting
	// player (amount = facing + (pot_now+facing)*s).
	RaiseSizes []float64

	// RaiseLimit caps bets and raises on a line together: the opening bet
	// counts toward it, and a raise is offered only while that count is
	// below the limit, so a line holds at most RaiseLimit-1 raises after a
	// bet (none when RaiseLimit is 0 or 1). An opening bet is offered
	// regardless. Defaults to DefaultRaiseLimit when RaiseLimitSet is false.
	RaiseLimit    int
	RaiseLimitSet bool
}

// EffectiveRaiseLimit returns the configured raise limit, or
// DefaultRaiseLimit if the caller never set one.
func (c GameConfig) EffectiveRaiseLimit() int {
	if c.RaiseLimitSet {
		return c.RaiseLimit
	}
	return DefaultRaiseLimit
}

// Validate checks the config is well-formed before the builder runs.
func (c GameConfig) Validate() error {
	if c.InitialPot < 0 {
		return errors.New("initial pot must be >= 0")
	}
	if c.Stacks[0] <= 0 || c.Stacks[1] <= 0 {
		return errors.New("both stacks must be > 0")
	}
	for i, s := range c.BetSizes {
		if s <= 0 {
			return fmt.Errorf("bet size[%d] must be > 0", i)
		}
	}
	for i, s := range c.RaiseSizes {
		if s <= 0 {
			return fmt.Errorf("raise size[%d] must be > 0", i)
		}
	}
	if c.RaiseLimitSet && c.RaiseLimit < 0 {
		return errors.New("raise limit must be >= 0")
	}
	return nil
}

// maxRecursionDepth is the builder's safety cap on recursion depth, per
// spec.
const maxRecursionDepth = 20
