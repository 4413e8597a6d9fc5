package solver

import "math"

// Build constructs the fully expanded river action tree for cfg, rooted at
// an action node for player 0. Grounded on the teacher's legalActions /
// raiseAmounts / filterRaises functions (sdk/solver/traversal.go) for the
// general shape of "enumerate legal actions, clamp to stack, dedupe
// all-ins" — adapted from the teacher's single-hand, bucketed/pruned raise
// list to a deterministic, full expansion driven purely by cfg, with no
// simulated game state (pot/stacks live directly on each node).
//
// Construction is two-phase per node: a node's immediate children are all
// appended contiguously before any of them is expanded further, so the
// arena's "children form a contiguous span" invariant holds regardless of
// how large any one child's own subtree turns out to be.
func Build(cfg GameConfig) (*Arena, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	a := NewArena(64)
	rootHist := rootHistoryHash
	root := a.Append(Node{
		Type:         NodeAction,
		ActingPlayer: 0,
		Pot:          cfg.InitialPot,
		InfosetID:    a.InfosetID(rootHist.infosetKey(0)),
	})

	b := &builder{arena: a, cfg: cfg}
	b.expand(root, 0, [2]float64{0, 0}, cfg.Stacks, 0, 0, rootHist)
	return a, root, nil
}

type builder struct {
	arena *Arena
	cfg   GameConfig
}

// pendingChild carries the state needed to expand a just-appended action
// child once its own node entry has a stable index.
type pendingChild struct {
	idx        int
	player     int
	bets       [2]float64
	stacks     [2]float64
	raiseCount int
	depth      int
	hist       historyHash
}

// expand enumerates idx's legal actions, appends all resulting children
// contiguously, backfills idx's ChildrenStart/ChildrenCount, and only then
// recurses into each child that is itself an action node.
func (b *builder) expand(idx, player int, bets, stacks [2]float64, depth, raiseCount int, hist historyHash) {
	opponent := 1 - player
	facing := bets[opponent] - bets[player]
	potNow := b.cfg.InitialPot + bets[0] + bets[1]

	start := b.arena.Len()
	var pending []pendingChild

	appendChild := func(action ActionType, amount float64) {
		resultType, resultPlayer, resultPot, newBets, newStacks, newRaiseCount := b.resolve(
			action, amount, player, opponent, bets, stacks, potNow, raiseCount)

		if resultType == NodeAction && depth+1 >= maxRecursionDepth {
			// Safety cap: stop expanding and settle the hand at showdown.
			resultType = NodeShowdown
			resultPlayer = PlayerNone
		}

		childHist := hist.advance(action, amount)
		infosetID := uint32(NoInfoset)
		actingPlayer := uint8(PlayerNone)
		if resultType == NodeAction {
			infosetID = b.arena.InfosetID(childHist.infosetKey(uint8(resultPlayer)))
			actingPlayer = uint8(resultPlayer)
		} else if resultType == NodeTerminal {
			actingPlayer = uint8(resultPlayer)
		}

		childIdx := b.arena.Append(Node{
			Type:         resultType,
			ActingPlayer: actingPlayer,
			Pot:          resultPot,
			InfosetID:    infosetID,
			Action:       action,
			Amount:       amount,
		})

		if resultType == NodeAction {
			pending = append(pending, pendingChild{
				idx:        childIdx,
				player:     resultPlayer,
				bets:       newBets,
				stacks:     newStacks,
				raiseCount: newRaiseCount,
				depth:      depth + 1,
				hist:       childHist,
			})
		}
	}

	if facing > 0 {
		appendChild(ActionFold, 0)
	}
	if facing == 0 {
		appendChild(ActionCheck, 0)
	} else {
		appendChild(ActionCall, math.Min(facing, stacks[player]))
	}

	raiseLimit := b.cfg.EffectiveRaiseLimit()
	canSize := stacks[opponent] > 0 && stacks[player] > facing
	canSize = canSize && (facing == 0 || raiseCount < raiseLimit)
	if canSize {
		fractions := b.cfg.BetSizes
		if facing > 0 {
			fractions = b.cfg.RaiseSizes
		}

		seen := make(map[float64]bool)
		sawAllIn := false
		actionType := ActionBet
		if facing > 0 {
			actionType = ActionRaise
		}

		for _, s := range fractions {
			var amount float64
			if facing == 0 {
				amount = potNow * s
			} else {
				amount = facing + (potNow+facing)*s
			}
			if amount > stacks[player] {
				amount = stacks[player]
			}
			if amount <= facing || seen[amount] {
				continue
			}
			seen[amount] = true
			if amount == stacks[player] {
				sawAllIn = true
			}
			appendChild(actionType, amount)
		}

		if !sawAllIn && stacks[player] > facing {
			appendChild(actionType, stacks[player])
		}
	}

	node := b.arena.Node(idx)
	node.ChildrenStart = int32(start)
	node.ChildrenCount = int32(b.arena.Len() - start)
	b.arena.SetNode(idx, node)

	for _, p := range pending {
		b.expand(p.idx, p.player, p.bets, p.stacks, p.depth, p.raiseCount, p.hist)
	}
}

// resolve computes the node type/acting-player/pot produced by an action,
// along with the bets/stacks/raise-count state that carries forward if the
// result is itself an action node. Per the child-construction table:
// fold -> terminal (winner=opponent); check by player 0 -> action node for
// the opponent with raise_count reset; check by player 1 -> showdown; call
// -> showdown; bet/raise -> action node for the opponent with updated
// bets/stacks and raise_count+1.
func (b *builder) resolve(action ActionType, amount float64, player, opponent int, bets, stacks [2]float64, potNow float64, raiseCount int) (
	resultType NodeType, resultPlayer int, resultPot float64, newBets, newStacks [2]float64, newRaiseCount int) {

	switch action {
	case ActionFold:
		return NodeTerminal, opponent, potNow, bets, stacks, raiseCount

	case ActionCheck:
		if player == 0 {
			return NodeAction, opponent, potNow, bets, stacks, 0
		}
		return NodeShowdown, PlayerNone, potNow, bets, stacks, raiseCount

	case ActionCall:
		return NodeShowdown, PlayerNone, potNow + amount, bets, stacks, raiseCount

	case ActionBet, ActionRaise:
		nb := bets
		ns := stacks
		nb[player] += amount
		ns[player] -= amount
		return NodeAction, opponent, potNow + amount, nb, ns, raiseCount + 1

	default:
		return NodeTerminal, opponent, potNow, bets, stacks, raiseCount
	}
}
