// Package sdk is the façade external callers use: construct a Session from
// a game config, a board, and two ranges, then train it and query the
// resulting strategies. It owns the tree, the equity matrix, and the
// trainer's tensors for the lifetime of the session; nothing outside the
// session holds a reference to them.
package sdk

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/internal/equity"
	"github.com/lox/riversolver/internal/errs"
	"github.com/lox/riversolver/sdk/solver"
)

// Session holds a fully constructed river subgame: its arena, equity
// matrix, ranges, and trainer. Construction validates all inputs so later
// operations never need to re-check them.
type Session struct {
	arena   *solver.Arena
	root    int
	eq      *equity.Matrix
	range0  []deck.Hand
	range1  []deck.Hand
	board   [5]deck.Card
	trainer *solver.Trainer
}

// NewSession validates config/board/ranges and builds the tree, equity
// matrix, and trainer. Board length and empty ranges are reported as
// ShapeError; a config that fails GameConfig.Validate is reported as a
// ParseError wrapping the validation failure. Cards and hands arrive
// already typed, so card parsing errors arise before this call.
func NewSession(config solver.GameConfig, board []deck.Card, range0, range1 []deck.Hand) (*Session, error) {
	if len(board) != 5 {
		return nil, errs.NewShapeError(fmt.Sprintf("board must have exactly 5 cards, got %d", len(board)))
	}
	if len(range0) == 0 || len(range1) == 0 {
		return nil, errs.NewShapeError("ranges must be nonempty")
	}
	if err := config.Validate(); err != nil {
		return nil, errs.NewParseError("config", err)
	}

	var b5 [5]deck.Card
	copy(b5[:], board)

	eq, err := equity.Build(b5, range0, range1)
	if err != nil {
		return nil, err
	}

	arena, root, err := solver.Build(config)
	if err != nil {
		return nil, err
	}

	trainer := solver.NewTrainer(arena, root, eq, len(range0), len(range1))

	return &Session{
		arena:   arena,
		root:    root,
		eq:      eq,
		range0:  range0,
		range1:  range1,
		board:   b5,
		trainer: trainer,
	}, nil
}

// Step runs n DCFR iterations.
func (s *Session) Step(n int) {
	s.trainer.Step(n, nil)
}

// Stats reports {iterations, #nodes, #infosets}.
type Stats struct {
	Iterations  int64
	NumNodes    int
	NumInfosets int
}

func (s *Session) Stats() Stats {
	return Stats{
		Iterations:  s.trainer.Iteration(),
		NumNodes:    s.arena.Len(),
		NumInfosets: s.trainer.NumInfosets(),
	}
}

// ActionDescriptor describes one offered action: its type and, for
// bet/raise, the chip amount.
type ActionDescriptor struct {
	Type   solver.ActionType
	Amount float64
}

// ActionsAtRoot returns the ordered list of actions offered at the root.
func (s *Session) ActionsAtRoot() []ActionDescriptor {
	return s.actionsAt(s.root)
}

// ActionsAtNode returns the ordered list of actions offered at nodeIdx, or
// an empty slice if nodeIdx is terminal.
func (s *Session) ActionsAtNode(nodeIdx int) ([]ActionDescriptor, error) {
	if nodeIdx < 0 || nodeIdx >= s.arena.Len() {
		return nil, errs.NewShapeError(fmt.Sprintf("node index %d out of range", nodeIdx))
	}
	return s.actionsAt(nodeIdx), nil
}

func (s *Session) actionsAt(nodeIdx int) []ActionDescriptor {
	node := s.arena.Node(nodeIdx)
	if node.IsTerminal() {
		return nil
	}
	start, end := node.Children()
	out := make([]ActionDescriptor, 0, end-start)
	for i := start; i < end; i++ {
		child := s.arena.Node(i)
		out = append(out, ActionDescriptor{Type: child.Action, Amount: child.Amount})
	}
	return out
}

// NodeDescriptor is the shape returned by StrategyForHistory: enough to
// identify a node and, if it has a decision, query its strategy further.
type NodeDescriptor struct {
	NodeIdx     int
	IsTerminal  bool
	Player      uint8
	Pot         float64
	HasInfoset  bool
	InfosetID   uint32
	NumActions  int
	Actions     []ActionDescriptor
}

// StrategyForHistory descends the tree from the root following action,
// returning the node reached. Action strings are a lowercase action name
// optionally followed by a whitespace-separated decimal amount (e.g.
// "check", "bet 75", "raise 150"). For bet/raise with an amount supplied,
// the child whose amount minimizes |child.amount - given| is matched,
// provided it falls within a 15% tolerance window of the given amount; if
// no amount is supplied, the first matching type is used.
func (s *Session) StrategyForHistory(actions []string) (NodeDescriptor, error) {
	idx := s.root
	for _, raw := range actions {
		actionType, amount, hasAmount, err := parseActionString(raw)
		if err != nil {
			return NodeDescriptor{}, err
		}

		node := s.arena.Node(idx)
		if node.IsTerminal() {
			return NodeDescriptor{}, errs.NewLookupError(fmt.Sprintf("action %q not reachable: node is terminal", raw))
		}

		start, end := node.Children()
		best := -1
		bestDiff := 0.0
		for i := start; i < end; i++ {
			child := s.arena.Node(i)
			if child.Action != actionType {
				continue
			}
			if !hasAmount {
				best = i
				break
			}
			diff := math.Abs(child.Amount - amount)
			tolerance := amount * 0.15
			if diff > tolerance {
				continue
			}
			if best == -1 || diff < bestDiff {
				best = i
				bestDiff = diff
			}
		}
		if best == -1 {
			return NodeDescriptor{}, errs.NewLookupError(fmt.Sprintf("action %q not reachable at node %d", raw, idx))
		}
		idx = best
	}

	return s.describeNode(idx), nil
}

func (s *Session) describeNode(idx int) NodeDescriptor {
	node := s.arena.Node(idx)
	desc := NodeDescriptor{
		NodeIdx:    idx,
		IsTerminal: node.IsTerminal(),
		Player:     node.ActingPlayer,
		Pot:        node.Pot,
	}
	if !node.IsTerminal() {
		desc.HasInfoset = true
		desc.InfosetID = node.InfosetID
		actions := s.actionsAt(idx)
		desc.Actions = actions
		desc.NumActions = len(actions)
	}
	return desc
}

func parseActionString(raw string) (actionType solver.ActionType, amount float64, hasAmount bool, err error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, 0, false, errs.NewParseError(raw, fmt.Errorf("empty action string"))
	}

	switch fields[0] {
	case "fold":
		actionType = solver.ActionFold
	case "check":
		actionType = solver.ActionCheck
	case "call":
		actionType = solver.ActionCall
	case "bet":
		actionType = solver.ActionBet
	case "raise":
		actionType = solver.ActionRaise
	default:
		return 0, 0, false, errs.NewParseError(raw, fmt.Errorf("unknown action keyword %q", fields[0]))
	}

	if len(fields) > 1 {
		v, perr := strconv.ParseFloat(fields[1], 64)
		if perr != nil {
			return 0, 0, false, errs.NewParseError(raw, fmt.Errorf("invalid amount %q: %w", fields[1], perr))
		}
		amount = v
		hasAmount = true
	}

	return actionType, amount, hasAmount, nil
}

// StrategyAtHand is the output shape for StrategyForHandAtNode.
type StrategyAtHand struct {
	ActingPlayer  uint8
	Actions       []ActionDescriptor
	Probabilities []float64
}

// StrategyForHandAtNode returns the average mixed strategy for hand at
// nodeIdx. It rejects terminal nodes (StateError), out-of-range hands
// (LookupError), and out-of-range node indices (ShapeError).
func (s *Session) StrategyForHandAtNode(hand deck.Hand, nodeIdx int) (StrategyAtHand, error) {
	if nodeIdx < 0 || nodeIdx >= s.arena.Len() {
		return StrategyAtHand{}, errs.NewShapeError(fmt.Sprintf("node index %d out of range", nodeIdx))
	}
	node := s.arena.Node(nodeIdx)
	if node.IsTerminal() {
		return StrategyAtHand{}, errs.NewStateError("strategy query at a terminal node")
	}

	var hands []deck.Hand
	if node.ActingPlayer == 0 {
		hands = s.range0
	} else {
		hands = s.range1
	}

	handIdx := -1
	for i, h := range hands {
		if h == hand {
			handIdx = i
			break
		}
	}
	if handIdx == -1 {
		return StrategyAtHand{}, errs.NewLookupError(fmt.Sprintf("hand %s not found in acting player's range", hand))
	}

	actions := s.actionsAt(nodeIdx)
	probs := s.trainer.AverageStrategy(int(node.InfosetID), handIdx, len(actions))

	return StrategyAtHand{
		ActingPlayer:  node.ActingPlayer,
		Actions:       actions,
		Probabilities: probs,
	}, nil
}

// RawStrategyTensorRow returns the average-strategy row for (infosetID,
// handIdx) restricted to arity n: the strategy-sum row clamped to
// nonnegative and normalized, as Trainer.AverageStrategy computes it. The
// raw strategy-sum values are not returned, and the tensor itself is not
// exposed.
func (s *Session) RawStrategyTensorRow(infosetID uint32, handIdx, n int) []float64 {
	return s.trainer.AverageStrategy(int(infosetID), handIdx, n)
}
