package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/sdk"
	"github.com/lox/riversolver/sdk/solver"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Solve SolveCmd `cmd:"" help:"build a river subgame and run DCFR training on it"`
}

// SolveCmd is a thin manual-testing entrypoint: build a session from flags,
// train it, and print the root strategy. It is demonstration tooling
// around the core, not part of the core's tested contract.
type SolveCmd struct {
	Board      string  `help:"five board cards, e.g. \"Kh Qd Jc 2s 3h\"" required:""`
	Range0     string  `help:"comma-separated hands for player 0, e.g. \"AsKs,QhQd\"" required:""`
	Range1     string  `help:"comma-separated hands for player 1, e.g. \"KdTc,9h8h\"" required:""`
	Pot        float64 `help:"initial pot" default:"100"`
	Stack      float64 `help:"starting stack for both players" default:"500"`
	RaiseLimit int     `help:"raise cap per line; the opening bet counts toward it" default:"3"`
	Iterations int     `help:"DCFR iterations to run" default:"1000"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solve"),
		kong.Description("river subgame DCFR solver"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	switch ctx.Command() {
	case "solve":
		if err := cli.Solve.Run(); err != nil {
			log.Fatal().Err(err).Msg("solve failed")
		}
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *SolveCmd) Run() error {
	board, err := deck.ParseN(cmd.Board)
	if err != nil {
		return fmt.Errorf("parsing board: %w", err)
	}

	range0, err := parseRange(cmd.Range0)
	if err != nil {
		return fmt.Errorf("parsing range0: %w", err)
	}
	range1, err := parseRange(cmd.Range1)
	if err != nil {
		return fmt.Errorf("parsing range1: %w", err)
	}

	cfg := solver.GameConfig{
		InitialPot:    cmd.Pot,
		Stacks:        [2]float64{cmd.Stack, cmd.Stack},
		BetSizes:      []float64{0.5, 1.0},
		RaiseSizes:    []float64{1.0},
		RaiseLimit:    cmd.RaiseLimit,
		RaiseLimitSet: true,
	}

	session, err := sdk.NewSession(cfg, board, range0, range1)
	if err != nil {
		return fmt.Errorf("building session: %w", err)
	}

	log.Info().Int("iterations", cmd.Iterations).Msg("training")

	const progressEvery = 100
	remaining := cmd.Iterations
	for remaining > 0 {
		batch := progressEvery
		if batch > remaining {
			batch = remaining
		}
		session.Step(batch)
		remaining -= batch

		stats := session.Stats()
		log.Debug().
			Int64("iteration", stats.Iterations).
			Int("nodes", stats.NumNodes).
			Int("infosets", stats.NumInfosets).
			Msg("progress")
	}

	root, err := session.StrategyForHistory(nil)
	if err != nil {
		return fmt.Errorf("reading root node: %w", err)
	}

	log.Info().Msg("root strategy by hand")
	for _, hand := range range0 {
		strat, err := session.StrategyForHandAtNode(hand, root.NodeIdx)
		if err != nil {
			return fmt.Errorf("strategy for %s: %w", hand, err)
		}
		parts := make([]string, len(strat.Actions))
		for i, a := range strat.Actions {
			parts[i] = fmt.Sprintf("%s=%.3f", describeAction(a), strat.Probabilities[i])
		}
		log.Info().Str("hand", hand.String()).Msg(strings.Join(parts, " "))
	}

	return nil
}

func describeAction(a sdk.ActionDescriptor) string {
	if a.Type == solver.ActionBet || a.Type == solver.ActionRaise {
		return fmt.Sprintf("%s(%.0f)", a.Type, a.Amount)
	}
	return a.Type.String()
}

func parseRange(s string) ([]deck.Hand, error) {
	fields := strings.Split(s, ",")
	hands := make([]deck.Hand, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		h, err := deck.ParseHand(f)
		if err != nil {
			return nil, err
		}
		hands = append(hands, h)
	}
	if len(hands) == 0 {
		return nil, fmt.Errorf("empty range")
	}
	return hands, nil
}
