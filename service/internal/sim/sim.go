// Package sim plays whole matches between bots.
package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
	"github.com/jason-s-yu/buraco/service/internal/bot"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Settings describes a batch of simulated matches. Match i uses Seed+i.
type Settings struct {
	Players  int
	Matches  int
	MaxTurns int
	Seed     uint64
	Rules    engine.Rules
	Factory  bot.PlayerFactory // nil means bot.NewGreedyBot
	Parallel int               // zero means GOMAXPROCS
}

// MatchResult summarizes one simulated match.
type MatchResult struct {
	Seed     uint64
	GameID   uuid.UUID
	Finished bool // false when MaxTurns ran out first
	Winner   engine.Team
	Scores   [2]int
	Rounds   int
	Turns    int
}

// Summary aggregates a batch.
type Summary struct {
	Results    []MatchResult
	Wins       [2]int
	Unfinished int
}

// Run plays s.Matches matches and returns their results in match order.
func Run(ctx context.Context, s Settings, log logrus.FieldLogger) (Summary, error) {
	if s.Factory == nil {
		s.Factory = bot.NewGreedyBot
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	results := make([]MatchResult, s.Matches)

	g, ctx := errgroup.WithContext(ctx)
	limit := s.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i := 0; i < s.Matches; i++ {
		g.Go(func() error {
			res, err := playMatch(ctx, s, s.Seed+uint64(i), log)
			if err != nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Results: results}
	for _, r := range results {
		switch {
		case !r.Finished:
			sum.Unfinished++
		case r.Winner != engine.TeamNone:
			sum.Wins[r.Winner-1]++
		}
	}
	return sum, nil
}

func playMatch(ctx context.Context, s Settings, seed uint64, log logrus.FieldLogger) (MatchResult, error) {
	players := make([]engine.Player, s.Players)
	bots := make(map[string]bot.Player, s.Players)
	for i := range players {
		b := s.Factory(seed*uint64(s.Players) + uint64(i))
		players[i] = engine.Player{ID: fmt.Sprintf("bot%d", i+1), Name: b.Name(), Connected: true}
		bots[players[i].ID] = b
	}
	e, err := engine.New(players,
		engine.WithSeed(seed),
		engine.WithRules(s.Rules),
		engine.WithLogger(log),
	)
	if err != nil {
		return MatchResult{}, err
	}

	mlog := log.WithFields(logrus.Fields{"game": e.State().ID, "seed": seed})
	res := MatchResult{Seed: seed, GameID: e.State().ID}
	for ; res.Turns < s.MaxTurns; res.Turns++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		st := e.State()
		if st.Phase == engine.PhaseMatchFinished {
			break
		}
		self := st.CurrentPlayer().ID
		out, err := bot.PlayTurn(st, self, bots[self], e.ProcessAction, 500)
		if err != nil {
			return res, err
		}
		if out.Aux != nil && out.Aux.Round != nil {
			mlog.WithFields(logrus.Fields{
				"round":   out.Aux.Round.Round,
				"wentOut": out.Aux.Round.WentOut,
				"scores":  out.Aux.Round.Scores,
				"match":   out.Aux.Round.MatchScores,
			}).Debug("round finished")
		}
	}

	st := e.State()
	res.Finished = st.Phase == engine.PhaseMatchFinished
	res.Winner = st.MatchWinner
	res.Scores = st.MatchScores
	res.Rounds = len(st.RoundHistory)
	mlog.WithFields(logrus.Fields{
		"finished": res.Finished,
		"winner":   res.Winner,
		"scores":   res.Scores,
		"rounds":   res.Rounds,
		"turns":    res.Turns,
	}).Info("match finished")
	return res, nil
}
