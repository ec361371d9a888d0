package engine

import "github.com/sirupsen/logrus"

// scoreRound itemizes the round for each team. wentOut is TeamNone when the
// round closed on an exhausted stock; then every team pays for its own
// hands, otherwise only the opponents of the team that went out do.
//
// Cards left in the hand of a going-out player's partner are deliberately
// not charged: going out closes the round for the whole team.
func (g *GameState) scoreRound(wentOut Team) RoundResult {
	res := RoundResult{Round: g.Round, WentOut: wentOut}
	for ti := range res.Breakdown {
		team := Team(ti + 1)
		b := &res.Breakdown[ti]
		for _, s := range g.Sequences[ti] {
			b.Melds += s.Points
		}
		if team == wentOut {
			b.BaterBonus = g.Rules.BaterBonus
		}
		if !g.TeamTookMorto(team) {
			b.MortoPenalty = -g.Rules.NoMortoPenalty
		}
		if team != wentOut {
			for _, p := range g.Players {
				if p.Team == team {
					b.HandPenalty -= handPoints(p.Hand)
				}
			}
		}
		b.Total = b.Melds + b.BaterBonus + b.MortoPenalty + b.HandPenalty
		res.Scores[ti] = b.Total
	}
	return res
}

// matchWinner returns the team that has won the match, if any. Equal scores
// at or past the target decide nothing; play continues.
func (g *GameState) matchWinner() Team {
	s1, s2 := g.MatchScores[0], g.MatchScores[1]
	if s1 < g.Rules.WinningScore && s2 < g.Rules.WinningScore {
		return TeamNone
	}
	switch {
	case s1 > s2:
		return TeamOne
	case s2 > s1:
		return TeamTwo
	default:
		return TeamNone
	}
}

// finishRound scores the round, records it and either ends the match or
// deals the next round.
func (e *Engine) finishRound(wentOut Team, aux *Auxiliary) {
	g := &e.state
	res := g.scoreRound(wentOut)
	for ti, s := range res.Scores {
		g.MatchScores[ti] += s
	}
	res.MatchScores = g.MatchScores
	g.RoundScores = res.Scores
	g.RoundHistory = append(g.RoundHistory, res)
	g.Phase = PhaseRoundFinished
	switch {
	case res.Scores[0] > res.Scores[1]:
		g.RoundWinner = TeamOne
	case res.Scores[1] > res.Scores[0]:
		g.RoundWinner = TeamTwo
	default:
		g.RoundWinner = TeamNone
	}
	aux.Round = &res
	aux.TurnEnded = true

	e.log.WithFields(logrus.Fields{
		"round":   res.Round,
		"wentOut": res.WentOut,
		"scores":  res.Scores,
		"match":   res.MatchScores,
	}).Info("round finished")

	if w := g.matchWinner(); w != TeamNone {
		g.Phase = PhaseMatchFinished
		g.MatchWinner = w
		e.log.WithField("winner", w).Info("match finished")
		return
	}
	if err := e.startRound(); err != nil {
		// Deal only fails on a bad roster, which New already rejected.
		e.log.WithError(err).Error("could not deal next round")
	}
}
