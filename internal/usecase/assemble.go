package usecase

import (
	"fmt"
	"time"

	"github.com/wicketlabs/scorebook/internal/domain/match"
)

// buildMatchRecord flattens a document header into one match row. Required
// references go through the resolver and fail the document when they cannot
// be satisfied; optional ones degrade to nil.
func buildMatchRecord(matchID string, info MatchInfo, res *Resolver) (match.Match, error) {
	if len(info.Teams) != 2 {
		return match.Match{}, fmt.Errorf("%w: expected 2 teams, got %d", ErrMalformedDocument, len(info.Teams))
	}
	if len(info.Dates) == 0 {
		return match.Match{}, fmt.Errorf("%w: at least one date is required", ErrMalformedDocument)
	}
	if info.TossWinner == "" || info.TossDecision == "" {
		return match.Match{}, fmt.Errorf("%w: toss winner and decision are required", ErrMalformedDocument)
	}

	team1ID, err := res.ResolveTeam(info.Teams[0])
	if err != nil {
		return match.Match{}, fmt.Errorf("resolve team %q: %w", info.Teams[0], err)
	}
	team2ID, err := res.ResolveTeam(info.Teams[1])
	if err != nil {
		return match.Match{}, fmt.Errorf("resolve team %q: %w", info.Teams[1], err)
	}

	tossWinnerID, ok := res.LookupTeam(info.TossWinner)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: toss winner %q is not a known team", ErrUnresolvedReference, info.TossWinner)
	}

	var winnerID *int64
	if info.Winner != nil {
		if id, found := res.LookupTeam(*info.Winner); found {
			winnerID = &id
		}
	}

	matchDate, err := time.Parse(time.DateOnly, info.Dates[0])
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: invalid match date %q", ErrMalformedDocument, info.Dates[0])
	}

	var playerOfMatchID *string
	if len(info.PlayerOfMatch) > 0 && info.PlayerOfMatch[0] != "" {
		if id, found := res.LookupPlayerByName(info.PlayerOfMatch[0]); found {
			playerOfMatchID = &id
		}
	}

	var outcomeResult *string
	var outcomeMargin *int64
	if len(info.Outcome) > 0 {
		result := info.Outcome[0].Result
		margin := info.Outcome[0].Margin
		outcomeResult = &result
		outcomeMargin = &margin
	}

	return match.Match{
		ID:              matchID,
		Season:          info.Season,
		Venue:           info.Venue,
		City:            info.City,
		Date:            matchDate,
		MatchType:       info.MatchType,
		BallsPerOver:    info.BallsPerOver,
		Team1ID:         team1ID,
		Team2ID:         team2ID,
		TossWinnerID:    tossWinnerID,
		TossDecision:    info.TossDecision,
		WinnerID:        winnerID,
		OutcomeResult:   outcomeResult,
		OutcomeMargin:   outcomeMargin,
		PlayerOfMatchID: playerOfMatchID,
		Officials:       info.Officials,
	}, nil
}
