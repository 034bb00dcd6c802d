package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/inning"
	"github.com/wicketlabs/scorebook/internal/domain/match"
	"github.com/wicketlabs/scorebook/internal/domain/player"
	"github.com/wicketlabs/scorebook/internal/domain/team"
)

type teamInsertModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type playerInsertModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type matchInsertModel struct {
	ID              string    `db:"id"`
	Season          *string   `db:"season"`
	Venue           *string   `db:"venue"`
	City            *string   `db:"city"`
	MatchDate       time.Time `db:"match_date"`
	MatchType       *string   `db:"match_type"`
	BallsPerOver    *int64    `db:"balls_per_over"`
	Team1ID         int64     `db:"team1_id"`
	Team2ID         int64     `db:"team2_id"`
	TossWinnerID    int64     `db:"toss_winner_id"`
	TossDecision    string    `db:"toss_decision"`
	WinnerID        *int64    `db:"winner_id"`
	OutcomeResult   *string   `db:"outcome_result"`
	OutcomeMargin   *int64    `db:"outcome_margin"`
	PlayerOfMatchID *string   `db:"player_of_match_id"`
	Officials       *string   `db:"officials"`
}

type inningInsertModel struct {
	ID            int64  `db:"id"`
	MatchID       string `db:"match_id"`
	InningNumber  int    `db:"inning_number"`
	BattingTeamID int64  `db:"batting_team_id"`
}

type deliveryInsertModel struct {
	ID             int64          `db:"id"`
	InningID       int64          `db:"inning_id"`
	Over           float64        `db:"over"`
	BatterID       string         `db:"batter_id"`
	BowlerID       string         `db:"bowler_id"`
	NonStrikerID   string         `db:"non_striker_id"`
	RunsBatter     int64          `db:"runs_batter"`
	RunsExtras     int64          `db:"runs_extras"`
	RunsTotal      int64          `db:"runs_total"`
	ExtrasType     *string        `db:"extras_type"`
	IsWicket       bool           `db:"is_wicket"`
	PlayerOutID    *string        `db:"player_out_id"`
	WicketKind     *string        `db:"wicket_kind"`
	WicketFielders pq.StringArray `db:"wicket_fielders"`
}

func teamToInsertModel(row team.Team) teamInsertModel {
	return teamInsertModel{ID: row.ID, Name: row.Name}
}

func playerToInsertModel(row player.Player) playerInsertModel {
	return playerInsertModel{ID: row.ID, Name: row.Name}
}

func matchToInsertModel(row match.Match) matchInsertModel {
	// officials travel as text; pq would send []byte as bytea, which jsonb
	// columns reject
	var officials *string
	if len(row.Officials) > 0 {
		officials = nullableString(string(row.Officials))
	}

	return matchInsertModel{
		ID:              row.ID,
		Season:          row.Season,
		Venue:           row.Venue,
		City:            row.City,
		MatchDate:       row.Date,
		MatchType:       row.MatchType,
		BallsPerOver:    row.BallsPerOver,
		Team1ID:         row.Team1ID,
		Team2ID:         row.Team2ID,
		TossWinnerID:    row.TossWinnerID,
		TossDecision:    row.TossDecision,
		WinnerID:        row.WinnerID,
		OutcomeResult:   row.OutcomeResult,
		OutcomeMargin:   row.OutcomeMargin,
		PlayerOfMatchID: row.PlayerOfMatchID,
		Officials:       officials,
	}
}

func inningToInsertModel(row inning.Inning) inningInsertModel {
	return inningInsertModel{
		ID:            row.ID,
		MatchID:       row.MatchID,
		InningNumber:  row.Number,
		BattingTeamID: row.BattingTeamID,
	}
}

func deliveryToInsertModel(row delivery.Delivery) deliveryInsertModel {
	var fielders pq.StringArray
	if len(row.WicketFielders) > 0 {
		fielders = pq.StringArray(row.WicketFielders)
	}

	return deliveryInsertModel{
		ID:             row.ID,
		InningID:       row.InningID,
		Over:           row.Over,
		BatterID:       row.BatterID,
		BowlerID:       row.BowlerID,
		NonStrikerID:   row.NonStrikerID,
		RunsBatter:     row.RunsBatter,
		RunsExtras:     row.RunsExtras,
		RunsTotal:      row.RunsTotal,
		ExtrasType:     row.ExtrasType,
		IsWicket:       row.IsWicket,
		PlayerOutID:    row.PlayerOutID,
		WicketKind:     row.WicketKind,
		WicketFielders: fielders,
	}
}
