package memory

import (
	"context"
	"testing"
	"time"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/inning"
	"github.com/wicketlabs/scorebook/internal/domain/match"
	"github.com/wicketlabs/scorebook/internal/domain/player"
	"github.com/wicketlabs/scorebook/internal/domain/scorebook"
	"github.com/wicketlabs/scorebook/internal/domain/team"
)

func sampleRows() scorebook.MatchRows {
	return scorebook.MatchRows{
		Teams: []team.Team{
			{ID: 1, Name: "Royal Challengers Bangalore"},
			{ID: 2, Name: "Kolkata Knight Riders"},
		},
		Players: []player.Player{
			{ID: "ba607b88", Name: "BB McCullum"},
			{ID: "f0c4ec39", Name: "SC Ganguly"},
		},
		Match: match.Match{
			ID:           "335982",
			Date:         time.Date(2008, 4, 18, 0, 0, 0, 0, time.UTC),
			Team1ID:      1,
			Team2ID:      2,
			TossWinnerID: 1,
			TossDecision: "field",
		},
		Innings: []inning.Inning{
			{ID: 1, MatchID: "335982", Number: 1, BattingTeamID: 2},
		},
		Deliveries: []delivery.Delivery{
			{ID: 1, InningID: 1, Over: 0.1, BatterID: "f0c4ec39", BowlerID: "ba607b88", NonStrikerID: "ba607b88", RunsTotal: 1, RunsExtras: 1},
		},
	}
}

func TestScorebookRepository_CommitAndCounts(t *testing.T) {
	t.Parallel()

	repo := NewScorebookRepository()
	ctx := context.Background()

	if err := repo.CommitMatch(ctx, sampleRows()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := scorebook.Counts{Teams: 2, Players: 2, Matches: 1, Innings: 1, Deliveries: 1}
	if counts != want {
		t.Fatalf("counts mismatch: got=%+v want=%+v", counts, want)
	}

	if ids := repo.MatchIDs(); len(ids) != 1 || ids[0] != "335982" {
		t.Fatalf("match ids mismatch: got=%v", ids)
	}
	if _, ok := repo.TeamByName("Kolkata Knight Riders"); !ok {
		t.Fatalf("expected team to be stored")
	}
	if innings := repo.InningsByMatch("335982"); len(innings) != 1 || innings[0].Number != 1 {
		t.Fatalf("innings mismatch: got=%v", innings)
	}
	if deliveries := repo.DeliveriesByInning(1); len(deliveries) != 1 || deliveries[0].Over != 0.1 {
		t.Fatalf("deliveries mismatch: got=%v", deliveries)
	}
}

func TestScorebookRepository_LaterDocumentReusesEarlierRows(t *testing.T) {
	t.Parallel()

	repo := NewScorebookRepository()
	ctx := context.Background()

	if err := repo.CommitMatch(ctx, sampleRows()); err != nil {
		t.Fatalf("commit first: %v", err)
	}

	// second document introduces no new teams or players, only references
	second := scorebook.MatchRows{
		Match: match.Match{
			ID:           "335983",
			Date:         time.Date(2008, 4, 19, 0, 0, 0, 0, time.UTC),
			Team1ID:      1,
			Team2ID:      2,
			TossWinnerID: 2,
			TossDecision: "bat",
		},
		Innings: []inning.Inning{
			{ID: 2, MatchID: "335983", Number: 1, BattingTeamID: 1},
		},
	}
	if err := repo.CommitMatch(ctx, second); err != nil {
		t.Fatalf("commit second: %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Matches != 2 || counts.Teams != 2 {
		t.Fatalf("counts mismatch: got=%+v", counts)
	}
}

func TestScorebookRepository_RejectsDanglingReferences(t *testing.T) {
	t.Parallel()

	repo := NewScorebookRepository()
	ctx := context.Background()

	rows := sampleRows()
	rows.Deliveries[0].BowlerID = "nobody"

	if err := repo.CommitMatch(ctx, rows); err == nil {
		t.Fatalf("expected a dangling player reference to fail the commit")
	}

	// failed commit must leave nothing behind
	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts != (scorebook.Counts{}) {
		t.Fatalf("expected empty store after failed commit, got=%+v", counts)
	}
}

func TestScorebookRepository_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	repo := NewScorebookRepository()
	ctx := context.Background()

	if err := repo.CommitMatch(ctx, sampleRows()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	t.Run("duplicate match id", func(t *testing.T) {
		rows := sampleRows()
		rows.Teams = nil
		rows.Players = nil
		rows.Innings = nil
		rows.Deliveries = nil
		if err := repo.CommitMatch(ctx, rows); err == nil {
			t.Fatalf("expected duplicate match commit to fail")
		}
	})

	t.Run("duplicate team name", func(t *testing.T) {
		rows := scorebook.MatchRows{
			Teams: []team.Team{{ID: 9, Name: "Kolkata Knight Riders"}},
			Match: match.Match{
				ID:           "999",
				Date:         time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC),
				Team1ID:      9,
				Team2ID:      1,
				TossWinnerID: 9,
				TossDecision: "bat",
			},
		}
		if err := repo.CommitMatch(ctx, rows); err == nil {
			t.Fatalf("expected duplicate team name commit to fail")
		}
	})
}

func TestScorebookRepository_ResetClears(t *testing.T) {
	t.Parallel()

	repo := NewScorebookRepository()
	ctx := context.Background()

	if err := repo.CommitMatch(ctx, sampleRows()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts != (scorebook.Counts{}) {
		t.Fatalf("expected empty store after reset, got=%+v", counts)
	}
	if repo.ResetCalls() != 1 {
		t.Fatalf("reset calls mismatch: got=%d want=1", repo.ResetCalls())
	}
}
