package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/match"
)

func TestMatchToInsertModel_NullableColumns(t *testing.T) {
	t.Parallel()

	date := time.Date(2008, 4, 18, 0, 0, 0, 0, time.UTC)

	t.Run("sparse match keeps nulls", func(t *testing.T) {
		model := matchToInsertModel(match.Match{
			ID:           "335982",
			Date:         date,
			Team1ID:      1,
			Team2ID:      2,
			TossWinnerID: 1,
			TossDecision: "field",
		})

		if model.Season != nil || model.Venue != nil || model.City != nil || model.MatchType != nil {
			t.Fatalf("expected nil optional columns, got %+v", model)
		}
		if model.WinnerID != nil || model.OutcomeResult != nil || model.OutcomeMargin != nil {
			t.Fatalf("expected nil outcome columns, got %+v", model)
		}
		if model.PlayerOfMatchID != nil || model.Officials != nil {
			t.Fatalf("expected nil award columns, got %+v", model)
		}
	})

	t.Run("officials carried as text", func(t *testing.T) {
		model := matchToInsertModel(match.Match{
			ID:           "335982",
			Date:         date,
			Team1ID:      1,
			Team2ID:      2,
			TossWinnerID: 1,
			TossDecision: "field",
			Officials:    []byte(`{"umpires":["Asad Rauf"]}`),
		})

		if model.Officials == nil || !strings.Contains(*model.Officials, "Asad Rauf") {
			t.Fatalf("officials mismatch: got=%v", model.Officials)
		}
	})
}

func TestDeliveryToInsertModel_Fielders(t *testing.T) {
	t.Parallel()

	kind := "caught"
	outID := "ba607b88"

	model := deliveryToInsertModel(delivery.Delivery{
		ID:             7,
		InningID:       1,
		Over:           0.2,
		BatterID:       "ba607b88",
		BowlerID:       "p-kumar",
		NonStrikerID:   "f0c4ec39",
		IsWicket:       true,
		PlayerOutID:    &outID,
		WicketKind:     &kind,
		WicketFielders: []string{"JH Kallis"},
	})

	if len(model.WicketFielders) != 1 || model.WicketFielders[0] != "JH Kallis" {
		t.Fatalf("fielders mismatch: got=%v", model.WicketFielders)
	}

	noFielders := deliveryToInsertModel(delivery.Delivery{ID: 8, InningID: 1, Over: 0.3})
	if noFielders.WicketFielders != nil {
		t.Fatalf("expected nil fielders array, got=%v", noFielders.WicketFielders)
	}
}

func TestDeliveryInsertQuery(t *testing.T) {
	t.Parallel()

	rows := []delivery.Delivery{
		{ID: 1, InningID: 1, Over: 1.1, BatterID: "ST Jayasuriya", BowlerID: "M Muralitharan", NonStrikerID: "SR Tendulkar", RunsBatter: 4, RunsTotal: 4},
		{ID: 2, InningID: 1, Over: 1.2, BatterID: "ST Jayasuriya", BowlerID: "M Muralitharan", NonStrikerID: "SR Tendulkar"},
	}

	query, args, err := deliveryInsertQuery(rows)
	if err != nil {
		t.Fatalf("build insert deliveries query: %v", err)
	}

	wantPrefix := "INSERT INTO deliveries (id, inning_id, over, batter_id, bowler_id, non_striker_id, " +
		"runs_batter, runs_extras, runs_total, extras_type, is_wicket, player_out_id, wicket_kind, wicket_fielders) VALUES "
	if !strings.HasPrefix(query, wantPrefix) {
		t.Fatalf("unexpected insert columns:\nwant prefix: %s\ngot:         %s", wantPrefix, query)
	}
	if len(args) != 28 {
		t.Fatalf("expected 14 args per row, got %d", len(args))
	}
	if args[2] != 1.1 {
		t.Fatalf("expected the over value as the third arg, got %v", args[2])
	}
}

func TestChunkDeliveries(t *testing.T) {
	t.Parallel()

	rows := make([]delivery.Delivery, 7)
	for i := range rows {
		rows[i].ID = int64(i + 1)
	}

	chunks := chunkDeliveries(rows, 3)
	if len(chunks) != 3 {
		t.Fatalf("chunk count mismatch: got=%d want=3", len(chunks))
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("chunk sizes mismatch: got=%d,%d,%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[2][0].ID != 7 {
		t.Fatalf("last chunk mismatch: got id=%d want=7", chunks[2][0].ID)
	}

	if chunkDeliveries(nil, 3) != nil {
		t.Fatalf("expected no chunks for no rows")
	}
}

func TestNullableString(t *testing.T) {
	t.Parallel()

	if nullableString("") != nil {
		t.Fatalf("expected nil for empty string")
	}
	if got := nullableString("x"); got == nil || *got != "x" {
		t.Fatalf("expected pointer to x, got=%v", got)
	}
}
