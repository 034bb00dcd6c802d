package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/scorebook"
	qb "github.com/wicketlabs/scorebook/internal/platform/querybuilder"
)

// deliveryInsertChunk bounds the parameter count of one multi-row insert.
// 500 rows at 14 columns stays well under the Postgres limit of 65535.
const deliveryInsertChunk = 500

type ScorebookRepository struct {
	db *sqlx.DB
}

func NewScorebookRepository(db *sqlx.DB) *ScorebookRepository {
	return &ScorebookRepository{db: db}
}

// Reset discards every previously loaded row. Each load run rebuilds the
// store from scratch.
func (r *ScorebookRepository) Reset(ctx context.Context) error {
	const query = "TRUNCATE TABLE deliveries, innings, matches, players, teams RESTART IDENTITY CASCADE"

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate scorebook tables: %w", err)
	}

	return nil
}

// CommitMatch writes one document's rows in a single transaction. Either
// the whole document lands or none of it does.
func (r *ScorebookRepository) CommitMatch(ctx context.Context, rows scorebook.MatchRows) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx commit match %s: %w", rows.Match.ID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows.Teams {
		query, args, err := qb.InsertModel("teams", teamToInsertModel(row), "")
		if err != nil {
			return fmt.Errorf("build insert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert team %q: %w", row.Name, err)
		}
	}

	for _, row := range rows.Players {
		query, args, err := qb.InsertModel("players", playerToInsertModel(row), "")
		if err != nil {
			return fmt.Errorf("build insert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player %s: %w", row.ID, err)
		}
	}

	query, args, err := qb.InsertModel("matches", matchToInsertModel(rows.Match), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match %s: %w", rows.Match.ID, err)
	}

	for _, row := range rows.Innings {
		query, args, err := qb.InsertModel("innings", inningToInsertModel(row), "")
		if err != nil {
			return fmt.Errorf("build insert inning query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert inning %d of match %s: %w", row.Number, row.MatchID, err)
		}
	}

	for _, chunk := range chunkDeliveries(rows.Deliveries, deliveryInsertChunk) {
		if err := insertDeliveryChunk(ctx, tx, chunk); err != nil {
			return fmt.Errorf("insert deliveries of match %s: %w", rows.Match.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match %s tx: %w", rows.Match.ID, err)
	}

	return nil
}

// Counts reports the per-table row totals of the store.
func (r *ScorebookRepository) Counts(ctx context.Context) (scorebook.Counts, error) {
	var counts scorebook.Counts

	targets := []struct {
		table string
		dest  *int64
	}{
		{"teams", &counts.Teams},
		{"players", &counts.Players},
		{"matches", &counts.Matches},
		{"innings", &counts.Innings},
		{"deliveries", &counts.Deliveries},
	}

	for _, target := range targets {
		query, args, err := qb.Select("COUNT(*)").From(target.table).ToSQL()
		if err != nil {
			return scorebook.Counts{}, fmt.Errorf("build count %s query: %w", target.table, err)
		}
		if err := r.db.GetContext(ctx, target.dest, query, args...); err != nil {
			return scorebook.Counts{}, fmt.Errorf("count %s: %w", target.table, err)
		}
	}

	return counts, nil
}

// deliveryInsertQuery builds one multi-row insert. The column names follow
// the migrated schema; over is a keyword but non-reserved, so it needs no
// quoting here.
func deliveryInsertQuery(chunk []delivery.Delivery) (string, []any, error) {
	builder := qb.InsertInto("deliveries").Columns(
		"id", "inning_id", "over",
		"batter_id", "bowler_id", "non_striker_id",
		"runs_batter", "runs_extras", "runs_total",
		"extras_type", "is_wicket", "player_out_id", "wicket_kind", "wicket_fielders",
	)

	for _, row := range chunk {
		model := deliveryToInsertModel(row)
		builder.Values(
			model.ID, model.InningID, model.Over,
			model.BatterID, model.BowlerID, model.NonStrikerID,
			model.RunsBatter, model.RunsExtras, model.RunsTotal,
			model.ExtrasType, model.IsWicket, model.PlayerOutID, model.WicketKind, model.WicketFielders,
		)
	}

	return builder.ToSQL()
}

func insertDeliveryChunk(ctx context.Context, tx *sqlx.Tx, chunk []delivery.Delivery) error {
	query, args, err := deliveryInsertQuery(chunk)
	if err != nil {
		return fmt.Errorf("build insert deliveries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func chunkDeliveries(rows []delivery.Delivery, size int) [][]delivery.Delivery {
	if len(rows) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(rows)
	}

	chunks := make([][]delivery.Delivery, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}

	return chunks
}
