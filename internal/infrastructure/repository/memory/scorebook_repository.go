package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/inning"
	"github.com/wicketlabs/scorebook/internal/domain/match"
	"github.com/wicketlabs/scorebook/internal/domain/player"
	"github.com/wicketlabs/scorebook/internal/domain/scorebook"
	"github.com/wicketlabs/scorebook/internal/domain/team"
)

// ScorebookRepository is an in-memory scorebook store for tests and local
// runs. It enforces the same uniqueness and reference rules the SQL schema
// does, and commits are all-or-nothing.
type ScorebookRepository struct {
	mu          sync.RWMutex
	teams       map[int64]team.Team
	teamIDs     map[string]int64
	players     map[string]player.Player
	matches     map[string]match.Match
	matchOrder  []string
	innings     map[int64]inning.Inning
	deliveries  map[int64]delivery.Delivery
	resetCalls  int
	commitCalls int
}

func NewScorebookRepository() *ScorebookRepository {
	r := &ScorebookRepository{}
	r.clear()

	return r
}

func (r *ScorebookRepository) clear() {
	r.teams = make(map[int64]team.Team)
	r.teamIDs = make(map[string]int64)
	r.players = make(map[string]player.Player)
	r.matches = make(map[string]match.Match)
	r.matchOrder = nil
	r.innings = make(map[int64]inning.Inning)
	r.deliveries = make(map[int64]delivery.Delivery)
}

func (r *ScorebookRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	r.resetCalls++

	return nil
}

func (r *ScorebookRepository) CommitMatch(_ context.Context, rows scorebook.MatchRows) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// validate the whole document before touching anything, so a failed
	// commit leaves the store untouched
	if err := r.checkRows(rows); err != nil {
		return err
	}

	for _, row := range rows.Teams {
		r.teams[row.ID] = row
		r.teamIDs[row.Name] = row.ID
	}
	for _, row := range rows.Players {
		r.players[row.ID] = row
	}
	r.matches[rows.Match.ID] = rows.Match
	r.matchOrder = append(r.matchOrder, rows.Match.ID)
	for _, row := range rows.Innings {
		r.innings[row.ID] = row
	}
	for _, row := range rows.Deliveries {
		r.deliveries[row.ID] = row
	}
	r.commitCalls++

	return nil
}

func (r *ScorebookRepository) checkRows(rows scorebook.MatchRows) error {
	if _, exists := r.matches[rows.Match.ID]; exists {
		return fmt.Errorf("match %s already stored", rows.Match.ID)
	}

	knownTeams := make(map[int64]struct{}, len(r.teams)+len(rows.Teams))
	for id := range r.teams {
		knownTeams[id] = struct{}{}
	}
	for _, row := range rows.Teams {
		if _, exists := r.teams[row.ID]; exists {
			return fmt.Errorf("team id %d already stored", row.ID)
		}
		if _, exists := r.teamIDs[row.Name]; exists {
			return fmt.Errorf("team name %q already stored", row.Name)
		}
		knownTeams[row.ID] = struct{}{}
	}

	knownPlayers := make(map[string]struct{}, len(r.players)+len(rows.Players))
	for id := range r.players {
		knownPlayers[id] = struct{}{}
	}
	for _, row := range rows.Players {
		if _, exists := r.players[row.ID]; exists {
			return fmt.Errorf("player %s already stored", row.ID)
		}
		knownPlayers[row.ID] = struct{}{}
	}

	if err := checkTeamRef(knownTeams, rows.Match.Team1ID); err != nil {
		return fmt.Errorf("match %s team1: %w", rows.Match.ID, err)
	}
	if err := checkTeamRef(knownTeams, rows.Match.Team2ID); err != nil {
		return fmt.Errorf("match %s team2: %w", rows.Match.ID, err)
	}
	if err := checkTeamRef(knownTeams, rows.Match.TossWinnerID); err != nil {
		return fmt.Errorf("match %s toss winner: %w", rows.Match.ID, err)
	}
	if rows.Match.WinnerID != nil {
		if err := checkTeamRef(knownTeams, *rows.Match.WinnerID); err != nil {
			return fmt.Errorf("match %s winner: %w", rows.Match.ID, err)
		}
	}
	if rows.Match.PlayerOfMatchID != nil {
		if err := checkPlayerRef(knownPlayers, *rows.Match.PlayerOfMatchID); err != nil {
			return fmt.Errorf("match %s player of match: %w", rows.Match.ID, err)
		}
	}

	knownInnings := make(map[int64]struct{}, len(rows.Innings))
	for _, row := range rows.Innings {
		if _, exists := r.innings[row.ID]; exists {
			return fmt.Errorf("inning id %d already stored", row.ID)
		}
		if row.MatchID != rows.Match.ID {
			return fmt.Errorf("inning %d belongs to match %s, not %s", row.ID, row.MatchID, rows.Match.ID)
		}
		if err := checkTeamRef(knownTeams, row.BattingTeamID); err != nil {
			return fmt.Errorf("inning %d batting team: %w", row.ID, err)
		}
		knownInnings[row.ID] = struct{}{}
	}

	for _, row := range rows.Deliveries {
		if _, exists := r.deliveries[row.ID]; exists {
			return fmt.Errorf("delivery id %d already stored", row.ID)
		}
		if _, ok := knownInnings[row.InningID]; !ok {
			return fmt.Errorf("delivery %d references unknown inning %d", row.ID, row.InningID)
		}
		for _, ref := range []string{row.BatterID, row.BowlerID, row.NonStrikerID} {
			if err := checkPlayerRef(knownPlayers, ref); err != nil {
				return fmt.Errorf("delivery %d: %w", row.ID, err)
			}
		}
		if row.PlayerOutID != nil {
			if err := checkPlayerRef(knownPlayers, *row.PlayerOutID); err != nil {
				return fmt.Errorf("delivery %d player out: %w", row.ID, err)
			}
		}
	}

	return nil
}

func (r *ScorebookRepository) Counts(_ context.Context) (scorebook.Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return scorebook.Counts{
		Teams:      int64(len(r.teams)),
		Players:    int64(len(r.players)),
		Matches:    int64(len(r.matches)),
		Innings:    int64(len(r.innings)),
		Deliveries: int64(len(r.deliveries)),
	}, nil
}

// MatchIDs returns the stored match ids in commit order.
func (r *ScorebookRepository) MatchIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.matchOrder...)
}

func (r *ScorebookRepository) MatchByID(id string) (match.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.matches[id]

	return row, ok
}

func (r *ScorebookRepository) TeamByName(name string) (team.Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.teamIDs[name]
	if !ok {
		return team.Team{}, false
	}

	return r.teams[id], true
}

func (r *ScorebookRepository) PlayerByID(id string) (player.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.players[id]

	return row, ok
}

// InningsByMatch returns a match's innings ordered by inning number.
func (r *ScorebookRepository) InningsByMatch(matchID string) []inning.Inning {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []inning.Inning
	for _, row := range r.innings {
		if row.MatchID == matchID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out
}

// DeliveriesByInning returns an inning's deliveries in over order.
func (r *ScorebookRepository) DeliveriesByInning(inningID int64) []delivery.Delivery {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []delivery.Delivery
	for _, row := range r.deliveries {
		if row.InningID == inningID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Over < out[j].Over })

	return out
}

// ResetCalls reports how many times Reset ran.
func (r *ScorebookRepository) ResetCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.resetCalls
}

// CommitCalls reports how many commits succeeded.
func (r *ScorebookRepository) CommitCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.commitCalls
}

func checkTeamRef(known map[int64]struct{}, id int64) error {
	if _, ok := known[id]; !ok {
		return fmt.Errorf("references unknown team %d", id)
	}

	return nil
}

func checkPlayerRef(known map[string]struct{}, id string) error {
	if _, ok := known[id]; !ok {
		return fmt.Errorf("references unknown player %s", id)
	}

	return nil
}
