package usecase

import (
	"fmt"

	"github.com/wicketlabs/scorebook/internal/domain/player"
	"github.com/wicketlabs/scorebook/internal/domain/team"
)

// Resolver owns the identity caches for one run: team name to sequential id,
// and player key to stable id, where the key is the source registry id when
// one exists and the display name otherwise. It never evicts and is not safe
// for concurrent use; the resolve stage runs single-threaded.
//
// Allocation order is observable: entities keep the order they were first
// seen in, so the loader can slice off exactly the rows a document
// introduced.
type Resolver struct {
	teamIDs    map[string]int64
	teams      []team.Team
	playerIDs  map[string]string
	playerName map[string]string
	players    []player.Player
}

func NewResolver() *Resolver {
	return &Resolver{
		teamIDs:    make(map[string]int64, 16),
		playerIDs:  make(map[string]string, 512),
		playerName: make(map[string]string, 512),
	}
}

// ResolveTeam returns the id already assigned to name, or allocates the next
// sequential id starting at 1. Idempotent within a run.
func (r *Resolver) ResolveTeam(name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if id, ok := r.teamIDs[name]; ok {
		return id, nil
	}

	id := int64(len(r.teams) + 1)
	r.teamIDs[name] = id
	r.teams = append(r.teams, team.Team{ID: id, Name: name})
	return id, nil
}

// LookupTeam probes without allocating.
func (r *Resolver) LookupTeam(name string) (int64, bool) {
	id, ok := r.teamIDs[name]
	return id, ok
}

// ResolvePlayer returns the id for a player reference, allocating on first
// sight. A later sighting of the same key returns the cached id and leaves
// the recorded display name alone, so the first name seen for an identifier
// is the one the name index answers for.
func (r *Resolver) ResolvePlayer(externalID, name string) (string, error) {
	if externalID == "" && name == "" {
		return "", fmt.Errorf("%w: player reference needs an id or a name", ErrInvalidInput)
	}

	key := externalID
	if key == "" {
		key = name
	}
	if id, ok := r.playerIDs[key]; ok {
		return id, nil
	}

	id := externalID
	if id == "" {
		id = name
	}
	display := name
	if display == "" {
		display = id
	}

	r.playerIDs[key] = id
	r.players = append(r.players, player.Player{ID: id, Name: display})
	if _, ok := r.playerName[display]; !ok {
		r.playerName[display] = id
	}
	return id, nil
}

// LookupPlayerByName answers with the id of the first player recorded under
// that display name. Later name variants of an already-known identifier are
// not indexed, matching first-seen-name resolution.
func (r *Resolver) LookupPlayerByName(name string) (string, bool) {
	id, ok := r.playerName[name]
	return id, ok
}

// SeedPeople applies a document's registry before that document is
// assembled, so in-document references resolve without first-seen
// special cases.
func (r *Resolver) SeedPeople(entries []PersonEntry) error {
	for _, entry := range entries {
		if entry.Name == "" || entry.ID == "" {
			return fmt.Errorf("%w: registry entry needs both a name and an id", ErrInvalidInput)
		}
		if _, err := r.ResolvePlayer(entry.ID, entry.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) TeamCount() int { return len(r.teams) }

func (r *Resolver) PlayerCount() int { return len(r.players) }

// TeamsSince returns the teams allocated after the first n, in allocation
// order. Callers must not mutate the result.
func (r *Resolver) TeamsSince(n int) []team.Team {
	if n < 0 || n > len(r.teams) {
		return nil
	}
	return r.teams[n:]
}

// PlayersSince returns the players allocated after the first n, in
// allocation order. Callers must not mutate the result.
func (r *Resolver) PlayersSince(n int) []player.Player {
	if n < 0 || n > len(r.players) {
		return nil
	}
	return r.players[n:]
}
