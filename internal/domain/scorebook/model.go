package scorebook

import (
	"fmt"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/inning"
	"github.com/wicketlabs/scorebook/internal/domain/match"
	"github.com/wicketlabs/scorebook/internal/domain/player"
	"github.com/wicketlabs/scorebook/internal/domain/team"
)

// MatchRows is everything one scorecard document contributes to the store:
// the match itself, its innings and deliveries, and whichever teams and
// players that document introduced. Teams and players referenced by the
// rows but resolved by an earlier document are not repeated here.
type MatchRows struct {
	Teams      []team.Team
	Players    []player.Player
	Match      match.Match
	Innings    []inning.Inning
	Deliveries []delivery.Delivery
}

func (r MatchRows) Validate() error {
	for _, t := range r.Teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("team %q: %w", t.Name, err)
		}
	}
	for _, p := range r.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
	}
	if err := r.Match.Validate(); err != nil {
		return fmt.Errorf("match %q: %w", r.Match.ID, err)
	}
	for _, in := range r.Innings {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("inning %d: %w", in.Number, err)
		}
		if in.MatchID != r.Match.ID {
			return fmt.Errorf("inning %d belongs to match %q, not %q", in.Number, in.MatchID, r.Match.ID)
		}
	}
	for _, d := range r.Deliveries {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("delivery %.1f: %w", d.Over, err)
		}
	}

	return nil
}

// Counts reports store cardinality per table, in load order.
type Counts struct {
	Teams      int64
	Players    int64
	Matches    int64
	Innings    int64
	Deliveries int64
}
