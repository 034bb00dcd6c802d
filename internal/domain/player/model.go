package player

import "fmt"

// Player is one person appearing anywhere in a scorecard: batter, bowler,
// fielder, or player of the match. ID is the registry identifier when the
// source document carries one; otherwise the display name stands in for it.
type Player struct {
	ID   string
	Name string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
