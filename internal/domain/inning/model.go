package inning

import "fmt"

// Inning is one batting turn inside a match. Number is the 1-based position
// of the entry in the source document, not a value read from it.
type Inning struct {
	ID            int64
	MatchID       string
	Number        int
	BattingTeamID int64
}

func (i Inning) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("inning id must be positive")
	}
	if i.MatchID == "" {
		return fmt.Errorf("inning match id is required")
	}
	if i.Number <= 0 {
		return fmt.Errorf("inning number must be positive")
	}
	if i.BattingTeamID <= 0 {
		return fmt.Errorf("inning batting team id must be positive")
	}

	return nil
}
