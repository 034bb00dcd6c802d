package match

import (
	"fmt"
	"time"
)

// Match is the flattened header of one scorecard document. Optional source
// fields stay nil rather than degrading to zero values, so the store can
// tell "absent" from "empty".
type Match struct {
	ID              string
	Season          *string
	Venue           *string
	City            *string
	Date            time.Time
	MatchType       *string
	BallsPerOver    *int64
	Team1ID         int64
	Team2ID         int64
	TossWinnerID    int64
	TossDecision    string
	WinnerID        *int64
	OutcomeResult   *string
	OutcomeMargin   *int64
	PlayerOfMatchID *string
	Officials       []byte
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if m.Team1ID <= 0 || m.Team2ID <= 0 {
		return fmt.Errorf("match team ids must be positive")
	}
	if m.TossWinnerID <= 0 {
		return fmt.Errorf("match toss winner id must be positive")
	}
	if m.TossDecision == "" {
		return fmt.Errorf("match toss decision is required")
	}
	if m.WinnerID != nil && *m.WinnerID <= 0 {
		return fmt.Errorf("match winner id must be positive when set")
	}

	return nil
}
