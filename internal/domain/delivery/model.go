package delivery

import "fmt"

// Delivery is a single ball. Over encodes position as over index plus
// ball-in-over tenths (the third ball of over 12 is 12.3), so ordering
// within an inning is numeric.
type Delivery struct {
	ID             int64
	InningID       int64
	Over           float64
	BatterID       string
	BowlerID       string
	NonStrikerID   string
	RunsBatter     int64
	RunsExtras     int64
	RunsTotal      int64
	ExtrasType     *string
	IsWicket       bool
	PlayerOutID    *string
	WicketKind     *string
	WicketFielders []string
}

func (d Delivery) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("delivery id must be positive")
	}
	if d.InningID <= 0 {
		return fmt.Errorf("delivery inning id must be positive")
	}
	if d.Over <= 0 {
		return fmt.Errorf("delivery over must be positive")
	}
	if d.BatterID == "" || d.BowlerID == "" || d.NonStrikerID == "" {
		return fmt.Errorf("delivery batter, bowler and non-striker are required")
	}
	if d.RunsBatter < 0 || d.RunsExtras < 0 || d.RunsTotal < 0 {
		return fmt.Errorf("delivery runs must not be negative")
	}
	if d.IsWicket && d.WicketKind == nil {
		return fmt.Errorf("delivery wicket kind is required when a wicket fell")
	}
	if !d.IsWicket && (d.PlayerOutID != nil || d.WicketKind != nil || len(d.WicketFielders) > 0) {
		return fmt.Errorf("delivery wicket details are only allowed when a wicket fell")
	}

	return nil
}
