package usecase

import (
	"fmt"

	"github.com/wicketlabs/scorebook/internal/domain/delivery"
	"github.com/wicketlabs/scorebook/internal/domain/inning"
)

// maxDeliveriesPerOver is where the tenths encoding of ball position stops
// being ordered (position 10 would collide with the next over). Longer overs
// are kept verbatim and reported as warnings.
const maxDeliveriesPerOver = 9

// rowSequence hands out inning and delivery surrogate ids, sequential
// across the whole run.
type rowSequence struct {
	inning   int64
	delivery int64
}

func (s *rowSequence) nextInning() int64 {
	s.inning++
	return s.inning
}

func (s *rowSequence) nextDelivery() int64 {
	s.delivery++
	return s.delivery
}

// buildScorecard turns a document's innings array into inning and delivery
// rows. Inning numbers are positional, 1-based, in document order. The over
// column encodes the declared over index plus the 1-based ball position in
// tenths, exactly as declared even when an over runs long.
func buildScorecard(matchID string, docInnings []DocumentInning, res *Resolver, seq *rowSequence) ([]inning.Inning, []delivery.Delivery, []string, error) {
	innings := make([]inning.Inning, 0, len(docInnings))
	deliveries := make([]delivery.Delivery, 0, 256)
	var warnings []string

	for i, docInning := range docInnings {
		battingTeamID, err := res.ResolveTeam(docInning.Team)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("resolve batting team %q: %w", docInning.Team, err)
		}

		in := inning.Inning{
			ID:            seq.nextInning(),
			MatchID:       matchID,
			Number:        i + 1,
			BattingTeamID: battingTeamID,
		}
		innings = append(innings, in)

		for _, over := range docInning.Overs {
			if len(over.Deliveries) > maxDeliveriesPerOver {
				warnings = append(warnings, fmt.Sprintf("inning %d over %d has %d deliveries", in.Number, over.Number, len(over.Deliveries)))
			}
			for pos, docDelivery := range over.Deliveries {
				row, err := buildDeliveryRow(in.ID, over.Number, pos, docDelivery, res, seq)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("inning %d over %d delivery %d: %w", in.Number, over.Number, pos+1, err)
				}
				deliveries = append(deliveries, row)
			}
		}
	}

	return innings, deliveries, warnings, nil
}

func buildDeliveryRow(inningID, overNumber int64, pos int, doc DocumentDelivery, res *Resolver, seq *rowSequence) (delivery.Delivery, error) {
	batterID, err := resolveParticipant(res, doc.Batter)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("batter: %w", err)
	}
	bowlerID, err := resolveParticipant(res, doc.Bowler)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("bowler: %w", err)
	}
	nonStrikerID, err := resolveParticipant(res, doc.NonStriker)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("non-striker: %w", err)
	}

	var extrasType *string
	if len(doc.Extras) > 0 {
		kind := doc.Extras[0].Kind
		extrasType = &kind
	}

	row := delivery.Delivery{
		ID:           seq.nextDelivery(),
		InningID:     inningID,
		Over:         float64(overNumber) + float64(pos+1)/10.0,
		BatterID:     batterID,
		BowlerID:     bowlerID,
		NonStrikerID: nonStrikerID,
		RunsBatter:   doc.RunsBatter,
		RunsExtras:   doc.RunsExtras,
		RunsTotal:    doc.RunsTotal,
		ExtrasType:   extrasType,
	}

	if len(doc.Wickets) > 0 {
		wicket := doc.Wickets[0]
		if wicket.Kind == "" {
			return delivery.Delivery{}, fmt.Errorf("%w: wicket entry is missing its kind", ErrMalformedDocument)
		}
		kind := wicket.Kind
		row.IsWicket = true
		row.WicketKind = &kind
		if wicket.PlayerOut != "" {
			if id, ok := res.LookupPlayerByName(wicket.PlayerOut); ok {
				row.PlayerOutID = &id
			}
		}
		if len(wicket.Fielders) > 0 {
			row.WicketFielders = append([]string(nil), wicket.Fielders...)
		}
	}

	return row, nil
}

// resolveParticipant answers with the id recorded for a display name, or
// allocates a name-keyed player when the registry never mentioned it, so
// the delivery columns always reference a real player row.
func resolveParticipant(res *Resolver, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: participant name is required", ErrMalformedDocument)
	}
	if id, ok := res.LookupPlayerByName(name); ok {
		return id, nil
	}
	return res.ResolvePlayer("", name)
}
