package usecase

import "context"

// DocumentSource yields parsed scorecard documents from an archive. List
// returns document names in a stable per-run order; Read parses one named
// document on demand, so a caller can re-read or skip freely. Read failures
// for broken files carry ErrMalformedDocument.
type DocumentSource interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) (MatchDocument, error)
}

// MatchDocument is one parsed scorecard: a header plus the innings in
// document order. Field order inside source objects is preserved wherever
// first-entry semantics depend on it (outcome, extras, registry).
type MatchDocument struct {
	Info    MatchInfo
	Innings []DocumentInning
}

type MatchInfo struct {
	Season        *string
	Venue         *string
	City          *string
	Dates         []string
	MatchType     *string
	BallsPerOver  *int64
	Teams         []string
	TossWinner    string
	TossDecision  string
	Winner        *string
	Outcome       []OutcomeEntry
	PlayerOfMatch []string
	People        []PersonEntry
	Officials     []byte
}

// OutcomeEntry is one key/value pair of the source outcome margin object,
// e.g. ("runs", 140) or ("wickets", 5), in document order.
type OutcomeEntry struct {
	Result string
	Margin int64
}

// PersonEntry is one registry row: a display name mapped to the source's
// stable person identifier, in document order.
type PersonEntry struct {
	Name string
	ID   string
}

type DocumentInning struct {
	Team  string
	Overs []DocumentOver
}

type DocumentOver struct {
	Number     int64
	Deliveries []DocumentDelivery
}

type DocumentDelivery struct {
	Batter     string
	Bowler     string
	NonStriker string
	RunsBatter int64
	RunsExtras int64
	RunsTotal  int64
	Extras     []ExtraEntry
	Wickets    []WicketEntry
}

// ExtraEntry is one key/value pair of the source extras object, e.g.
// ("legbyes", 1), in document order.
type ExtraEntry struct {
	Kind string
	Runs int64
}

type WicketEntry struct {
	Kind      string
	PlayerOut string
	Fielders  []string
}
