package scorebook

import "context"

// Repository is the write side of the normalized store. CommitMatch is
// atomic per document: either every row in MatchRows lands or none do.
type Repository interface {
	Reset(ctx context.Context) error
	CommitMatch(ctx context.Context, rows MatchRows) error
	Counts(ctx context.Context) (Counts, error)
}
