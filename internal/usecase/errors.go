package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMalformedDocument   = errors.New("malformed document")
	ErrDuplicateMatchID    = errors.New("duplicate match id")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrPersistenceFailure  = errors.New("persistence failure")
	ErrNoDocumentsLoaded   = errors.New("no documents loaded")
)
