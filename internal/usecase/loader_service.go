package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"github.com/wicketlabs/scorebook/internal/domain/scorebook"
	"github.com/wicketlabs/scorebook/internal/platform/logging"
)

const (
	skipKindMalformedDocument   = "malformed_document"
	skipKindDuplicateMatchID    = "duplicate_match_id"
	skipKindUnresolvedReference = "unresolved_reference"
	skipKindPersistenceFailure  = "persistence_failure"
)

type LoaderConfig struct {
	// ParseWorkers sizes the read-and-parse stage. 1 keeps the whole run on
	// one goroutine; higher values parse ahead while documents are still
	// consumed strictly in listing order.
	ParseWorkers int
}

type LoadReport struct {
	Processed int               `json:"processed"`
	Loaded    int               `json:"loaded"`
	Skipped   []SkippedDocument `json:"skipped,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
	Counts    scorebook.Counts  `json:"counts"`
}

type SkippedDocument struct {
	Document string `json:"document"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// LoaderService rebuilds the normalized store from a document archive: list,
// reset, then per document in order seed the registry, assemble the match,
// decompose the innings, and commit. Entity resolution state is shared
// across the whole run, so everything past parsing is single-threaded.
type LoaderService struct {
	source DocumentSource
	store  scorebook.Repository
	cfg    LoaderConfig
	logger *logging.Logger
}

func NewLoaderService(source DocumentSource, store scorebook.Repository, cfg LoaderConfig, logger *logging.Logger) *LoaderService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ParseWorkers <= 0 {
		cfg.ParseWorkers = 1
	}

	return &LoaderService{
		source: source,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Run processes the archive once. Broken or inconsistent documents are
// reported and skipped; a commit failure halts the run with everything
// committed so far left in place. A run that loads nothing is an error.
func (s *LoaderService) Run(ctx context.Context) (LoadReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoaderService.Run")
	defer span.End()

	report := LoadReport{}
	if s.source == nil || s.store == nil {
		return report, fmt.Errorf("%w: loader needs a document source and a store", ErrInvalidInput)
	}

	names, err := s.source.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list documents: %w", err)
	}
	if len(names) == 0 {
		return report, fmt.Errorf("%w: archive lists no documents", ErrNoDocumentsLoaded)
	}
	s.logger.InfoContext(ctx, "starting load", "documents", len(names), "parse_workers", s.cfg.ParseWorkers)

	if err := s.store.Reset(ctx); err != nil {
		return report, fmt.Errorf("%w: reset store: %v", ErrPersistenceFailure, err)
	}

	var pool *ants.Pool
	if s.cfg.ParseWorkers > 1 {
		pool, err = ants.NewPool(s.cfg.ParseWorkers)
		if err != nil {
			return report, fmt.Errorf("create parse worker pool: %w", err)
		}
		defer pool.Release()
	}

	runCtx, cancel := context.WithCancel(ctx)
	docs, wait := s.streamDocuments(runCtx, pool, names)
	defer wait()
	defer cancel()

	res := NewResolver()
	seq := &rowSequence{}
	seenMatches := make(map[string]string, len(names))
	committedTeams, committedPlayers := 0, 0

	for item := range docs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Processed++

		if item.err != nil {
			s.skip(ctx, &report, item.name, item.err)
			continue
		}

		matchID := matchIDFromDocument(item.name)
		if prev, dup := seenMatches[matchID]; dup {
			s.skip(ctx, &report, item.name, fmt.Errorf("%w: %q already derived from %q", ErrDuplicateMatchID, matchID, prev))
			continue
		}
		seenMatches[matchID] = item.name

		if err := res.SeedPeople(item.doc.Info.People); err != nil {
			s.skip(ctx, &report, item.name, fmt.Errorf("seed registry: %w", err))
			continue
		}
		matchRow, err := buildMatchRecord(matchID, item.doc.Info, res)
		if err != nil {
			s.skip(ctx, &report, item.name, err)
			continue
		}
		innings, deliveries, warnings, err := buildScorecard(matchID, item.doc.Innings, res, seq)
		if err != nil {
			s.skip(ctx, &report, item.name, err)
			continue
		}

		rows := scorebook.MatchRows{
			Teams:      res.TeamsSince(committedTeams),
			Players:    res.PlayersSince(committedPlayers),
			Match:      matchRow,
			Innings:    innings,
			Deliveries: deliveries,
		}
		if err := rows.Validate(); err != nil {
			s.skip(ctx, &report, item.name, fmt.Errorf("%w: %v", ErrMalformedDocument, err))
			continue
		}

		if err := s.store.CommitMatch(ctx, rows); err != nil {
			err = fmt.Errorf("%w: commit match %q: %v", ErrPersistenceFailure, matchID, err)
			s.skip(ctx, &report, item.name, err)
			return report, err
		}
		committedTeams = res.TeamCount()
		committedPlayers = res.PlayerCount()
		report.Loaded++
		report.Warnings = append(report.Warnings, warnings...)
		s.logger.DebugContext(ctx, "document loaded", "document", item.name, "match_id", matchID,
			"innings", len(innings), "deliveries", len(deliveries))
	}
	if ctx.Err() != nil {
		return report, ctx.Err()
	}

	if report.Loaded == 0 {
		return report, fmt.Errorf("%w: processed %d documents, loaded none", ErrNoDocumentsLoaded, report.Processed)
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return report, fmt.Errorf("count store rows: %w", err)
	}
	report.Counts = counts

	s.logger.InfoContext(ctx, "load complete",
		"documents_processed", report.Processed,
		"documents_loaded", report.Loaded,
		"documents_skipped", len(report.Skipped),
		"teams", counts.Teams,
		"players", counts.Players,
		"matches", counts.Matches,
		"innings", counts.Innings,
		"deliveries", counts.Deliveries,
	)
	return report, nil
}

func (s *LoaderService) skip(ctx context.Context, report *LoadReport, name string, err error) {
	kind := classifySkip(err)
	report.Skipped = append(report.Skipped, SkippedDocument{
		Document: name,
		Kind:     kind,
		Message:  err.Error(),
	})
	s.logger.WarnContext(ctx, "skipping document", "document", name, "kind", kind, "error", err)
}

func classifySkip(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateMatchID):
		return skipKindDuplicateMatchID
	case errors.Is(err, ErrUnresolvedReference):
		return skipKindUnresolvedReference
	case errors.Is(err, ErrPersistenceFailure):
		return skipKindPersistenceFailure
	default:
		return skipKindMalformedDocument
	}
}

func matchIDFromDocument(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

type parsedDocument struct {
	name string
	doc  MatchDocument
	err  error
}

// streamDocuments feeds parsed documents to the sequential stage in listing
// order. With a pool, parsing runs ahead on the workers inside a bounded
// window; without one, documents are read one at a time. The returned wait
// func must be called after cancelling ctx.
func (s *LoaderService) streamDocuments(ctx context.Context, pool *ants.Pool, names []string) (<-chan parsedDocument, func()) {
	out := make(chan parsedDocument)
	var wg conc.WaitGroup

	if pool == nil {
		wg.Go(func() {
			defer close(out)
			for _, name := range names {
				doc, err := s.source.Read(ctx, name)
				select {
				case out <- parsedDocument{name: name, doc: doc, err: err}:
				case <-ctx.Done():
					return
				}
			}
		})
		return out, wg.Wait
	}

	// One slot per document keeps workers from ever blocking; the window
	// bounds how far parsing runs ahead of consumption.
	slots := make([]chan parsedDocument, len(names))
	for i := range slots {
		slots[i] = make(chan parsedDocument, 1)
	}
	window := make(chan struct{}, s.cfg.ParseWorkers*2)

	wg.Go(func() {
		for i, name := range names {
			select {
			case window <- struct{}{}:
			case <-ctx.Done():
				return
			}

			i, name := i, name
			if err := pool.Submit(func() {
				doc, err := s.source.Read(ctx, name)
				slots[i] <- parsedDocument{name: name, doc: doc, err: err}
			}); err != nil {
				slots[i] <- parsedDocument{name: name, err: fmt.Errorf("submit parse job: %w", err)}
			}
		}
	})

	wg.Go(func() {
		defer close(out)
		for i := range names {
			select {
			case item := <-slots[i]:
				select {
				case out <- item:
					<-window
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return out, wg.Wait
}
