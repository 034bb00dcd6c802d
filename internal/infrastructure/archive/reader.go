package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"
	"github.com/wicketlabs/scorebook/internal/platform/logging"
	"github.com/wicketlabs/scorebook/internal/usecase"
)

const documentExt = ".json"

// ReaderConfig holds dependencies for constructing a Reader.
type ReaderConfig struct {
	Dir    string
	Logger *logging.Logger
}

// Reader serves scorecard documents from a directory of JSON files, one
// match per file. It implements usecase.DocumentSource.
type Reader struct {
	dir      string
	logger   *logging.Logger
	validate *validator.Validate
}

// NewReader creates a Reader for the given directory.
func NewReader(cfg ReaderConfig) *Reader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Reader{
		dir:      strings.TrimSpace(cfg.Dir),
		logger:   logger,
		validate: validator.New(),
	}
}

// List returns the names of every document file in the archive directory,
// sorted by name.
func (r *Reader) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, crerr.Wrapf(err, "list archive %s", r.dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Read parses and validates a single document. Anything wrong with the file
// itself comes back wrapped as a malformed document so the caller can skip
// it and move on.
func (r *Reader) Read(ctx context.Context, name string) (usecase.MatchDocument, error) {
	if err := ctx.Err(); err != nil {
		return usecase.MatchDocument{}, err
	}

	file, err := os.Open(filepath.Join(r.dir, name))
	if err != nil {
		return usecase.MatchDocument{}, fmt.Errorf("%w: open %s: %v", usecase.ErrMalformedDocument, name, err)
	}
	defer func() {
		_ = file.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(file); err != nil {
		return usecase.MatchDocument{}, fmt.Errorf("%w: read %s: %v", usecase.ErrMalformedDocument, name, err)
	}

	var env documentEnvelope
	if err := documentCodec.Unmarshal(buf.B, &env); err != nil {
		return usecase.MatchDocument{}, fmt.Errorf("%w: parse %s: %v", usecase.ErrMalformedDocument, name, err)
	}
	if err := r.validate.StructCtx(ctx, env); err != nil {
		return usecase.MatchDocument{}, fmt.Errorf("%w: validate %s: %v", usecase.ErrMalformedDocument, name, err)
	}

	doc, err := mapDocument(env)
	if err != nil {
		return usecase.MatchDocument{}, fmt.Errorf("%w: map %s: %v", usecase.ErrMalformedDocument, name, err)
	}

	r.logger.DebugContext(ctx, "document parsed", "document", name, "bytes", buf.Len())

	return doc, nil
}
