package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/runtimeconfig"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// ErrDisabled reports that markdown support was not enabled in configuration.
var ErrDisabled = errors.New("markdown: support is disabled")

// Config controls how the markdown service discovers, parses, and imports files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    ParseOptions
}

// ConfigFromRuntime maps the module-level markdown settings onto a service config.
func ConfigFromRuntime(cfg runtimeconfig.MarkdownConfig) Config {
	return Config{
		BasePath:  cfg.ContentDir,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
		Parser: ParseOptions{
			Extensions: append([]string(nil), cfg.Parser.Extensions...),
			Sanitize:   cfg.Parser.Sanitize,
			HardWraps:  cfg.Parser.HardWraps,
			SafeMode:   cfg.Parser.SafeMode,
		},
	}
}

// Service loads lesson documents from disk and imports them into the catalog.
type Service struct {
	cfg      Config
	parser   *GoldmarkParser
	loader   *Loader
	importer *Importer
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithFilesystem overrides the filesystem the loader reads from. Intended for
// tests and embedded content.
func WithFilesystem(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.loader = NewLoader(filesystem, LoaderConfig{
				BasePath:  s.cfg.BasePath,
				Pattern:   s.cfg.Pattern,
				Recursive: s.cfg.Recursive,
			})
		}
	}
}

// NewService constructs a markdown service bound to a catalog.
func NewService(cfg Config, courses catalog.Service, provider interfaces.LoggerProvider, opts ...ServiceOption) (*Service, error) {
	parser := NewGoldmarkParser(cfg.Parser)

	svc := &Service{
		cfg:    cfg,
		parser: parser,
		importer: NewImporter(ImporterConfig{
			Courses: courses,
			Logger:  provider,
		}),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.loader == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		svc.loader = NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		})
	}

	return svc, nil
}

// Renderer exposes the catalog-facing renderer built from the service parser.
func (s *Service) Renderer() *Renderer {
	return NewRenderer(s.parser)
}

// Load reads a single lesson document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string) (*Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), LoadParams{})
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(result.Document); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every lesson document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{})
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(results))
	for _, result := range results {
		if err := s.renderDocument(result.Document); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// Render parses markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, source []byte) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.parser.Parse(source)
}

// Import loads a single document and upserts it through the catalog.
func (s *Service) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	doc, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.importer.ImportDocument(ctx, doc, opts)
}

// ImportDirectory loads every document under dir and upserts them.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	docs, err := s.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	return s.importer.ImportDocuments(ctx, docs, opts)
}

// Sync imports every document under dir and optionally removes orphaned lessons.
func (s *Service) Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error) {
	docs, err := s.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	return s.importer.SyncDocuments(ctx, docs, opts)
}

func (s *Service) renderDocument(doc *Document) error {
	if doc == nil {
		return nil
	}
	html, err := s.parser.Parse(doc.Body)
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
