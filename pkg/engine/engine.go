// Package engine exposes the text-structuring pipeline: normalization,
// multi-act segmentation, hierarchical parsing, and deduplication.
//
// The engine is a pure, synchronous computation over in-memory strings.
// It performs no I/O, holds no state between calls, and returns a deep,
// caller-owned tree, so callers may run one parse per document across
// goroutines without coordination.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Joaovcitor/autografo/pkg/norma"
	"github.com/Joaovcitor/autografo/pkg/normalize"
	"github.com/Joaovcitor/autografo/pkg/parse"
	"github.com/Joaovcitor/autografo/pkg/segment"
)

// Option configures a ParseDocument call.
type Option func(*config)

type config struct {
	headerTemplate string
}

// WithHeaderTemplate overrides the default autógrafo header recognizer
// used by segmentation. An invalid pattern degrades silently to the
// default; callers wanting strict validation must pre-validate.
func WithHeaderTemplate(template string) Option {
	return func(c *config) { c.headerTemplate = template }
}

// ParseDocument structures a raw document that may hold several
// concatenated acts. sourceID is used only as the title fallback when
// no title line is extractable. Blank or whitespace-only input yields
// an empty sequence; the engine never fails on malformed content.
func ParseDocument(raw, sourceID string, opts ...Option) []*norma.Act {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	text := normalize.Clean(raw)
	if text == "" {
		return nil
	}

	result := segment.Split(text, cfg.headerTemplate)
	parser := parse.NewParser()
	acts := make([]*norma.Act, 0, len(result.Blocks))
	for _, block := range result.Blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		acts = append(acts, parser.ParseAct(block, sourceID))
	}
	return parse.Deduplicate(acts)
}

// ParseSingleAct structures a document known to hold exactly one act,
// skipping segmentation and deduplication. It returns nil when the
// input is blank after normalization.
func ParseSingleAct(raw, sourceID string) *norma.Act {
	text := normalize.Clean(raw)
	if text == "" {
		return nil
	}
	return parse.NewParser().ParseAct(text, sourceID)
}

// TextSource supplies raw document text from an upstream collaborator,
// such as a word-processor extractor or a page scraper.
type TextSource interface {
	// Identifier names the source; it becomes the title fallback.
	Identifier() string

	// Text returns the raw text to structure.
	Text(ctx context.Context) (string, error)
}

// Sink persists structured acts downstream. Implementations must keep
// each child list in sequence order; the engine assigns no identities
// or timestamps.
type Sink interface {
	StoreActs(ctx context.Context, acts []*norma.Act) error
}

// ParseFrom reads raw text from src and structures it.
func ParseFrom(ctx context.Context, src TextSource, opts ...Option) ([]*norma.Act, error) {
	raw, err := src.Text(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", src.Identifier(), err)
	}
	return ParseDocument(raw, src.Identifier(), opts...), nil
}
