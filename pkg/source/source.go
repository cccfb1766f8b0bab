// Package source holds the upstream collaborator helpers that feed raw
// text into the engine. Binary conversion and page scraping themselves
// live outside this module; what belongs here is the boundary: signature
// verification before extraction, and a plain-file source for text that
// has already been extracted.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ole2Magic is the compound file signature that legacy .doc files begin
// with. Extractors must verify it before attempting binary extraction.
var ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// IsCompoundDocument reports whether data starts with the OLE2 compound
// file signature used by legacy word-processor formats.
func IsCompoundDocument(data []byte) bool {
	return len(data) >= len(ole2Magic) && bytes.Equal(data[:len(ole2Magic)], ole2Magic)
}

// FileSource supplies raw text from a file on disk. It refuses OLE2
// binaries: those must go through a word-processor extractor first.
type FileSource struct {
	Path string
}

// Identifier returns the file's base name, which becomes the title
// fallback when the text has no recognizable title line.
func (f FileSource) Identifier() string {
	return filepath.Base(f.Path)
}

// Text reads the file contents.
func (f FileSource) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}
	if IsCompoundDocument(data) {
		return "", fmt.Errorf("%s is a binary word-processor file; extract its text first", f.Path)
	}
	return string(data), nil
}
