package chatlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned when no registered parser matches a file's
// extension.
var ErrUnsupportedFormat = errors.New("chatlog: unsupported file format")

// ErrCapabilityUnavailable is returned when a parser needs an external
// collaborator (text extractor, speech-to-text) that was not provided.
var ErrCapabilityUnavailable = errors.New("chatlog: required capability unavailable")

// Options carries the external collaborators and knobs a parser may need.
// Parsers that don't use a field ignore it.
type Options struct {
	// Extractor provides the per-page PDF text layer. Required by the PDF
	// parser.
	Extractor TextExtractor

	// Transcriber provides speech-to-text. Required by the audio parser.
	Transcriber Transcriber

	// Language is the speech-to-text language hint. Defaults to "ko".
	Language string

	// Now stamps audio transcripts, which carry no timestamps of their own.
	// Defaults to time.Now.
	Now func() time.Time
}

// Parser turns one exported chat file into a ParseResult. Implementations
// skip malformed lines with a warning and keep going; only an empty or
// unreadable file produces Success=false. The returned error is reserved for
// missing capabilities and internal faults, never for malformed content.
type Parser interface {
	Name() string
	Extensions() []string
	Parse(ctx context.Context, path string, opts Options) (ParseResult, error)
}

// Registry holds the closed parser set in registration order.
type Registry struct {
	parsers []Parser
}

// NewRegistry registers the built-in parsers: plain text, CSV, PDF, audio.
func NewRegistry() *Registry {
	return &Registry{parsers: []Parser{
		&TextParser{},
		&CSVParser{},
		&PDFParser{},
		&AudioParser{},
	}}
}

// Select returns the first registered parser whose extension set contains the
// file's extension, matched case-insensitively. It returns nil when no parser
// matches.
func (r *Registry) Select(fileName string) Parser {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return nil
	}
	for _, p := range r.parsers {
		for _, e := range p.Extensions() {
			if e == ext {
				return p
			}
		}
	}
	return nil
}

// Extensions lists every supported extension, sorted.
func (r *Registry) Extensions() []string {
	var out []string
	for _, p := range r.parsers {
		out = append(out, p.Extensions()...)
	}
	sort.Strings(out)
	return out
}

// DetectAndParse selects a parser for fileName and runs it over the file at
// path. fileName is separate from path because uploads often live in
// temporary files whose names say nothing about the original format.
func (r *Registry) DetectAndParse(ctx context.Context, path, fileName string, opts Options) (ParseResult, error) {
	p := r.Select(fileName)
	if p == nil {
		return ParseResult{}, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, filepath.Ext(fileName), strings.Join(r.Extensions(), ", "))
	}
	return p.Parse(ctx, path, opts)
}
