package chatlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor provides the PDF text layer, one string per page in page
// order. Implementations live at the process boundary so tests can inject
// fakes.
type TextExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// PDFParser extracts the text layer of a PDF and re-parses it as a
// Korean-locale plain-text export. Screenshot-style PDFs with no text layer
// fail; PDFs whose text doesn't look like a chat transcript still succeed
// with zero messages and a warning, so callers can tell the two apart.
type PDFParser struct{}

func (p *PDFParser) Name() string { return "pdf" }

func (p *PDFParser) Extensions() []string { return []string{".pdf"} }

func (p *PDFParser) Parse(ctx context.Context, path string, opts Options) (ParseResult, error) {
	if opts.Extractor == nil {
		return ParseResult{}, fmt.Errorf("%w: PDF text extractor", ErrCapabilityUnavailable)
	}

	pages, err := opts.Extractor.ExtractPages(path)
	if err != nil {
		return failedResult(FormatPDF, fmt.Sprintf("extract PDF text: %v", err)), nil
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return failedResult(FormatPDF, "no text could be extracted from PDF"), nil
	}

	msgs, warnings := parseKoreanText(text)
	if len(msgs) == 0 {
		warnings = append(warnings, "PDF text could not be parsed as a chat transcript")
		return newResult(FormatPDF, nil, warnings), nil
	}
	return newResult(FormatPDF, msgs, warnings), nil
}

// StandardExtractor reads the PDF text layer with ledongthuc/pdf. Pages whose
// text cannot be decoded are skipped rather than failing the whole document.
type StandardExtractor struct{}

func (StandardExtractor) ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
