package chatlog

import (
	"sort"
	"time"
)

// SourceFormat identifies which export format a ParseResult came from.
type SourceFormat string

const (
	FormatKakaoTextKR SourceFormat = "kakao-text-kr"
	FormatKakaoTextEN SourceFormat = "kakao-text-en"
	FormatKakaoCSV    SourceFormat = "kakao-csv"
	FormatPDF         SourceFormat = "pdf"
	FormatAudio       SourceFormat = "audio"
)

// Message is the canonical unit every parser converges on. Downstream
// analysis only ever sees this shape, never the source file format.
// Messages are immutable once produced by a parser.
type Message struct {
	Timestamp time.Time         `json:"timestamp"`
	Sender    string            `json:"sender"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// TimeRange is the span between the earliest and latest message timestamps.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseResult is the outcome of running one parser over one export file.
// Malformed lines never fail a parse; they are skipped and recorded in
// Warnings. Success is false only when the file yielded nothing usable.
type ParseResult struct {
	Success       bool         `json:"success"`
	Format        SourceFormat `json:"source_format"`
	Messages      []Message    `json:"messages"`
	TotalMessages int          `json:"total_messages"`
	Participants  []string     `json:"participants,omitempty"`
	Range         *TimeRange   `json:"time_range,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// Participants returns the sorted, deduplicated sender set of msgs.
func Participants(msgs []Message) []string {
	seen := make(map[string]struct{}, 2)
	for _, m := range msgs {
		if m.Sender != "" {
			seen[m.Sender] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Span returns the min/max timestamp range of msgs, or nil when msgs is empty.
func Span(msgs []Message) *TimeRange {
	if len(msgs) == 0 {
		return nil
	}
	r := TimeRange{Start: msgs[0].Timestamp, End: msgs[0].Timestamp}
	for _, m := range msgs[1:] {
		if m.Timestamp.Before(r.Start) {
			r.Start = m.Timestamp
		}
		if m.Timestamp.After(r.End) {
			r.End = m.Timestamp
		}
	}
	return &r
}

// newResult builds a successful ParseResult with the derived fields filled in.
func newResult(format SourceFormat, msgs []Message, warnings []string) ParseResult {
	return ParseResult{
		Success:       true,
		Format:        format,
		Messages:      msgs,
		TotalMessages: len(msgs),
		Participants:  Participants(msgs),
		Range:         Span(msgs),
		Warnings:      warnings,
	}
}

// failedResult builds an unsuccessful ParseResult carrying only the error.
func failedResult(format SourceFormat, errMsg string) ParseResult {
	return ParseResult{Format: format, ErrorMessage: errMsg}
}
