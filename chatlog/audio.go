package chatlog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Transcriber converts an audio file into one transcript string.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, path, language string) (string, error)
}

// AudioParser delegates to a Transcriber. Speaker diarization is not
// performed: the whole transcript becomes a single message from an unknown
// sender, stamped with the processing time.
type AudioParser struct{}

func (p *AudioParser) Name() string { return "audio" }

func (p *AudioParser) Extensions() []string {
	return []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"}
}

func (p *AudioParser) Parse(ctx context.Context, path string, opts Options) (ParseResult, error) {
	if opts.Transcriber == nil {
		return ParseResult{}, fmt.Errorf("%w: speech-to-text", ErrCapabilityUnavailable)
	}

	language := opts.Language
	if language == "" {
		language = "ko"
	}

	transcript, err := opts.Transcriber.Transcribe(ctx, path, language)
	if err != nil {
		return failedResult(FormatAudio, fmt.Sprintf("transcribe audio: %v", err)), nil
	}
	if strings.TrimSpace(transcript) == "" {
		return failedResult(FormatAudio, "no speech could be transcribed from audio"), nil
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	msg := Message{
		Timestamp: now(),
		Sender:    "Unknown",
		Text:      strings.TrimSpace(transcript),
		Metadata: map[string]string{
			"source_format": string(FormatAudio),
			"stt_provider":  opts.Transcriber.Name(),
			"language":      language,
		},
	}
	warnings := []string{"speaker separation is not performed; the whole transcript is a single message"}
	return newResult(FormatAudio, []Message{msg}, warnings), nil
}
