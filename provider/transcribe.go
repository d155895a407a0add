package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// WhisperTranscriber implements chatlog.Transcriber with the OpenAI audio
// transcription API.
type WhisperTranscriber struct {
	client *openai.Client
	model  openai.AudioModel
}

// NewWhisperTranscriber wires an OpenAI client. An empty model name selects
// whisper-1.
func NewWhisperTranscriber(client *openai.Client, model string) *WhisperTranscriber {
	m := openai.AudioModel(model)
	if model == "" {
		m = openai.AudioModelWhisper1
	}
	return &WhisperTranscriber{client: client, model: m}
}

func (t *WhisperTranscriber) Name() string { return "openai-whisper" }

func (t *WhisperTranscriber) Transcribe(ctx context.Context, path, language string) (string, error) {
	if t == nil || t.client == nil {
		return "", errors.New("WhisperTranscriber: client is nil")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("Transcribe: open audio: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: t.model,
	}
	if language != "" {
		params.Language = openai.String(language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Transcribe: %w", err)
	}
	return resp.Text, nil
}
