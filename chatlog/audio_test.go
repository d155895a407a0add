package chatlog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeTranscriber struct {
	transcript string
	err        error
	gotLang    string
}

func (f *fakeTranscriber) Name() string { return "fake-stt" }

func (f *fakeTranscriber) Transcribe(_ context.Context, _, language string) (string, error) {
	f.gotLang = language
	return f.transcript, f.err
}

func TestAudioParser_Transcript(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	tr := &fakeTranscriber{transcript: "  오늘 뭐해? 나 이따 시간 돼.  "}
	opts := Options{
		Transcriber: tr,
		Now:         func() time.Time { return stamp },
	}

	res, err := (&AudioParser{}).Parse(context.Background(), "call.m4a", opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("Success=false, error=%q", res.ErrorMessage)
	}
	if res.TotalMessages != 1 {
		t.Fatalf("TotalMessages=%d, want 1", res.TotalMessages)
	}

	msg := res.Messages[0]
	if msg.Sender != "Unknown" {
		t.Fatalf("Sender=%q, want Unknown", msg.Sender)
	}
	if msg.Text != "오늘 뭐해? 나 이따 시간 돼." {
		t.Fatalf("Text=%q, want trimmed transcript", msg.Text)
	}
	if !msg.Timestamp.Equal(stamp) {
		t.Fatalf("Timestamp=%v, want %v", msg.Timestamp, stamp)
	}
	if msg.Metadata["stt_provider"] != "fake-stt" {
		t.Fatalf("Metadata=%v, want stt_provider=fake-stt", msg.Metadata)
	}
	if tr.gotLang != "ko" {
		t.Fatalf("language=%q, want default ko", tr.gotLang)
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("expected diarization warning")
	}
}

func TestAudioParser_LanguageOverride(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{transcript: "hello"}
	_, err := (&AudioParser{}).Parse(context.Background(), "call.mp3", Options{Transcriber: tr, Language: "en"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tr.gotLang != "en" {
		t.Fatalf("language=%q, want en", tr.gotLang)
	}
}

func TestAudioParser_EmptyTranscript(t *testing.T) {
	t.Parallel()

	res, err := (&AudioParser{}).Parse(context.Background(), "silence.wav", Options{Transcriber: &fakeTranscriber{transcript: "   "}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Success {
		t.Fatalf("expected Success=false for empty transcript")
	}
	if res.ErrorMessage == "" {
		t.Fatalf("expected non-empty ErrorMessage")
	}
	if res.TotalMessages != 0 {
		t.Fatalf("TotalMessages=%d, want 0", res.TotalMessages)
	}
}

func TestAudioParser_TranscribeError(t *testing.T) {
	t.Parallel()

	res, err := (&AudioParser{}).Parse(context.Background(), "bad.ogg", Options{Transcriber: &fakeTranscriber{err: errors.New("upstream timeout")}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Success {
		t.Fatalf("expected Success=false on transcription error")
	}
}

func TestAudioParser_NoTranscriber(t *testing.T) {
	t.Parallel()

	_, err := (&AudioParser{}).Parse(context.Background(), "call.mp3", Options{})
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("err=%v, want ErrCapabilityUnavailable", err)
	}
}
