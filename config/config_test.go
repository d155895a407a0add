package config

import (
	"testing"

	"github.com/BurntSushi/toml"
)

func TestExpandHome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"~/data/couplechart.db", "/home/u/data/couplechart.db"},
		{"/abs/path.db", "/abs/path.db"},
		{"relative.db", "relative.db"},
		{"~", "~"},
	}
	for _, tc := range cases {
		if got := expandHome(tc.in, "/home/u"); got != tc.want {
			t.Fatalf("expandHome(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfigTOMLTags(t *testing.T) {
	t.Parallel()

	var cfg Config
	doc := `
db_path = "~/couplechart.db"
emotion_model = "gpt-5"
transcribe_model = "whisper-1"
language = "en"
concurrency = 8
`
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatalf("toml.Decode: %v", err)
	}
	if cfg.DBPath != "~/couplechart.db" {
		t.Fatalf("DBPath=%q", cfg.DBPath)
	}
	if cfg.EmotionModel != "gpt-5" {
		t.Fatalf("EmotionModel=%q", cfg.EmotionModel)
	}
	if cfg.TranscribeModel != "whisper-1" {
		t.Fatalf("TranscribeModel=%q", cfg.TranscribeModel)
	}
	if cfg.Language != "en" {
		t.Fatalf("Language=%q", cfg.Language)
	}
	if cfg.Concurrency != 8 {
		t.Fatalf("Concurrency=%d", cfg.Concurrency)
	}
}
