// chat-ingest parses an exported chat file (KakaoTalk txt, CSV, PDF, or an
// audio recording) into canonical messages, then writes them to the sqlite
// store and/or a JSON file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/maumlog/couplechart/chatlog"
	"github.com/maumlog/couplechart/config"
	"github.com/maumlog/couplechart/fileutil"
	"github.com/maumlog/couplechart/provider"
	"github.com/maumlog/couplechart/store"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	opts := chatlog.Options{
		Extractor: &chatlog.StandardExtractor{},
		Language:  cfg.Language,
	}
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		opts.Transcriber = provider.NewWhisperTranscriber(&client, cfg.STTModel)
	}

	registry := chatlog.NewRegistry()
	result, err := registry.DetectAndParse(ctx, cfg.InPath, filepath.Base(cfg.InPath), opts)
	if err != nil {
		if errors.Is(err, chatlog.ErrCapabilityUnavailable) {
			log.Error("audio ingest needs an OpenAI API key (pass -api-key or set OPENAI_API_KEY)")
			os.Exit(2)
		}
		log.WithError(err).Error("parse failed")
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		log.Warn(w)
	}
	if !result.Success {
		log.WithField("format", result.Format).Errorf("parse failed: %s", result.ErrorMessage)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"format":       result.Format,
		"messages":     result.TotalMessages,
		"participants": len(result.Participants),
	}).Info("parsed chat file")

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			log.WithError(err).Error("open store")
			os.Exit(1)
		}
		defer db.Close()

		if err := db.InsertMessages(cfg.CoupleID, result.Format, result.Messages); err != nil {
			log.WithError(err).Error("store messages")
			os.Exit(1)
		}
		log.WithFields(logrus.Fields{
			"couple":   cfg.CoupleID,
			"messages": result.TotalMessages,
		}).Info("stored messages")
	}

	if cfg.OutPath != "" {
		if err := fileutil.WriteJSONAtomic(cfg.OutPath, result, cfg.Pretty); err != nil {
			log.WithError(err).Error("write output")
			os.Exit(1)
		}
		log.WithField("path", cfg.OutPath).Info("wrote parse result")
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	if shared, err := config.Load(); err == nil {
		cfg.Language = shared.Language
		cfg.STTModel = shared.TranscribeModel
	}

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to the chat export to parse (.txt, .csv, .pdf, or audio)")
	fs.StringVar(&cfg.CoupleID, "couple", cfg.CoupleID, "Couple id to store messages under (required with -db)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Sqlite database path; empty skips storage")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Write the parse result as JSON to this path")
	fs.StringVar(&cfg.Language, "language", cfg.Language, "Transcription language hint for audio files")
	fs.StringVar(&cfg.STTModel, "stt-model", cfg.STTModel, "Speech-to-text model (default whisper-1)")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "OpenAI API key (defaults to OPENAI_API_KEY)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print JSON output")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/chat-ingest -in kakao.txt -couple c1 -db couplechart.db")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/chat-ingest -in export.csv -out parsed.json -pretty")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.InPath != "" {
		cfg.InPath = filepath.Clean(cfg.InPath)
	}
	return cfg, nil
}
