// daily-analysis runs the conversation analyzers over one day of stored
// messages per couple and persists the results. Without -date it analyzes
// yesterday, which suits a nightly cron run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/maumlog/couplechart/analysis"
	"github.com/maumlog/couplechart/config"
	"github.com/maumlog/couplechart/provider"
	"github.com/maumlog/couplechart/store"
)

// minMessages is the smallest conversation worth scoring; below this every
// analyzer would just return its no-data default.
const minMessages = 2

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

	date := time.Now().UTC().AddDate(0, 0, -1)
	if cfg.Date != "" {
		date, _ = time.Parse("2006-01-02", cfg.Date)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var classifier analysis.EmotionClassifier
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		classifier = provider.NewEmotionClassifier(&client, cfg.Model)
	} else {
		log.Warn("no OpenAI API key; emotion scores will use the no-data default")
	}

	analyzer := &analysis.ConversationAnalyzer{
		Classifier:  classifier,
		LSM:         analysis.NewLSMAnalyzer(analysis.SpaceTokenizer{}),
		Concurrency: cfg.Concurrency,
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Error("open store")
		os.Exit(1)
	}
	defer db.Close()

	couples := []string{cfg.CoupleID}
	if cfg.CoupleID == "" {
		couples, err = db.Couples()
		if err != nil {
			log.WithError(err).Error("list couples")
			os.Exit(1)
		}
		if len(couples) == 0 {
			log.Info("no couples in store; nothing to analyze")
			return
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	errCh := make(chan error, len(couples))
	var wg sync.WaitGroup
	for _, coupleID := range couples {
		wg.Add(1)
		go func(coupleID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			if err := analyzeCouple(ctx, log, db, analyzer, coupleID, date); err != nil {
				errCh <- err
			}
		}(coupleID)
	}
	wg.Wait()
	close(errCh)

	failed := 0
	for err := range errCh {
		log.WithError(err).Error("analysis failed")
		failed++
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func analyzeCouple(ctx context.Context, log *logrus.Logger, db *store.DB, analyzer *analysis.ConversationAnalyzer, coupleID string, date time.Time) error {
	msgs, err := db.MessagesForDay(coupleID, date)
	if err != nil {
		return fmt.Errorf("analyzeCouple %s: load messages: %w", coupleID, err)
	}
	if len(msgs) < minMessages {
		log.WithFields(logrus.Fields{
			"couple":   coupleID,
			"date":     date.Format("2006-01-02"),
			"messages": len(msgs),
		}).Info("too few messages; skipping")
		return nil
	}

	report, err := analyzer.Analyze(ctx, msgs)
	if err != nil {
		return fmt.Errorf("analyzeCouple %s: %w", coupleID, err)
	}
	for _, w := range report.Warnings {
		log.WithField("couple", coupleID).Warn(w)
	}

	if err := db.SaveDailyAnalysis(coupleID, date, report); err != nil {
		return fmt.Errorf("analyzeCouple %s: %w", coupleID, err)
	}

	log.WithFields(logrus.Fields{
		"couple":   coupleID,
		"date":     date.Format("2006-01-02"),
		"messages": len(msgs),
		"health":   report.Health.HealthScore,
		"conflict": report.Health.ConflictDetected,
	}).Info("saved daily analysis")
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	if shared, err := config.Load(); err == nil {
		cfg.DBPath = shared.DBPath
		cfg.Model = shared.EmotionModel
		cfg.Concurrency = shared.Concurrency
	}

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Sqlite database path")
	fs.StringVar(&cfg.CoupleID, "couple", cfg.CoupleID, "Analyze only this couple id (default: all couples)")
	fs.StringVar(&cfg.Date, "date", cfg.Date, "Day to analyze as YYYY-MM-DD (default: yesterday UTC)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Emotion classification model")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "OpenAI API key (defaults to OPENAI_API_KEY)")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel couples (and classification calls per couple)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/daily-analysis -db couplechart.db")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/daily-analysis -db couplechart.db -couple c1 -date 2026-08-29")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
