package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/maumlog/couplechart/chatlog"
)

// ConversationReport bundles the outputs of all analyzers over one
// conversation. It is recomputed per run and carries no identity.
type ConversationReport struct {
	Emotion        EmotionSummary   `json:"emotion_summary"`
	DominantBucket string           `json:"dominant_emotion"`
	LSM            LSMResult        `json:"lsm"`
	TurnTaking     TurnTakingResult `json:"turn_taking"`
	Health         HealthAssessment `json:"health"`
	Warnings       []string         `json:"warnings,omitempty"`
}

// ConversationAnalyzer runs the three scoring passes over one conversation's
// canonical messages. The analyzers themselves are pure; only per-message
// emotion classification reaches out of process. Safe for concurrent use.
type ConversationAnalyzer struct {
	Classifier EmotionClassifier
	LSM        *LSMAnalyzer

	// Concurrency bounds parallel classification calls. Defaults to 4.
	Concurrency int
}

// Analyze produces the full report. Classification failures on individual
// messages are skipped with a warning; a missing classifier degrades to the
// no-data emotion summary. A report is always produced for well-typed input —
// bad content must never fail an analysis run outright. The returned error is
// non-nil only when ctx was canceled.
func (a *ConversationAnalyzer) Analyze(ctx context.Context, msgs []chatlog.Message) (ConversationReport, error) {
	var report ConversationReport

	vectors, warnings := a.classifyAll(ctx, msgs)
	report.Emotion = SummarizeEmotions(vectors)
	report.DominantBucket = report.Emotion.Dominant()

	lsm := a.LSM
	if lsm == nil {
		lsm = NewLSMAnalyzer(nil)
	}
	if !lsm.Available() {
		warnings = append(warnings, "tokenizer unavailable; language style matching disabled")
	}
	lsmResult, err := lsm.AnalyzeConversation(msgs)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("language style matching failed: %v", err))
	}
	report.LSM = lsmResult

	report.TurnTaking = AnalyzeTurnTaking(msgs)
	report.Health = ComputeHealth(report.Emotion, report.LSM.Score, report.TurnTaking.BalanceScore)
	report.Warnings = warnings
	return report, ctx.Err()
}

func (a *ConversationAnalyzer) classifyAll(ctx context.Context, msgs []chatlog.Message) ([]EmotionVector, []string) {
	if a.Classifier == nil {
		return nil, []string{"emotion classifier unavailable; emotion summary uses the no-data default"}
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	vectors := make([]EmotionVector, len(msgs))
	errs := make([]error, len(msgs))

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range msgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			default:
			}

			v, err := a.Classifier.ClassifyEmotion(ctx, msgs[i].Text)
			if err != nil {
				errs[i] = err
				return
			}
			vectors[i] = v
		}(i)
	}
	wg.Wait()

	out := make([]EmotionVector, 0, len(msgs))
	failed := 0
	for i := range msgs {
		if errs[i] != nil {
			failed++
			continue
		}
		if vectors[i] != nil {
			out = append(out, vectors[i])
		}
	}

	var warnings []string
	if failed > 0 {
		warnings = append(warnings, fmt.Sprintf("emotion classification failed for %d of %d messages", failed, len(msgs)))
	}
	return out, warnings
}
