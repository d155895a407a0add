package analysis

import (
	"math"
	"time"

	"github.com/maumlog/couplechart/chatlog"
)

// TurnTakingResult quantifies conversational balance between two speakers.
type TurnTakingResult struct {
	BalanceScore       float64 `json:"balance_score"`
	TurnRatio          float64 `json:"turn_ratio"`
	AvgResponseSeconds float64 `json:"avg_response_time"`
	InterruptionRate   float64 `json:"interruption_rate"`
}

// DefaultTurnTakingResult is the fixed fallback for conversations that are
// too short or don't have exactly two distinct senders.
func DefaultTurnTakingResult() TurnTakingResult {
	return TurnTakingResult{BalanceScore: 50.0, TurnRatio: 0.5}
}

// maxResponseGap excludes long silences from the response-time average; a gap
// of an hour or more is a new conversation, not a reply.
const maxResponseGap = time.Hour

// AnalyzeTurnTaking measures turn balance, response latency and unanswered
// runs over a time-ordered message sequence. Input is assumed already sorted;
// no internal re-sort happens. The interruption rate counts adjacent
// same-sender pairs — a structural proxy for unanswered turns, not a real
// interruption detector.
func AnalyzeTurnTaking(msgs []chatlog.Message) TurnTakingResult {
	if len(msgs) < 2 {
		return DefaultTurnTakingResult()
	}

	counts := make(map[string]int, 2)
	for _, m := range msgs {
		counts[m.Sender]++
	}
	if len(counts) != 2 {
		return DefaultTurnTakingResult()
	}

	first := msgs[0].Sender
	turnRatio := float64(counts[first]) / float64(len(msgs))

	// A perfect 50/50 split scores 100; total domination scores 0.
	balance := clamp(100-math.Abs(50-turnRatio*100)*2, 0, 100)

	var gapSum float64
	gapCount := 0
	interruptions := 0
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender == msgs[i-1].Sender {
			interruptions++
			continue
		}
		d := msgs[i].Timestamp.Sub(msgs[i-1].Timestamp)
		if d > 0 && d < maxResponseGap {
			gapSum += d.Seconds()
			gapCount++
		}
	}

	avgResponse := 0.0
	if gapCount > 0 {
		avgResponse = gapSum / float64(gapCount)
	}

	return TurnTakingResult{
		BalanceScore:       round2(balance),
		TurnRatio:          round3(turnRatio),
		AvgResponseSeconds: round2(avgResponse),
		InterruptionRate:   round3(float64(interruptions) / float64(len(msgs))),
	}
}
