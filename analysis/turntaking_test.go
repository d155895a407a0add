package analysis

import (
	"testing"
	"time"

	"github.com/maumlog/couplechart/chatlog"
)

func turnMsg(sender string, at time.Time) chatlog.Message {
	return chatlog.Message{Timestamp: at, Sender: sender, Text: "..."}
}

func TestAnalyzeTurnTaking_Alternating(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	var msgs []chatlog.Message
	for i := 0; i < 6; i++ {
		sender := "철수"
		if i%2 == 1 {
			sender = "영희"
		}
		msgs = append(msgs, turnMsg(sender, base.Add(time.Duration(i)*time.Minute)))
	}

	res := AnalyzeTurnTaking(msgs)
	if res.TurnRatio != 0.5 {
		t.Fatalf("TurnRatio=%v, want 0.5", res.TurnRatio)
	}
	if res.BalanceScore != 100 {
		t.Fatalf("BalanceScore=%v, want 100", res.BalanceScore)
	}
	if res.InterruptionRate != 0 {
		t.Fatalf("InterruptionRate=%v, want 0", res.InterruptionRate)
	}
	if res.AvgResponseSeconds < 59 || res.AvgResponseSeconds > 61 {
		t.Fatalf("AvgResponseSeconds=%v, want ~60", res.AvgResponseSeconds)
	}
}

func TestAnalyzeTurnTaking_UnansweredRuns(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	msgs := []chatlog.Message{
		turnMsg("철수", base),
		turnMsg("철수", base.Add(time.Minute)),
		turnMsg("철수", base.Add(2*time.Minute)),
		turnMsg("영희", base.Add(3*time.Minute)),
	}

	res := AnalyzeTurnTaking(msgs)
	if res.InterruptionRate != 0.5 {
		t.Fatalf("InterruptionRate=%v, want 0.5 (2 same-sender pairs / 4 messages)", res.InterruptionRate)
	}
	if res.TurnRatio != 0.75 {
		t.Fatalf("TurnRatio=%v, want 0.75", res.TurnRatio)
	}
	if res.BalanceScore != 50 {
		t.Fatalf("BalanceScore=%v, want 50", res.BalanceScore)
	}

	even := AnalyzeTurnTaking([]chatlog.Message{
		turnMsg("철수", base),
		turnMsg("영희", base.Add(time.Minute)),
		turnMsg("철수", base.Add(2*time.Minute)),
		turnMsg("영희", base.Add(3*time.Minute)),
	})
	if res.BalanceScore >= even.BalanceScore {
		t.Fatalf("lopsided balance %v >= alternating balance %v", res.BalanceScore, even.BalanceScore)
	}
}

func TestAnalyzeTurnTaking_LongGapsExcluded(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	msgs := []chatlog.Message{
		turnMsg("철수", base),
		turnMsg("영희", base.Add(30*time.Second)),
		// Overnight silence; not a response.
		turnMsg("철수", base.Add(9*time.Hour)),
		turnMsg("영희", base.Add(9*time.Hour+90*time.Second)),
	}

	res := AnalyzeTurnTaking(msgs)
	// Only the 30s and 90s gaps count.
	if res.AvgResponseSeconds != 60 {
		t.Fatalf("AvgResponseSeconds=%v, want 60", res.AvgResponseSeconds)
	}
}

func TestAnalyzeTurnTaking_Defaults(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	def := DefaultTurnTakingResult()

	if got := AnalyzeTurnTaking(nil); got != def {
		t.Fatalf("AnalyzeTurnTaking(nil)=%+v, want default", got)
	}
	if got := AnalyzeTurnTaking([]chatlog.Message{turnMsg("철수", base)}); got != def {
		t.Fatalf("single message=%+v, want default", got)
	}

	solo := []chatlog.Message{turnMsg("철수", base), turnMsg("철수", base.Add(time.Minute))}
	if got := AnalyzeTurnTaking(solo); got != def {
		t.Fatalf("single sender=%+v, want default", got)
	}

	three := []chatlog.Message{
		turnMsg("철수", base),
		turnMsg("영희", base.Add(time.Minute)),
		turnMsg("민수", base.Add(2*time.Minute)),
	}
	if got := AnalyzeTurnTaking(three); got != def {
		t.Fatalf("three senders=%+v, want default", got)
	}
}
