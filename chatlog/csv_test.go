package chatlog

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCSVParser_Basic(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Date,User,Message",
		"2024-01-15 14:30:00,철수,안녕",
		"2024-01-15 14:31:12,영희,응 안녕!",
	}, "\n")
	path := writeTemp(t, "chat.csv", content)

	res, err := (&CSVParser{}).Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("Success=false, error=%q", res.ErrorMessage)
	}
	if res.Format != FormatKakaoCSV {
		t.Fatalf("Format=%q, want %q", res.Format, FormatKakaoCSV)
	}
	if res.TotalMessages != 2 {
		t.Fatalf("TotalMessages=%d, want 2", res.TotalMessages)
	}
	want := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)
	if !res.Messages[0].Timestamp.Equal(want) {
		t.Fatalf("timestamp=%v, want %v", res.Messages[0].Timestamp, want)
	}
	if res.Messages[1].Sender != "영희" {
		t.Fatalf("Sender=%q, want 영희", res.Messages[1].Sender)
	}
}

func TestCSVParser_BOM(t *testing.T) {
	t.Parallel()

	content := "\uFEFFDate,User,Message\n2024-01-15 14:30:00,철수,안녕\n"
	path := writeTemp(t, "bom.csv", content)

	res, err := (&CSVParser{}).Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("BOM header not recognized: %q", res.ErrorMessage)
	}
	if res.TotalMessages != 1 {
		t.Fatalf("TotalMessages=%d, want 1", res.TotalMessages)
	}
}

func TestCSVParser_SkipsBadRows(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Date,User,Message",
		"2024-01-15 14:30:00,철수,안녕",
		"2024-01-15 14:31:00,영희,",
		"not-a-date,철수,뭐지",
		"2024-01-15 14:32:00,영희,마지막",
	}, "\n")
	path := writeTemp(t, "bad.csv", content)

	res, err := (&CSVParser{}).Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success {
		t.Fatalf("Success=false, error=%q", res.ErrorMessage)
	}
	if res.TotalMessages != 2 {
		t.Fatalf("TotalMessages=%d, want 2", res.TotalMessages)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Warnings=%v, want two entries", res.Warnings)
	}
}

func TestCSVParser_BadHeader(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "noheader.csv", "a,b,c\n1,2,3\n")
	res, err := (&CSVParser{}).Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Success {
		t.Fatalf("expected Success=false for missing header columns")
	}
	if !strings.Contains(res.ErrorMessage, "header") {
		t.Fatalf("ErrorMessage=%q, want header complaint", res.ErrorMessage)
	}
}

func TestCSVParser_OnlyHeader(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "empty.csv", "Date,User,Message\n")
	res, err := (&CSVParser{}).Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Success {
		t.Fatalf("expected Success=false for zero data rows")
	}
}
