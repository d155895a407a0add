package chatlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// CSVParser handles the desktop KakaoTalk CSV export: a header row of
// Date,User,Message followed by one row per message.
type CSVParser struct{}

func (p *CSVParser) Name() string { return "kakao-csv" }

func (p *CSVParser) Extensions() []string { return []string{".csv"} }

const csvTimeLayout = "2006-01-02 15:04:05"

func (p *CSVParser) Parse(ctx context.Context, path string, opts Options) (ParseResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return failedResult(FormatKakaoCSV, fmt.Sprintf("read file: %v", err)), nil
	}

	// The PC export writes a UTF-8 BOM.
	text := strings.TrimPrefix(string(raw), "\uFEFF")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return failedResult(FormatKakaoCSV, "empty CSV file"), nil
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	dateCol, dateOK := cols["Date"]
	userCol, userOK := cols["User"]
	msgCol, msgOK := cols["Message"]
	if !dateOK || !userOK || !msgOK {
		return failedResult(FormatKakaoCSV, "CSV header is missing one of Date, User, Message"), nil
	}

	var msgs []Message
	var warnings []string
	row := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped unreadable row %d: %v", row, err))
			continue
		}
		date := fieldAt(rec, dateCol)
		user := fieldAt(rec, userCol)
		body := fieldAt(rec, msgCol)
		if date == "" || user == "" || body == "" {
			warnings = append(warnings, fmt.Sprintf("skipped row %d with missing fields", row))
			continue
		}
		ts, err := time.ParseInLocation(csvTimeLayout, date, time.UTC)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped row %d with unparseable date %q", row, date))
			continue
		}
		msgs = append(msgs, Message{Timestamp: ts, Sender: user, Text: body})
	}

	if len(msgs) == 0 {
		return failedResult(FormatKakaoCSV, "no chat messages found in CSV"), nil
	}
	return newResult(FormatKakaoCSV, msgs, warnings), nil
}

func fieldAt(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
