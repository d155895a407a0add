package chatlog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TextParser handles KakaoTalk plain-text exports. Three dialects exist in
// the wild: the Korean mobile format ("2024년 1월 15일 오후 2:30, 철수 : ..."),
// the English mobile format ("January 15, 2024 at 2:30 PM, Chulsoo : ..."),
// and a legacy bracketed desktop format ("[철수] [오후 2:30] ...") under
// "---- 2024년 1월 15일 ----" day delimiters. The locale is probed from the
// first 1000 characters; Korean is the default.
type TextParser struct{}

func (p *TextParser) Name() string { return "kakao-text" }

func (p *TextParser) Extensions() []string { return []string{".txt"} }

func (p *TextParser) Parse(ctx context.Context, path string, opts Options) (ParseResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return failedResult(FormatKakaoTextKR, fmt.Sprintf("read file: %v", err)), nil
	}

	text := string(raw)
	format := detectTextLocale(text)

	var msgs []Message
	var warnings []string
	if format == FormatKakaoTextEN {
		msgs, warnings = parseEnglishText(text)
	} else {
		msgs, warnings = parseKoreanText(text)
	}

	if len(msgs) == 0 {
		return failedResult(format, "no chat messages found in file"), nil
	}
	return newResult(format, msgs, warnings), nil
}

var (
	// Korean mobile export: "2024년 1월 15일 오후 2:30, 철수 : 메시지"
	krMessageRe = regexp.MustCompile(`^(\d{4})년 (\d{1,2})월 (\d{1,2})일 (오전|오후) (\d{1,2}):(\d{2}), (.+?) : (.+)$`)

	// Day header: "2024년 1월 15일 월요일". Establishes the running date
	// context used by the legacy bracketed lines below it.
	krDayHeaderRe = regexp.MustCompile(`^(\d{4})년 (\d{1,2})월 (\d{1,2})일`)

	// Legacy desktop day delimiter: "---- 2024년 1월 15일 월요일 ----"
	krLegacyDayRe = regexp.MustCompile(`^-+\s*(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)

	// Legacy desktop message: "[철수] [오후 2:30] 메시지"
	krLegacyMsgRe = regexp.MustCompile(`^\[(.+?)\]\s*\[(오전|오후)\s*(\d{1,2}):(\d{2})\]\s*(.+)$`)

	// English mobile export: "January 15, 2024 at 2:30 PM, Chulsoo : hello"
	enMessageRe = regexp.MustCompile(`^([A-Z][a-z]+) (\d{1,2}), (\d{4}) at (\d{1,2}):(\d{2}) (AM|PM), (.+?) : (.+)$`)

	enProbeRe = regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4} at \d{1,2}:\d{2} [AP]M`)
	krProbeRe = regexp.MustCompile(`\d{4}년 \d{1,2}월 \d{1,2}일`)
)

// detectTextLocale probes the first 1000 characters for a locale-specific
// header pattern. Korean wins ties and is the default.
func detectTextLocale(text string) SourceFormat {
	probe := text
	if runes := []rune(probe); len(runes) > 1000 {
		probe = string(runes[:1000])
	}
	if krProbeRe.MatchString(probe) {
		return FormatKakaoTextKR
	}
	if enProbeRe.MatchString(probe) {
		return FormatKakaoTextEN
	}
	return FormatKakaoTextKR
}

// parseKoreanText scans Korean-locale export text line by line. Both the
// mobile format and the legacy bracketed format are recognized in one pass;
// lines matching neither are skipped silently, lines whose timestamp cannot
// be constructed are skipped with a warning.
func parseKoreanText(text string) (msgs []Message, warnings []string) {
	var dateContext time.Time
	hasDate := false

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if m := krMessageRe.FindStringSubmatch(line); m != nil {
			ts, ok := krTimestamp(m[1], m[2], m[3], m[4], m[5], m[6])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("skipped line with unparseable timestamp: %q", truncateLine(line)))
				continue
			}
			msgs = append(msgs, Message{Timestamp: ts, Sender: strings.TrimSpace(m[7]), Text: strings.TrimSpace(m[8])})
			continue
		}

		if m := krLegacyDayRe.FindStringSubmatch(line); m != nil {
			if d, ok := civilDate(m[1], m[2], m[3]); ok {
				dateContext, hasDate = d, true
			}
			continue
		}

		if m := krLegacyMsgRe.FindStringSubmatch(line); m != nil {
			if !hasDate {
				warnings = append(warnings, fmt.Sprintf("skipped line with unparseable timestamp: %q", truncateLine(line)))
				continue
			}
			hour, minute, ok := clockFromMeridiem(m[2] == "오후", m[3], m[4])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("skipped line with unparseable timestamp: %q", truncateLine(line)))
				continue
			}
			ts := time.Date(dateContext.Year(), dateContext.Month(), dateContext.Day(), hour, minute, 0, 0, time.UTC)
			msgs = append(msgs, Message{Timestamp: ts, Sender: strings.TrimSpace(m[1]), Text: strings.TrimSpace(m[5])})
			continue
		}

		if m := krDayHeaderRe.FindStringSubmatch(line); m != nil {
			if d, ok := civilDate(m[1], m[2], m[3]); ok {
				dateContext, hasDate = d, true
			}
			continue
		}
	}
	return msgs, warnings
}

// parseEnglishText scans English-locale export text. Unmatched lines are
// skipped without warnings; multi-line message bodies are not reassembled.
func parseEnglishText(text string) (msgs []Message, warnings []string) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := enMessageRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month, ok := monthByName[m[1]]
		if !ok {
			continue
		}
		year, _ := strconv.Atoi(m[3])
		day, _ := strconv.Atoi(m[2])
		hour, minute, ok := clockFromMeridiem(m[6] == "PM", m[4], m[5])
		if !ok {
			warnings = append(warnings, fmt.Sprintf("skipped line with unparseable timestamp: %q", truncateLine(line)))
			continue
		}
		ts := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
		msgs = append(msgs, Message{Timestamp: ts, Sender: strings.TrimSpace(m[7]), Text: strings.TrimSpace(m[8])})
	}
	return msgs, warnings
}

var monthByName = map[string]time.Month{
	"January": time.January, "February": time.February, "March": time.March,
	"April": time.April, "May": time.May, "June": time.June,
	"July": time.July, "August": time.August, "September": time.September,
	"October": time.October, "November": time.November, "December": time.December,
}

// krTimestamp builds a timestamp from Korean date and 12-hour clock fields.
func krTimestamp(year, month, day, meridiem, hour, minute string) (time.Time, bool) {
	d, ok := civilDate(year, month, day)
	if !ok {
		return time.Time{}, false
	}
	h, m, ok := clockFromMeridiem(meridiem == "오후", hour, minute)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC), true
}

func civilDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), true
}

// clockFromMeridiem converts a 12-hour clock reading to 24-hour. Hour 12 in
// the AM half maps to 0; any PM hour except 12 gains 12.
func clockFromMeridiem(pm bool, hour, minute string) (h, m int, ok bool) {
	h, _ = strconv.Atoi(hour)
	m, _ = strconv.Atoi(minute)
	if h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, 0, false
	}
	if pm && h != 12 {
		h += 12
	} else if !pm && h == 12 {
		h = 0
	}
	return h, m, true
}

func truncateLine(s string) string {
	const max = 80
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
