package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/maumlog/couplechart/chatlog"
)

// Tokenizer produces surface word forms for function-word counting. A
// morphological analyzer is the intended implementation; absence disables
// LSM rather than failing the pipeline.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// SpaceTokenizer splits on anything that is not a letter or digit. It is a
// rough stand-in for a morphological analyzer and under-counts agglutinated
// Korean forms, but keeps LSM usable where no native tokenizer is wired in.
type SpaceTokenizer struct{}

func (SpaceTokenizer) Tokenize(text string) ([]string, error) {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), nil
}

// Korean function-word categories for Language Style Matching, after Ireland
// & Pennebaker (2010). The lists are surface forms matched against tokenizer
// output; slice order is the reporting order.
var lsmCategories = []struct {
	name  string
	words []string
}{
	{"personal_pronouns", []string{"나", "저", "내", "제", "나는", "저는", "내가", "제가"}},
	{"you_pronouns", []string{"너", "당신", "네", "니", "너는", "너도", "너의"}},
	{"we_pronouns", []string{"우리", "우리는", "우리의", "우리가"}},
	{"articles", []string{"이", "그", "저", "그거", "이거", "저거"}},
	{"prepositions", []string{"에", "에서", "로", "으로", "에게", "한테", "께"}},
	{"auxiliary_verbs", []string{"하다", "되다", "이다", "아니다", "있다", "없다"}},
	{"conjunctions", []string{"그리고", "그러나", "또는", "하지만", "그래서", "그런데"}},
	{"quantifiers", []string{"많은", "적은", "모든", "몇", "여러", "다른"}},
	{"negations", []string{"안", "못", "없다", "아니", "말다"}},
}

var lsmWordSets = func() []map[string]bool {
	sets := make([]map[string]bool, len(lsmCategories))
	for i, c := range lsmCategories {
		set := make(map[string]bool, len(c.words))
		for _, w := range c.words {
			set[w] = true
		}
		sets[i] = set
	}
	return sets
}()

// LSMResult is a style-similarity score in [0,1] with its per-category
// breakdown.
type LSMResult struct {
	Score      float64            `json:"lsm_score"`
	Categories map[string]float64 `json:"category_breakdown"`
}

// DefaultLSMResult is the fixed fallback for conversations where LSM is
// undefined: solo or group conversations, or a missing tokenizer.
func DefaultLSMResult() LSMResult {
	cats := make(map[string]float64, len(lsmCategories))
	for _, c := range lsmCategories {
		cats[c.name] = 0.5
	}
	return LSMResult{Score: 0.5, Categories: cats}
}

// LSMAnalyzer measures linguistic style convergence between exactly two
// speakers via function-word usage frequency.
type LSMAnalyzer struct {
	tok Tokenizer
}

// NewLSMAnalyzer wires a tokenizer in. A nil tokenizer is allowed and
// disables the analyzer.
func NewLSMAnalyzer(tok Tokenizer) *LSMAnalyzer { return &LSMAnalyzer{tok: tok} }

// Available reports whether a tokenizer is present.
func (a *LSMAnalyzer) Available() bool { return a != nil && a.tok != nil }

// Score computes pairwise LSM between two full-text blocks. Each category's
// word count is normalized by that text's total function-word count, and the
// per-category similarity is 1 minus the absolute ratio difference. On
// tokenizer failure the default result is returned alongside the error so
// callers can log and continue.
func (a *LSMAnalyzer) Score(textA, textB string) (LSMResult, error) {
	if !a.Available() {
		return DefaultLSMResult(), nil
	}

	countsA, err := a.countFunctionWords(textA)
	if err != nil {
		return DefaultLSMResult(), fmt.Errorf("Score: tokenize: %w", err)
	}
	countsB, err := a.countFunctionWords(textB)
	if err != nil {
		return DefaultLSMResult(), fmt.Errorf("Score: tokenize: %w", err)
	}

	totalA := 0
	totalB := 0
	for i := range lsmCategories {
		totalA += countsA[i]
		totalB += countsB[i]
	}
	// Floor at 1 so texts with no function words score as all-zero ratios
	// instead of dividing by zero.
	if totalA == 0 {
		totalA = 1
	}
	if totalB == 0 {
		totalB = 1
	}

	cats := make(map[string]float64, len(lsmCategories))
	sum := 0.0
	for i, c := range lsmCategories {
		ratioA := float64(countsA[i]) / float64(totalA)
		ratioB := float64(countsB[i]) / float64(totalB)
		similarity := clamp(1-math.Abs(ratioA-ratioB), 0, 1)
		cats[c.name] = similarity
		sum += similarity
	}

	return LSMResult{Score: sum / float64(len(lsmCategories)), Categories: cats}, nil
}

func (a *LSMAnalyzer) countFunctionWords(text string) ([]int, error) {
	tokens, err := a.tok.Tokenize(text)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(lsmCategories))
	for _, token := range tokens {
		for i, set := range lsmWordSets {
			if set[token] {
				counts[i]++
			}
		}
	}
	return counts, nil
}

// AnalyzeConversation partitions messages by sender and scores the two
// resulting full-text blocks. Conversations without exactly two distinct
// senders get the default result; that is a designed fallback, not an error.
func (a *LSMAnalyzer) AnalyzeConversation(msgs []chatlog.Message) (LSMResult, error) {
	bySender := make(map[string][]string, 2)
	var order []string
	for _, m := range msgs {
		if _, seen := bySender[m.Sender]; !seen {
			order = append(order, m.Sender)
		}
		bySender[m.Sender] = append(bySender[m.Sender], m.Text)
	}

	if len(order) != 2 {
		return DefaultLSMResult(), nil
	}
	return a.Score(
		strings.Join(bySender[order[0]], " "),
		strings.Join(bySender[order[1]], " "),
	)
}
