package analysis

import (
	"context"
	"errors"
)

// EmotionLabel is one of the seven emotions the classifier scores.
type EmotionLabel string

const (
	Joy     EmotionLabel = "joy"
	Sadness EmotionLabel = "sadness"
	Anger   EmotionLabel = "anger"
	Anxiety EmotionLabel = "anxiety"
	Neutral EmotionLabel = "neutral"
	Love    EmotionLabel = "love"
	Tired   EmotionLabel = "tired"
)

// EmotionLabels is the closed label set in classifier order.
var EmotionLabels = []EmotionLabel{Joy, Sadness, Anger, Anxiety, Neutral, Love, Tired}

// EmotionVector maps each label to a score in [0,1]. Scores are independent
// per label and need not sum to 1.
type EmotionVector map[EmotionLabel]float64

// EmotionClassifier scores one message text. Implementations live at the
// process boundary (see package provider); the analyzers only care whether
// one is present.
type EmotionClassifier interface {
	ClassifyEmotion(ctx context.Context, text string) (EmotionVector, error)
}

// ErrEmotionUnavailable signals that the classifier cannot serve requests at
// all, as opposed to failing on a single message.
var ErrEmotionUnavailable = errors.New("analysis: emotion classifier unavailable")

// EmotionSummary is the positive/neutral/negative share of a conversation.
// The three ratios sum to 1, except for the no-data default of 0.5/0.5/0.
type EmotionSummary struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SummarizeEmotions reduces per-message score vectors to bucket ratios. Joy
// and love read as positive, neutral and tired as neutral, sadness, anger and
// anxiety as negative; unknown labels are ignored. Aggregation is purely
// additive, with no weighting by message length or recency.
func SummarizeEmotions(vectors []EmotionVector) EmotionSummary {
	var pos, neu, neg float64
	for _, v := range vectors {
		for label, score := range v {
			switch label {
			case Joy, Love:
				pos += score
			case Neutral, Tired:
				neu += score
			case Sadness, Anger, Anxiety:
				neg += score
			}
		}
	}

	total := pos + neu + neg
	if total == 0 {
		return EmotionSummary{Positive: 0.5, Neutral: 0.5, Negative: 0.0}
	}
	return EmotionSummary{
		Positive: round3(pos / total),
		Neutral:  round3(neu / total),
		Negative: round3(neg / total),
	}
}

// Dominant names the bucket with the largest share. Positive wins ties with
// neutral, neutral wins ties with negative.
func (s EmotionSummary) Dominant() string {
	switch {
	case s.Positive >= s.Neutral && s.Positive >= s.Negative:
		return "positive"
	case s.Neutral >= s.Negative:
		return "neutral"
	default:
		return "negative"
	}
}
