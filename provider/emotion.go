package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/maumlog/couplechart/analysis"
)

// emotionScores mirrors the JSON object the model must return: one score in
// [0,1] per emotion label.
type emotionScores struct {
	Joy     float64 `json:"joy"`
	Sadness float64 `json:"sadness"`
	Anger   float64 `json:"anger"`
	Anxiety float64 `json:"anxiety"`
	Neutral float64 `json:"neutral"`
	Love    float64 `json:"love"`
	Tired   float64 `json:"tired"`
}

var emotionSchema = generateSchema[emotionScores]()

const classifierInstructions = `You score the emotional content of a single chat message between romantic partners. Messages are usually Korean, sometimes English.

Score each of the seven emotions between 0 and 1:
- joy: happiness, delight, excitement
- sadness: sorrow, gloom, loneliness
- anger: irritation, frustration, rage
- anxiety: worry, unease, tension
- neutral: plain statements, factual exchange
- love: affection, warmth, attraction
- tired: fatigue, exhaustion, listlessness

Scores are independent; they do not need to sum to 1. Respond with the JSON object only.`

// EmotionClassifier scores message text with an OpenAI model using strict
// JSON-schema output. It implements analysis.EmotionClassifier.
type EmotionClassifier struct {
	client *openai.Client
	model  string
}

// NewEmotionClassifier wires an OpenAI client and model name.
func NewEmotionClassifier(client *openai.Client, model string) *EmotionClassifier {
	return &EmotionClassifier{client: client, model: model}
}

func (c *EmotionClassifier) ClassifyEmotion(ctx context.Context, text string) (analysis.EmotionVector, error) {
	if c == nil || c.client == nil || c.model == "" {
		return nil, analysis.ErrEmotionUnavailable
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionScores",
			Schema:      emotionSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Per-emotion scores in [0,1]"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(300),
		Instructions:    openai.String(classifierInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage("Message:\n"+text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, c.client, params)
	if err != nil {
		return nil, fmt.Errorf("ClassifyEmotion: %w", err)
	}

	var out emotionScores
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return nil, fmt.Errorf("ClassifyEmotion: decode: %w", err)
	}
	return out.vector(), nil
}

func (s emotionScores) vector() analysis.EmotionVector {
	return analysis.EmotionVector{
		analysis.Joy:     clamp01(s.Joy),
		analysis.Sadness: clamp01(s.Sadness),
		analysis.Anger:   clamp01(s.Anger),
		analysis.Anxiety: clamp01(s.Anxiety),
		analysis.Neutral: clamp01(s.Neutral),
		analysis.Love:    clamp01(s.Love),
		analysis.Tired:   clamp01(s.Tired),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
