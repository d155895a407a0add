package analysis

// Weights of the health combination: emotion 40%, LSM 30%, turn balance 30%.
const (
	emotionWeight = 0.4
	lsmWeight     = 0.3
	balanceWeight = 0.3
)

// conflictThreshold is the negative share above which a conversation is
// flagged as conflicted.
const conflictThreshold = 0.3

// HealthAssessment is the combined relationship-health figure for one
// analysis run. ConflictIntensity is nil unless a conflict was detected.
type HealthAssessment struct {
	HealthScore       float64  `json:"health_score"`
	ConflictDetected  bool     `json:"conflict_detected"`
	ConflictIntensity *float64 `json:"conflict_intensity,omitempty"`
}

// ComputeHealth combines the three analyzer outputs into a 0–100 score.
// The emotion term discounts the negative share at half weight instead of
// scoring positives alone, so a 0.5-positive/0.5-negative day does not read
// the same as a 0.5-positive/0.5-neutral one. lsmScore is in [0,1],
// balanceScore in [0,100].
func ComputeHealth(emotions EmotionSummary, lsmScore, balanceScore float64) HealthAssessment {
	emotionScore := clamp((emotions.Positive-emotions.Negative*0.5)*100, 0, 100)

	health := emotionScore*emotionWeight + lsmScore*100*lsmWeight + balanceScore*balanceWeight
	out := HealthAssessment{HealthScore: round2(clamp(health, 0, 100))}

	if emotions.Negative > conflictThreshold {
		intensity := emotions.Negative
		out.ConflictDetected = true
		out.ConflictIntensity = &intensity
	}
	return out
}
