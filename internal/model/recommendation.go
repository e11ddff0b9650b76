package model

// Effectiveness is the predicted outcome of applying a recommendation.
type Effectiveness struct {
	CurrentScore       float64 `json:"current_strength_score"`
	PredictedScore     float64 `json:"predicted_strength_score"`
	PredictedGain      float64 `json:"predicted_improvement"`
	SuccessProbability float64 `json:"success_probability"`
	ConfidenceLevel    string  `json:"confidence_level"`
}

// Alternative is one alternative settings bundle with tradeoff annotations.
type Alternative struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Settings    Settings `json:"settings"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
}

// Recommendation is the merged output of the adaptive loop: pattern-learned
// statistics overlaid by personal preferences overlaid by situational
// context, with reasoning and a predicted effectiveness. It is ephemeral,
// computed per request.
type Recommendation struct {
	Settings      Settings      `json:"settings"`
	Intensity     Intensity     `json:"intensity"`
	Confidence    float64       `json:"confidence"`
	Reasoning     []string      `json:"reasoning"`
	Effectiveness Effectiveness `json:"effectiveness_prediction"`
	Alternatives  []Alternative `json:"alternative_approaches"`
	Personalized  bool          `json:"personalization_applied"`
}

// Prediction is the pattern store's raw settings suggestion before personal
// and contextual overlays are applied.
type Prediction struct {
	Settings      Settings  `json:"settings"`
	Intensity     Intensity `json:"recommended_intensity"`
	Confidence    float64   `json:"confidence_score"`
	Reasoning     []string  `json:"reasoning"`
	NeighborCount int       `json:"neighbor_count"`
	PatternRate   float64   `json:"pattern_success_rate"`
}

// Personalization is the behavior store's overlay result.
type Personalization struct {
	Settings    Settings `json:"settings"`
	Confidence  float64  `json:"confidence"`
	AppliedKeys []string `json:"adapted_settings"`
}
