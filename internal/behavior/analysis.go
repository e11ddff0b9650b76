package behavior

import (
	"math"
	"time"

	"github.com/patchline/passforge/internal/model"
)

// PatternFeedback aggregates recent feedback for one pattern type.
type PatternFeedback struct {
	AverageRating  float64 `json:"average_rating"`
	Total          int     `json:"total_transformations"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// Analysis summarizes what the behavior store has learned about the user.
type Analysis struct {
	FeedbackByPattern  map[model.PatternType]PatternFeedback `json:"success_rates_by_pattern"`
	LearningQuality    string                                `json:"learning_quality"`
	TotalPreferences   int                                   `json:"total_preferences_learned"`
	GeneralPreferences int                                   `json:"general_preferences"`
	ConfidentCount     int                                   `json:"confident_preferences"`
	AverageConfidence  float64                               `json:"average_preference_confidence"`
	RecentFeedback     int                                   `json:"recent_feedback"`
}

// analysisWindow is how far back feedback events count as recent.
const analysisWindow = 30 * 24 * time.Hour

// Analyze computes aggregate statistics over the preference table and the
// feedback events of the last 30 days.
func (s *BehaviorStore) Analyze() Analysis {
	s.mu.Lock()
	prefs := make([]model.PreferenceEntry, 0, len(s.prefs))
	for _, p := range s.prefs {
		prefs = append(prefs, p)
	}
	events := make([]model.FeedbackEvent, len(s.events))
	copy(events, s.events)
	now := s.now()
	s.mu.Unlock()

	analysis := Analysis{
		FeedbackByPattern: make(map[model.PatternType]PatternFeedback),
		TotalPreferences:  len(prefs),
	}

	var totalConfidence float64
	highConfidence := 0
	for _, p := range prefs {
		totalConfidence += p.Confidence
		if p.Confidence > 0.7 {
			analysis.ConfidentCount++
		}
		if p.Confidence > 0.8 {
			highConfidence++
		}
		if generalKey(p.Key) {
			analysis.GeneralPreferences++
		}
	}
	if len(prefs) > 0 {
		analysis.AverageConfidence = math.Round(totalConfidence/float64(len(prefs))*1000) / 1000
	}

	cutoff := now.Add(-analysisWindow)
	type tally struct {
		rating   int
		accepted int
		count    int
	}
	tallies := make(map[model.PatternType]*tally)
	for _, e := range events {
		if e.Timestamp.Before(cutoff) {
			continue
		}
		analysis.RecentFeedback++
		t, ok := tallies[e.PatternType]
		if !ok {
			t = &tally{}
			tallies[e.PatternType] = t
		}
		t.rating += e.Rating
		t.count++
		if e.Accepted {
			t.accepted++
		}
	}
	for pattern, t := range tallies {
		analysis.FeedbackByPattern[pattern] = PatternFeedback{
			AverageRating:  math.Round(float64(t.rating)/float64(t.count)*100) / 100,
			Total:          t.count,
			AcceptanceRate: math.Round(float64(t.accepted)/float64(t.count)*1000) / 1000,
		}
	}

	analysis.LearningQuality = learningQuality(len(prefs), highConfidence)
	return analysis
}

func learningQuality(total, highConfidence int) string {
	if total == 0 {
		return "No learning data available"
	}
	ratio := float64(highConfidence) / float64(total)
	switch {
	case ratio > 0.7:
		return "High quality - confident in most preferences"
	case ratio > 0.4:
		return "Moderate quality - learning user patterns"
	default:
		return "Low quality - need more user interaction data"
	}
}
