package learn

import (
	"fmt"
	"math"
	"sort"

	"github.com/patchline/passforge/internal/model"
)

// SettingPerformance is the average success score observed for one
// setting=value combination.
type SettingPerformance struct {
	Setting      string  `json:"setting"`
	AverageScore float64 `json:"average_score"`
	Samples      int     `json:"samples"`
}

// Insights summarizes what the pattern store has learned so far.
type Insights struct {
	PatternDistribution map[model.PatternType]int `json:"pattern_distribution"`
	RatesByKey          map[string]float64        `json:"success_rates_by_pattern"`
	BestSettings        []SettingPerformance      `json:"best_performing_settings"`
	TotalRecords        int                       `json:"total_transformations"`
	PatternsLearned     int                       `json:"patterns_learned"`
	AverageImprovement  float64                   `json:"average_strength_improvement"`
	AverageSuccess      float64                   `json:"average_success_rate"`
	ClusterModelTrained bool                      `json:"cluster_model_trained"`
	Clusters            int                       `json:"clusters"`
}

// minSettingSamples is how many observations a setting=value combination
// needs before it appears in the best-performing list.
const minSettingSamples = 3

// Insights computes aggregate statistics over the retained history.
func (s *PatternStore) Insights() Insights {
	history, rates, clusters := s.snapshot()

	insights := Insights{
		PatternDistribution: make(map[model.PatternType]int),
		RatesByKey:          make(map[string]float64, len(rates)),
		TotalRecords:        len(history),
	}
	if clusters != nil {
		insights.ClusterModelTrained = true
		insights.Clusters = clusters.clusters()
	}
	if len(history) == 0 {
		return insights
	}

	var totalImprovement, totalSuccess float64
	settingScores := make(map[string][]float64)
	for _, r := range history {
		insights.PatternDistribution[r.PatternType]++
		totalImprovement += r.StrengthImprovement
		totalSuccess += r.SuccessScore

		for _, name := range model.BooleanSettingNames {
			value, _ := r.Settings.BoolSetting(name)
			key := fmt.Sprintf("%s=%t", name, value)
			settingScores[key] = append(settingScores[key], r.SuccessScore)
		}
		intensityKey := fmt.Sprintf("%s=%s", model.SettingIntensity, r.Settings.Intensity)
		settingScores[intensityKey] = append(settingScores[intensityKey], r.SuccessScore)
	}

	n := float64(len(history))
	insights.PatternsLearned = len(insights.PatternDistribution)
	insights.AverageImprovement = round(totalImprovement/n, 2)
	insights.AverageSuccess = round(totalSuccess/n, 3)

	for key, rate := range rates {
		insights.RatesByKey[key] = round(rate.Rate, 3)
	}

	for key, scores := range settingScores {
		if len(scores) < minSettingSamples {
			continue
		}
		var sum float64
		for _, score := range scores {
			sum += score
		}
		insights.BestSettings = append(insights.BestSettings, SettingPerformance{
			Setting:      key,
			AverageScore: round(sum/float64(len(scores)), 3),
			Samples:      len(scores),
		})
	}
	sort.Slice(insights.BestSettings, func(i, j int) bool {
		if insights.BestSettings[i].AverageScore != insights.BestSettings[j].AverageScore {
			return insights.BestSettings[i].AverageScore > insights.BestSettings[j].AverageScore
		}
		return insights.BestSettings[i].Setting < insights.BestSettings[j].Setting
	})
	if len(insights.BestSettings) > 5 {
		insights.BestSettings = insights.BestSettings[:5]
	}

	return insights
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
