package learn

import (
	"math"

	"github.com/patchline/passforge/internal/model"
)

// FeatureDim is the fixed dimension of extracted feature vectors.
const FeatureDim = 23

// ExtractFeatures encodes a strength report as a fixed-width numeric vector
// for similarity lookups and clustering: nine scalar measurements, nine
// binary weakness flags, and a partial one-hot of the pattern type.
func ExtractFeatures(report model.StrengthReport) model.FeatureVector {
	return model.FeatureVector{
		float64(report.Length),
		float64(report.DigitCount),
		float64(report.UppercaseCount),
		float64(report.LowercaseCount),
		float64(report.SpecialCount),
		report.Entropy,
		report.Diversity,
		report.ComplexityScore,
		report.StrengthScore,
		boolFeature(report.HasDigits),
		boolFeature(report.HasUppercase),
		boolFeature(report.HasLowercase),
		boolFeature(report.HasSpecial),
		boolFeature(report.IsCommon),
		boolFeature(report.HasKeyboardRun),
		boolFeature(report.HasRepeatedChars),
		boolFeature(report.HasSequential),
		boolFeature(report.HasDictionaryWord),
		boolFeature(report.PatternType == model.PatternNumeric),
		boolFeature(report.PatternType == model.PatternAlphabetic),
		boolFeature(report.PatternType == model.PatternWordWithNumbers),
		boolFeature(report.PatternType == model.PatternMixed),
		boolFeature(report.PatternType == model.PatternCommon),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// cosineSimilarity returns the cosine of the angle between two vectors, or
// 0 when either vector has zero magnitude or the dimensions disagree.
func cosineSimilarity(a, b model.FeatureVector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
