package transform

import (
	"testing"

	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		transformed string
		want        model.TransformationSummary
	}{
		{
			name:        "identical strings",
			original:    "same",
			transformed: "same",
			want:        model.TransformationSummary{},
		},
		{
			name:        "suffix growth",
			original:    "pass",
			transformed: "pass26!",
			want: model.TransformationSummary{
				LengthChange: 3,
				CharsAdded:   3, // 2, 6, !
			},
		},
		{
			name:        "case flip counted separately",
			original:    "apple",
			transformed: "Apple",
			want: model.TransformationSummary{
				CaseChanges:  1,
				CharsAdded:   1, // A
				CharsRemoved: 1, // a
			},
		},
		{
			name:        "substitution",
			original:    "sand",
			transformed: "s@nd",
			want: model.TransformationSummary{
				Substitutions: 1,
				CharsAdded:    1, // @
				CharsRemoved:  1, // a
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.original, tt.transformed))
		})
	}
}

func TestSummarize_MisattributesOverlaps(t *testing.T) {
	// The diff is purely positional; shifting a string by one character
	// reads as a pile of substitutions. Documented approximation.
	summary := Summarize("abcdef", "zabcdef")
	assert.Equal(t, 1, summary.LengthChange)
	assert.Greater(t, summary.Substitutions, 0)
}

func TestDescribeChanges(t *testing.T) {
	changes := DescribeChanges("sand", "S@nd26!")
	assert.Contains(t, changes, "Length increased: 4 → 7")
	assert.Contains(t, changes, "Character substitutions: a→@")
	assert.Contains(t, changes, "Added uppercase letters")
	assert.Contains(t, changes, "Added 2 digits")
	assert.Contains(t, changes, "Added 2 special characters")

	assert.Equal(t, []string{"No changes applied"}, DescribeChanges("same", "same"))
}
