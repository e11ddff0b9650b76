package transform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/patchline/passforge/internal/model"
)

// Summarize derives a transformation summary purely by comparing the
// before and after strings. Because it never sees mutation intent, it can
// mis-attribute coincidental character overlaps; that approximation is
// part of the contract.
func Summarize(original, transformed string) model.TransformationSummary {
	origRunes := []rune(original)
	transRunes := []rune(transformed)

	summary := model.TransformationSummary{
		LengthChange: len(transRunes) - len(origRunes),
		CharsAdded:   len(setDifference(transRunes, origRunes)),
		CharsRemoved: len(setDifference(origRunes, transRunes)),
	}

	for i, r := range origRunes {
		if i >= len(transRunes) || r == transRunes[i] {
			continue
		}
		if swapCase(r) == transRunes[i] {
			summary.CaseChanges++
		} else {
			summary.Substitutions++
		}
	}

	return summary
}

// DescribeChanges renders a human-readable diff of the transformation for
// CLI output.
func DescribeChanges(original, transformed string) []string {
	if original == transformed {
		return []string{"No changes applied"}
	}

	var changes []string

	if len(transformed) > len(original) {
		changes = append(changes, fmt.Sprintf("Length increased: %d → %d", len(original), len(transformed)))
	}

	pairs := []struct {
		from string
		to   rune
	}{
		{"a", '@'}, {"e", '3'}, {"i", '1'}, {"o", '0'}, {"s", '$'},
	}
	var subs []string
	lowerOrig := strings.ToLower(original)
	for _, p := range pairs {
		if strings.Contains(lowerOrig, p.from) && strings.ContainsRune(transformed, p.to) {
			subs = append(subs, fmt.Sprintf("%s→%c", p.from, p.to))
		}
	}
	if len(subs) > 0 {
		changes = append(changes, "Character substitutions: "+strings.Join(subs, ", "))
	}

	if !hasUppercase(original) && hasUppercase(transformed) {
		changes = append(changes, "Added uppercase letters")
	}

	if added := countDigits(transformed) - countDigits(original); added > 0 {
		changes = append(changes, fmt.Sprintf("Added %d digits", added))
	}

	if added := countSpecials(transformed) - countSpecials(original); added > 0 {
		changes = append(changes, fmt.Sprintf("Added %d special characters", added))
	}

	if len(changes) == 0 {
		changes = []string{"No changes applied"}
	}
	return changes
}

// setDifference returns the distinct runes present in a but not in b.
func setDifference(a, b []rune) []rune {
	inB := make(map[rune]struct{}, len(b))
	for _, r := range b {
		inB[r] = struct{}{}
	}
	seen := make(map[rune]struct{}, len(a))
	var out []rune
	for _, r := range a {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := inB[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func swapCase(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	default:
		return r
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func countSpecials(s string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune("!@#$%^&*(),.?\":{}|<>_+=-[]\\;'/~`", r) {
			n++
		}
	}
	return n
}
