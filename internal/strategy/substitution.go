package strategy

import (
	"unicode"

	"github.com/patchline/passforge/internal/model"
)

// ApplyCharacterSubstitution rewrites substitutable characters at an
// intensity-dependent rate: conservative allows at most one substitution,
// moderate up to length/4, aggressive up to length/2. Case is preserved
// per original character where the replacement is a letter.
func (l *Library) ApplyCharacterSubstitution(password string, intensity model.Intensity) string {
	runes := []rune(password)

	var maxSubs int
	var chance float64
	switch intensity {
	case model.IntensityConservative:
		maxSubs = 1
		chance = 0.3
	case model.IntensityModerate:
		maxSubs = len(runes) / 4
		chance = 0.5
	default:
		maxSubs = len(runes) / 2
		chance = 0.7
	}

	result := make([]rune, len(runes))
	count := 0
	for i, r := range runes {
		result[i] = r
		candidates, ok := substitutions[unicode.ToLower(r)]
		if !ok || count >= maxSubs {
			continue
		}
		if l.rng.Float64() >= chance {
			continue
		}
		sub := candidates[l.rng.Intn(len(candidates))]
		if unicode.IsUpper(r) && unicode.IsLetter(sub) {
			sub = unicode.ToUpper(sub)
		}
		result[i] = sub
		count++
	}

	return string(result)
}

// ApplySelectiveSubstitution substitutes at most two characters, keeping
// the rest of the password intact.
func (l *Library) ApplySelectiveSubstitution(password string) string {
	runes := []rune(password)

	var positions []int
	for i, r := range runes {
		if _, ok := substitutions[unicode.ToLower(r)]; ok {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return password
	}

	want := 2
	if len(positions) < want {
		want = len(positions)
	}
	l.rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	for _, pos := range positions[:want] {
		candidates := substitutions[unicode.ToLower(runes[pos])]
		sub := candidates[l.rng.Intn(len(candidates))]
		if unicode.IsUpper(runes[pos]) && unicode.IsLetter(sub) {
			sub = unicode.ToUpper(sub)
		}
		runes[pos] = sub
	}

	return string(runes)
}

// ApplyBasicSubstitution rewrites only the first occurrence of the first
// matching vowel or sibilant from the reduced table.
func (l *Library) ApplyBasicSubstitution(password string) string {
	runes := []rune(password)
	for _, bs := range basicSubstitutions {
		for i, r := range runes {
			if unicode.ToLower(r) == bs.from {
				runes[i] = bs.to
				return string(runes)
			}
		}
	}
	return password
}
