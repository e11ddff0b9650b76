// Package strategy is the catalog of password mutation rules. Rules are
// deterministic or randomized string rewrites parametrized by intensity;
// the package holds no persistent state.
package strategy

import (
	"math/rand"
	"time"
)

// substitutions is the leet-speak table used by all substitution rules.
var substitutions = map[rune][]rune{
	'a': {'@', '4'},
	'e': {'3'},
	'i': {'1', '!'},
	'o': {'0'},
	's': {'$', '5'},
	'l': {'1'},
	't': {'7'},
	'g': {'9'},
	'b': {'6'},
	'z': {'2'},
}

// basicSubstitutions is the reduced table for the minimal-change rule.
// Checked in order; only the first match is rewritten.
var basicSubstitutions = []struct {
	from rune
	to   rune
}{
	{'a', '@'},
	{'e', '3'},
	{'i', '1'},
	{'o', '0'},
	{'s', '$'},
}

// commonRewrites maps well-known weak passwords to literal replacement
// candidates; one is chosen at random.
var commonRewrites = map[string][]string{
	"password": {"P@ssw0rd", "Passw0rd!", "P4ssw0rd"},
	"admin":    {"Adm1n", "@dmin", "Admin123"},
	"user":     {"Us3r", "User!", "U$er"},
	"qwerty":   {"Qw3rty", "Qwerty!", "QW3RTY"},
	"welcome":  {"W3lcome", "Welcome!", "W3lc0me!"},
	"hello":    {"H3llo", "Hello!", "H3ll0!"},
	"letmein":  {"L3tme1n", "LetMe1n!", "L3tm31n"},
}

// keyboardRewrites replaces recognized keyboard runs. Checked in order;
// the first run found anywhere in the password wins.
var keyboardRewrites = []struct {
	run         string
	replacement string
}{
	{"qwerty", "Qw3rty!"},
	{"asdf", "@sdf123"},
	{"zxcv", "Zxcv2024!"},
	{"1234", "Pass1234!"},
	{"12345", "Secure12345"},
}

// Library applies mutation rules. The random source is injectable so tests
// can pin outcomes; a nil source gets a time-seeded one.
type Library struct {
	rng *rand.Rand
	now func() time.Time
}

// NewLibrary creates a Library backed by the given random source.
func NewLibrary(rng *rand.Rand) *Library {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Library{rng: rng, now: time.Now}
}

// CurrentYear returns the calendar year used for year insertion/refresh.
func (l *Library) CurrentYear() int {
	return l.now().Year()
}

// RandIntn exposes the library's random source so callers compose their
// own randomized picks against the same injectable stream.
func (l *Library) RandIntn(n int) int {
	return l.rng.Intn(n)
}
