package strategy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// IncrementNumbers smart-increments every digit run in the password.
// Runs are rewritten right-to-left so earlier indexes never shift, and a
// run matched as a year always lands on the current year no matter how
// often the pass repeats. Leading zeros are preserved by re-padding to the
// original run width.
func (l *Library) IncrementNumbers(password string) string {
	matches := digitRun.FindAllStringIndex(password, -1)
	if matches == nil {
		return password
	}

	result := password
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		run := result[start:end]
		value, err := strconv.Atoi(run)
		if err != nil {
			continue // run longer than an int; leave it alone
		}

		next := l.smartIncrement(value)
		replacement := strconv.Itoa(next)
		if strings.HasPrefix(run, "0") && len(run) > 1 {
			replacement = fmt.Sprintf("%0*d", len(run), next)
		}
		result = result[:start] + replacement + result[end:]
	}

	return result
}

// smartIncrement picks the successor for one digit-run value:
// 0 becomes 1; year-like values snap to the current year; single digits
// advance with a 9-to-0 wrap; two-digit values advance with 99 jumping to
// 109; 123 becomes 124; numeric palindromes jump by 10; everything else
// advances by one.
func (l *Library) smartIncrement(value int) int {
	switch {
	case value == 0:
		return 1
	case value >= 1900 && value <= 2030:
		return l.CurrentYear()
	case value < 10:
		if value == 9 {
			return 0
		}
		return value + 1
	case value < 100:
		if value == 99 {
			return 109
		}
		return value + 1
	case value == 123:
		return 124
	case isPalindrome(value):
		return value + 10
	default:
		return value + 1
	}
}

func isPalindrome(value int) bool {
	s := strconv.Itoa(value)
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}

// LightIncrementNumbers advances only short digit runs (one or two digits)
// with values under 50, leaving years and long runs untouched.
func (l *Library) LightIncrementNumbers(password string) string {
	matches := digitRun.FindAllStringIndex(password, -1)
	if matches == nil {
		return password
	}

	result := password
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		if end-start > 2 {
			continue
		}
		value, err := strconv.Atoi(result[start:end])
		if err != nil || value >= 50 {
			continue
		}
		result = result[:start] + strconv.Itoa(value+1) + result[end:]
	}

	return result
}

var yearRun = regexp.MustCompile(`(19|20)\d{2}`)

// RefreshStaleYear replaces an embedded 4-digit year with the current year
// when it is more than maxAge years old. Returns the input unchanged when
// no year is present or the year is fresh.
func (l *Library) RefreshStaleYear(password string, maxAge int) string {
	match := yearRun.FindString(password)
	if match == "" {
		return password
	}
	year, _ := strconv.Atoi(match)
	if year >= l.CurrentYear()-maxAge {
		return password
	}
	return strings.Replace(password, match, strconv.Itoa(l.CurrentYear()), 1)
}

// HasFourDigitRun reports whether the password already embeds a run of
// four consecutive digits.
func HasFourDigitRun(password string) bool {
	count := 0
	for _, r := range password {
		if r >= '0' && r <= '9' {
			count++
			if count == 4 {
				return true
			}
		} else {
			count = 0
		}
	}
	return false
}
