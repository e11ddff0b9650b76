package recommend

import (
	"fmt"
	"strings"

	"github.com/patchline/passforge/internal/model"
)

// contextConfidence is the fixed confidence contributed by the context
// source, present even when no adjustment fires.
const contextConfidence = 0.7

// domainProfile captures the static prior for a class of email domains.
type domainProfile struct {
	commonPatterns []model.PatternType
	conservative   bool
}

// Consumer webmail providers get a conservative profile; educational and
// corporate suffixes bias toward intelligent-pattern rewriting.
var domainProfiles = map[string]domainProfile{
	"gmail.com":   {conservative: true, commonPatterns: []model.PatternType{model.PatternWordWithNumbers}},
	"yahoo.com":   {conservative: true, commonPatterns: []model.PatternType{model.PatternAlphabetic, model.PatternWordWithNumbers}},
	"hotmail.com": {conservative: true, commonPatterns: []model.PatternType{model.PatternWordWithNumbers}},
	"outlook.com": {conservative: true, commonPatterns: []model.PatternType{model.PatternMixed}},
}

var (
	eduProfile  = domainProfile{commonPatterns: []model.PatternType{model.PatternWordWithNumbers, model.PatternMixed}}
	corpProfile = domainProfile{commonPatterns: []model.PatternType{model.PatternMixed, model.PatternAlphabetic}}
)

// adjustmentSet is the contextual overlay: explicit setting overrides with
// their reasoning and a fixed source confidence.
type adjustmentSet struct {
	overrides  map[string]bool
	reasoning  []string
	confidence float64
}

// contextAdjustments derives setting overrides from the email domain and
// the request context flags.
func contextAdjustments(email string, report model.StrengthReport, reqCtx RequestContext) adjustmentSet {
	adj := adjustmentSet{
		overrides:  make(map[string]bool),
		confidence: contextConfidence,
	}

	domain := emailDomain(email)
	if profile, ok := profileForDomain(domain); ok {
		if profile.conservative {
			strong := report.StrengthLevel == model.LevelStrong || report.StrengthLevel == model.LevelVeryStrong
			adj.overrides[model.SettingPreserveStrong] = true
			adj.overrides[model.SettingCharacterSubstitution] = !strong
			adj.reasoning = append(adj.reasoning, fmt.Sprintf("Conservative approach recommended for %s", domain))
		}
		for _, pattern := range profile.commonPatterns {
			if report.PatternType == pattern {
				adj.overrides[model.SettingIntelligentPatterns] = true
				adj.reasoning = append(adj.reasoning, fmt.Sprintf("Pattern %q is common for %s", report.PatternType, domain))
				break
			}
		}
	}

	if reqCtx.HighSecurity {
		adj.overrides[model.SettingCharacterSubstitution] = true
		adj.overrides[model.SettingAddYear] = true
		adj.overrides[model.SettingIntelligentPatterns] = true
		adj.reasoning = append(adj.reasoning, "High security context detected")
	}
	if reqCtx.BatchProcessing {
		adj.overrides[model.SettingPreserveStrong] = true
		adj.reasoning = append(adj.reasoning, "Batch processing mode - being conservative")
	}

	return adj
}

// profileForDomain resolves the domain against known providers, then
// educational and corporate suffixes, then provider substrings.
func profileForDomain(domain string) (domainProfile, bool) {
	if domain == "" {
		return domainProfile{}, false
	}
	if profile, ok := domainProfiles[domain]; ok {
		return profile, true
	}
	for _, marker := range []string{".edu", "university", "college"} {
		if strings.Contains(domain, marker) {
			return eduProfile, true
		}
	}
	for _, marker := range []string{"corp", "company", ".org"} {
		if strings.Contains(domain, marker) {
			return corpProfile, true
		}
	}
	for provider, profile := range domainProfiles {
		if strings.Contains(domain, provider) {
			return profile, true
		}
	}
	return domainProfile{}, false
}

// emailDomain extracts the lowercased domain part, or "" when the input is
// not an address.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
