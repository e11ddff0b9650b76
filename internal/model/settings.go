package model

// Intensity controls how many and how forceful the applied mutations are.
type Intensity string

// Intensity constants, gentlest to most forceful.
const (
	IntensityConservative Intensity = "conservative"
	IntensityModerate     Intensity = "moderate"
	IntensityAggressive   Intensity = "aggressive"
)

// Valid reports whether the intensity is one of the recognized values.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityConservative, IntensityModerate, IntensityAggressive:
		return true
	}
	return false
}

// Bump returns the next more forceful intensity, saturating at aggressive.
func (i Intensity) Bump() Intensity {
	switch i {
	case IntensityConservative:
		return IntensityModerate
	case IntensityModerate:
		return IntensityAggressive
	default:
		return IntensityAggressive
	}
}

// Recognized boolean setting names, used as keys in flat settings maps and
// as preference keys in the behavior store.
const (
	SettingCharacterSubstitution = "character_substitution"
	SettingAddYear               = "add_year"
	SettingIntelligentPatterns   = "intelligent_patterns"
	SettingPreserveStrong        = "preserve_strong"
	SettingIncrementNumbers      = "increment_numbers"
	SettingIntensity             = "intensity"
)

// BooleanSettingNames lists the recognized boolean toggles in a stable order.
var BooleanSettingNames = []string{
	SettingCharacterSubstitution,
	SettingAddYear,
	SettingIntelligentPatterns,
	SettingPreserveStrong,
	SettingIncrementNumbers,
}

// Settings is the validated transformation configuration. Missing keys
// default to true (and moderate intensity); unknown keys are ignored.
type Settings struct {
	Intensity             Intensity `json:"intensity"`
	CharacterSubstitution bool      `json:"character_substitution"`
	AddYear               bool      `json:"add_year"`
	IntelligentPatterns   bool      `json:"intelligent_patterns"`
	PreserveStrong        bool      `json:"preserve_strong"`
	IncrementNumbers      bool      `json:"increment_numbers"`
}

// DefaultSettings returns the documented defaults: every toggle on,
// moderate intensity.
func DefaultSettings() Settings {
	return Settings{
		Intensity:             IntensityModerate,
		CharacterSubstitution: true,
		AddYear:               true,
		IntelligentPatterns:   true,
		PreserveStrong:        true,
		IncrementNumbers:      true,
	}
}

// ParseSettings builds Settings from a flat map. Recognized boolean keys
// must hold bools and the intensity key must hold a recognized string;
// values of the wrong type and unknown keys are ignored deterministically.
func ParseSettings(raw map[string]any) Settings {
	s := DefaultSettings()
	if raw == nil {
		return s
	}

	if v, ok := raw[SettingCharacterSubstitution].(bool); ok {
		s.CharacterSubstitution = v
	}
	if v, ok := raw[SettingAddYear].(bool); ok {
		s.AddYear = v
	}
	if v, ok := raw[SettingIntelligentPatterns].(bool); ok {
		s.IntelligentPatterns = v
	}
	if v, ok := raw[SettingPreserveStrong].(bool); ok {
		s.PreserveStrong = v
	}
	if v, ok := raw[SettingIncrementNumbers].(bool); ok {
		s.IncrementNumbers = v
	}
	if v, ok := raw[SettingIntensity].(string); ok && Intensity(v).Valid() {
		s.Intensity = Intensity(v)
	}

	return s
}

// BoolSetting returns the named boolean toggle. Unknown names report false.
func (s Settings) BoolSetting(name string) (value, ok bool) {
	switch name {
	case SettingCharacterSubstitution:
		return s.CharacterSubstitution, true
	case SettingAddYear:
		return s.AddYear, true
	case SettingIntelligentPatterns:
		return s.IntelligentPatterns, true
	case SettingPreserveStrong:
		return s.PreserveStrong, true
	case SettingIncrementNumbers:
		return s.IncrementNumbers, true
	}
	return false, false
}

// SetBool sets the named boolean toggle, ignoring unknown names.
func (s *Settings) SetBool(name string, value bool) {
	switch name {
	case SettingCharacterSubstitution:
		s.CharacterSubstitution = value
	case SettingAddYear:
		s.AddYear = value
	case SettingIntelligentPatterns:
		s.IntelligentPatterns = value
	case SettingPreserveStrong:
		s.PreserveStrong = value
	case SettingIncrementNumbers:
		s.IncrementNumbers = value
	}
}

// ToMap flattens the settings into the flat map wire shape.
func (s Settings) ToMap() map[string]any {
	return map[string]any{
		SettingCharacterSubstitution: s.CharacterSubstitution,
		SettingAddYear:               s.AddYear,
		SettingIntelligentPatterns:   s.IntelligentPatterns,
		SettingPreserveStrong:        s.PreserveStrong,
		SettingIncrementNumbers:      s.IncrementNumbers,
		SettingIntensity:             string(s.Intensity),
	}
}
