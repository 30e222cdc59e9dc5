package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is one immutable, fully-validated classification configuration.
// A Snapshot is never mutated after activation; reloads build a fresh one
// and swap the active pointer in the Store. In-flight classifications keep
// whichever snapshot reference they captured at start.
type Snapshot struct {
	// Version identifies the snapshot in results and reload diffs.
	Version string `yaml:"version"`

	// SaturationFactor stretches the confidence ramp of each axis's top
	// band, which has no higher band to borrow a ceiling from. The ramp
	// runs from the band threshold to threshold*SaturationFactor.
	SaturationFactor float64 `yaml:"saturation_factor"`

	// ZeroSignalFloor is the confidence reported when an axis has no
	// signal at all and falls through to its lowest-priority label.
	ZeroSignalFloor float64 `yaml:"zero_signal_floor"`

	Urgency    AxisConfig       `yaml:"urgency"`
	Department AxisConfig       `yaml:"department"`
	Structural StructuralConfig `yaml:"structural"`

	// Providers maps provider name ("sentiment", "emotion", "topic") to
	// its decision-level settings. Providers absent from the map are
	// treated as disabled.
	Providers map[string]ProviderSettings `yaml:"providers"`

	// Escalation rules are evaluated in order against the resolved
	// (urgency, department) pair.
	Escalation []EscalationRule `yaml:"escalation"`
}

// AxisConfig holds the scoring configuration for one classification axis.
type AxisConfig struct {
	// PatternCoefficient scales the accumulated pattern weights before
	// they enter the axis score vector.
	PatternCoefficient float64 `yaml:"pattern_coefficient"`

	// Bands in descending priority order. The first band whose label wins
	// the score vector decides the axis; band order also breaks score
	// ties. Thresholds must strictly decrease down the list.
	Bands []Band `yaml:"bands"`

	// Patterns maps each band label to its weighted keyword list.
	// The label sets of Patterns and Bands must match exactly.
	Patterns map[string][]Pattern `yaml:"patterns"`
}

// Band describes one (label, threshold) step of an axis.
type Band struct {
	Label     string  `yaml:"label"`
	Threshold float64 `yaml:"threshold"`
	// MinConfidence is reported when the winning score sits exactly at
	// Threshold; MaxConfidence when it reaches the next band's threshold
	// (or Threshold*SaturationFactor for the top band).
	MinConfidence float64 `yaml:"min_confidence"`
	MaxConfidence float64 `yaml:"max_confidence"`
}

// Pattern is one weighted keyword or phrase. Matching is case-insensitive
// and diacritic-insensitive on word boundaries; every occurrence adds Weight
// to the owning label's accumulated pattern weight.
type Pattern struct {
	Keyword string  `yaml:"keyword"`
	Weight  float64 `yaml:"weight"`
}

// StructuralConfig holds the non-keyword feature weights.
type StructuralConfig struct {
	// CapsRatioThreshold is the minimum ratio of uppercase letters for
	// the caps term to fire. Zero disables the feature.
	CapsRatioThreshold float64 `yaml:"caps_ratio_threshold"`
	// CapsTarget is the urgency label that receives CapsWeight.
	CapsTarget string  `yaml:"caps_target"`
	CapsWeight float64 `yaml:"caps_weight"`

	// ExclamationTarget receives ExclamationWeight per exclamation mark,
	// counting at most ExclamationCap marks.
	ExclamationTarget string  `yaml:"exclamation_target"`
	ExclamationWeight float64 `yaml:"exclamation_weight"`
	ExclamationCap    int     `yaml:"exclamation_cap"`

	// SenderHints maps a sender substring (e.g. "billing@") to the
	// department label that receives SenderWeight when it matches.
	SenderHints  map[string]string `yaml:"sender_hints"`
	SenderWeight float64           `yaml:"sender_weight"`
}

// ProviderSettings holds the decision-level settings for one signal provider.
type ProviderSettings struct {
	Enabled bool `yaml:"enabled"`

	// MinScore gates provider output: labels scoring below it contribute
	// nothing.
	MinScore float64 `yaml:"min_score"`

	// CandidateLabels are passed to providers that classify against an
	// open label set (the topic provider). Ignored by fixed-label
	// providers.
	CandidateLabels []string `yaml:"candidate_labels,omitempty"`

	// Routes translate provider output labels into axis score
	// contributions.
	Routes []ProviderRoute `yaml:"routes"`
}

// ProviderRoute maps one provider output label onto one axis label.
// contribution = provider_score * Coefficient, added to (Axis, To).
type ProviderRoute struct {
	From        string  `yaml:"from"`
	Axis        string  `yaml:"axis"` // "urgency" or "department"
	To          string  `yaml:"to"`
	Coefficient float64 `yaml:"coefficient"`
}

// EscalationRule is one data-driven cross-axis escalation.
// A rule fires when the resolved pair matches the When* conditions, any
// TextAny keyword occurs in the email text, and ThenUrgency is strictly
// higher priority than the current urgency. Firing never downgrades, so
// re-running the rule set on its own output is a no-op.
type EscalationRule struct {
	Name string `yaml:"name"`

	// WhenDepartment and WhenUrgency match the resolved pair; an empty
	// value matches any label.
	WhenDepartment string `yaml:"when_department"`
	WhenUrgency    string `yaml:"when_urgency"`

	// TextAny fires the rule if any keyword occurs in the email text
	// (word-boundary match). An empty list matches unconditionally.
	TextAny []string `yaml:"text_any"`

	ThenUrgency     string  `yaml:"then_urgency"`
	ConfidenceBonus float64 `yaml:"confidence_bonus"`
}

// LoadSnapshot reads and parses a snapshot document from path.
// The result is parsed only; callers validate before activating it.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file %s: %w", path, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// Band returns the band carrying label, if any.
func (a *AxisConfig) Band(label string) (Band, bool) {
	for _, b := range a.Bands {
		if b.Label == label {
			return b, true
		}
	}
	return Band{}, false
}

// Priority returns the band index of label; smaller is higher priority.
// Unknown labels sort after every band.
func (a *AxisConfig) Priority(label string) int {
	for i, b := range a.Bands {
		if b.Label == label {
			return i
		}
	}
	return len(a.Bands)
}

// Lowest returns the lowest-priority band. Axes are validated non-empty
// before activation, so the fallback zero Band is never seen in practice.
func (a *AxisConfig) Lowest() Band {
	if len(a.Bands) == 0 {
		return Band{}
	}
	return a.Bands[len(a.Bands)-1]
}

// Axis returns the named axis config, or nil for an unknown axis name.
func (s *Snapshot) Axis(name string) *AxisConfig {
	switch name {
	case "urgency":
		return &s.Urgency
	case "department":
		return &s.Department
	default:
		return nil
	}
}
