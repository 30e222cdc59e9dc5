package config

import (
	"errors"
	"fmt"
)

// Validation failure kinds. ErrSnapshotInvalid covers malformed values;
// ErrSnapshotInconsistent covers cross-structure mismatches (non-monotonic
// bands, label sets that disagree). Both reject the snapshot before it can
// become active.
var (
	ErrSnapshotInvalid      = errors.New("snapshot invalid")
	ErrSnapshotInconsistent = errors.New("snapshot internally inconsistent")
)

// ValidationError reports why a snapshot was rejected.
type ValidationError struct {
	Field  string
	Reason string
	kind   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.kind, e.Field, e.Reason)
}

// Unwrap exposes the failure kind for errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return e.kind
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...), kind: ErrSnapshotInvalid}
}

func inconsistentf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...), kind: ErrSnapshotInconsistent}
}

// Known provider names. The provider set is a closed enumeration; snapshots
// naming anything else are rejected.
var knownProviders = map[string]bool{
	"sentiment": true,
	"emotion":   true,
	"topic":     true,
}

// Validate checks the snapshot completely. It returns nil only when every
// structure is well formed and mutually consistent; a snapshot must never
// become active otherwise.
func (s *Snapshot) Validate() error {
	if s.Version == "" {
		return invalidf("version", "must not be empty")
	}
	if s.SaturationFactor <= 1.0 {
		return invalidf("saturation_factor", "must be greater than 1.0, got %v", s.SaturationFactor)
	}
	if s.ZeroSignalFloor < 0 || s.ZeroSignalFloor > 1 {
		return invalidf("zero_signal_floor", "must be in [0,1], got %v", s.ZeroSignalFloor)
	}

	if err := validateAxis("urgency", &s.Urgency); err != nil {
		return err
	}
	if err := validateAxis("department", &s.Department); err != nil {
		return err
	}
	if err := s.validateStructural(); err != nil {
		return err
	}
	if err := s.validateProviders(); err != nil {
		return err
	}
	return s.validateEscalation()
}

func validateAxis(name string, axis *AxisConfig) error {
	if len(axis.Bands) == 0 {
		return invalidf(name+".bands", "at least one band required")
	}
	if axis.PatternCoefficient < 0 {
		return invalidf(name+".pattern_coefficient", "must not be negative, got %v", axis.PatternCoefficient)
	}

	seen := make(map[string]bool, len(axis.Bands))
	for i, b := range axis.Bands {
		field := fmt.Sprintf("%s.bands[%d]", name, i)
		if b.Label == "" {
			return invalidf(field, "label must not be empty")
		}
		if seen[b.Label] {
			return inconsistentf(field, "duplicate label %q", b.Label)
		}
		seen[b.Label] = true

		if b.Threshold < 0 {
			return invalidf(field, "threshold must not be negative, got %v", b.Threshold)
		}
		if b.MinConfidence < 0 || b.MaxConfidence > 1 || b.MinConfidence > b.MaxConfidence {
			return invalidf(field, "confidence range [%v,%v] must satisfy 0 <= min <= max <= 1",
				b.MinConfidence, b.MaxConfidence)
		}
		if i > 0 && b.Threshold >= axis.Bands[i-1].Threshold {
			return inconsistentf(field, "thresholds must strictly decrease: %v is not below %v",
				b.Threshold, axis.Bands[i-1].Threshold)
		}
	}

	for label, patterns := range axis.Patterns {
		field := name + ".patterns." + label
		if !seen[label] {
			return inconsistentf(field, "label has patterns but no band")
		}
		for i, p := range patterns {
			if p.Keyword == "" {
				return invalidf(fmt.Sprintf("%s[%d]", field, i), "keyword must not be empty")
			}
			if p.Weight <= 0 {
				return invalidf(fmt.Sprintf("%s[%d]", field, i), "weight must be positive, got %v", p.Weight)
			}
		}
	}
	for _, b := range axis.Bands {
		if _, ok := axis.Patterns[b.Label]; !ok {
			return inconsistentf(name+".patterns", "band %q has no pattern list (use an empty list for none)", b.Label)
		}
	}
	return nil
}

func (s *Snapshot) validateStructural() error {
	st := &s.Structural
	if st.CapsRatioThreshold < 0 || st.CapsRatioThreshold > 1 {
		return invalidf("structural.caps_ratio_threshold", "must be in [0,1], got %v", st.CapsRatioThreshold)
	}
	if st.CapsWeight < 0 || st.ExclamationWeight < 0 || st.SenderWeight < 0 {
		return invalidf("structural", "weights must not be negative")
	}
	if st.ExclamationCap < 0 {
		return invalidf("structural.exclamation_cap", "must not be negative, got %d", st.ExclamationCap)
	}
	if st.CapsWeight > 0 {
		if _, ok := s.Urgency.Band(st.CapsTarget); !ok {
			return inconsistentf("structural.caps_target", "%q is not an urgency band label", st.CapsTarget)
		}
	}
	if st.ExclamationWeight > 0 {
		if _, ok := s.Urgency.Band(st.ExclamationTarget); !ok {
			return inconsistentf("structural.exclamation_target", "%q is not an urgency band label", st.ExclamationTarget)
		}
	}
	for hint, label := range st.SenderHints {
		if hint == "" {
			return invalidf("structural.sender_hints", "hint substring must not be empty")
		}
		if _, ok := s.Department.Band(label); !ok {
			return inconsistentf("structural.sender_hints."+hint, "%q is not a department band label", label)
		}
	}
	return nil
}

func (s *Snapshot) validateProviders() error {
	for name, ps := range s.Providers {
		field := "providers." + name
		if !knownProviders[name] {
			return invalidf(field, "unknown provider")
		}
		if ps.MinScore < 0 || ps.MinScore > 1 {
			return invalidf(field+".min_score", "must be in [0,1], got %v", ps.MinScore)
		}
		for i, r := range ps.Routes {
			rf := fmt.Sprintf("%s.routes[%d]", field, i)
			if r.From == "" {
				return invalidf(rf, "from label must not be empty")
			}
			if r.Coefficient < 0 {
				return invalidf(rf, "coefficient must not be negative, got %v", r.Coefficient)
			}
			axis := s.Axis(r.Axis)
			if axis == nil {
				return invalidf(rf, "unknown axis %q", r.Axis)
			}
			if _, ok := axis.Band(r.To); !ok {
				return inconsistentf(rf, "%q is not a %s band label", r.To, r.Axis)
			}
		}
	}
	return nil
}

func (s *Snapshot) validateEscalation() error {
	for i, rule := range s.Escalation {
		field := fmt.Sprintf("escalation[%d]", i)
		if rule.Name == "" {
			return invalidf(field+".name", "must not be empty")
		}
		if rule.WhenUrgency != "" {
			if _, ok := s.Urgency.Band(rule.WhenUrgency); !ok {
				return inconsistentf(field+".when_urgency", "%q is not an urgency band label", rule.WhenUrgency)
			}
		}
		if rule.WhenDepartment != "" {
			if _, ok := s.Department.Band(rule.WhenDepartment); !ok {
				return inconsistentf(field+".when_department", "%q is not a department band label", rule.WhenDepartment)
			}
		}
		if _, ok := s.Urgency.Band(rule.ThenUrgency); !ok {
			return inconsistentf(field+".then_urgency", "%q is not an urgency band label", rule.ThenUrgency)
		}
		if rule.ConfidenceBonus < 0 || rule.ConfidenceBonus > 1 {
			return invalidf(field+".confidence_bonus", "must be in [0,1], got %v", rule.ConfidenceBonus)
		}
		for j, kw := range rule.TextAny {
			if kw == "" {
				return invalidf(fmt.Sprintf("%s.text_any[%d]", field, j), "keyword must not be empty")
			}
		}
	}
	return nil
}
