package config

// DefaultSnapshotVersion identifies the built-in snapshot.
const DefaultSnapshotVersion = "builtin-v1"

// Snapshot-wide scalar defaults.
const (
	defaultSaturationFactor = 2.0
	defaultZeroSignalFloor  = 0.25
)

// Keyword weights. Urgency weights step down with the band; department
// keywords use a core/secondary split.
const (
	weightUrgencyCritical = 3.0
	weightUrgencyHigh     = 2.0
	weightUrgencyMedium   = 1.0
	weightUrgencyLow      = 0.5
	weightDeptCore        = 3.0
	weightDeptSecondary   = 1.5
)

// Structural feature defaults.
const (
	defaultCapsRatioThreshold = 0.3
	defaultCapsWeight         = 3.0
	defaultExclamationWeight  = 0.8
	defaultExclamationCap     = 3
	defaultSenderWeight       = 1.5
)

// Urgency band thresholds and confidence ranges. Ranges stack (each band's
// max meets the next band's min) so confidence grows with score across the
// whole axis, not just within one band.
const (
	thresholdCritical = 4.0
	thresholdHigh     = 2.0
	thresholdMedium   = 1.0
)

// Default escalation tuning.
const defaultEscalationBonus = 0.1

// Provider gate defaults.
const (
	defaultSentimentMinScore = 0.7
	defaultEmotionMinScore   = 0.5
	defaultTopicMinScore     = 0.3
)

// DefaultSnapshot returns the built-in classification configuration.
// Every call returns a fresh value, so an activated snapshot can never be
// mutated through a shared default.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Version:          DefaultSnapshotVersion,
		SaturationFactor: defaultSaturationFactor,
		ZeroSignalFloor:  defaultZeroSignalFloor,
		Urgency:          defaultUrgencyAxis(),
		Department:       defaultDepartmentAxis(),
		Structural:       defaultStructural(),
		Providers:        defaultProviders(),
		Escalation:       defaultEscalation(),
	}
}

func defaultUrgencyAxis() AxisConfig {
	return AxisConfig{
		PatternCoefficient: 1.0,
		Bands: []Band{
			{Label: "critical", Threshold: thresholdCritical, MinConfidence: 0.85, MaxConfidence: 0.95},
			{Label: "high", Threshold: thresholdHigh, MinConfidence: 0.70, MaxConfidence: 0.85},
			{Label: "medium", Threshold: thresholdMedium, MinConfidence: 0.55, MaxConfidence: 0.70},
			{Label: "low", Threshold: 0, MinConfidence: 0.30, MaxConfidence: 0.55},
		},
		Patterns: map[string][]Pattern{
			// Critical keywords are compound phrases: single words like
			// "critical" or "down" alone are too noisy to jump straight
			// past the escalation path.
			"critical": weighted(weightUrgencyCritical,
				"production down", "server down", "database down", "site down",
				"system down", "data loss", "security breach", "data breach",
				"emergency",
			),
			"high": weighted(weightUrgencyHigh,
				"urgent", "asap", "immediately", "crashed", "broken",
				"not working", "failing", "cannot login", "demo",
				"interested in", "discrepancy", "charged twice",
			),
			"medium": weighted(weightUrgencyMedium,
				"question", "issue", "problem", "error", "help",
				"confused", "how do i", "not sure", "clarification",
			),
			"low": weighted(weightUrgencyLow,
				"thanks", "thank you", "great", "awesome", "appreciate",
				"feedback", "newsletter", "unsubscribe", "fyi", "no rush",
				"whenever",
			),
		},
	}
}

func defaultDepartmentAxis() AxisConfig {
	return AxisConfig{
		PatternCoefficient: 1.0,
		Bands: []Band{
			{Label: "technical", Threshold: 3.0, MinConfidence: 0.60, MaxConfidence: 0.95},
			{Label: "billing", Threshold: 2.5, MinConfidence: 0.60, MaxConfidence: 0.95},
			{Label: "sales", Threshold: 2.0, MinConfidence: 0.60, MaxConfidence: 0.95},
			{Label: "support", Threshold: 0.5, MinConfidence: 0.60, MaxConfidence: 0.95},
		},
		Patterns: map[string][]Pattern{
			"technical": append(
				weighted(weightDeptCore,
					"bug", "crash", "crashed", "error", "server", "database",
					"api", "production", "stack trace", "exception",
				),
				weighted(weightDeptSecondary,
					"deploy", "deployment", "integration", "login", "password",
					"ssl", "timeout", "down", "not working",
				)...,
			),
			"billing": append(
				weighted(weightDeptCore,
					"invoice", "payment", "refund", "charge", "charged",
					"charged twice", "billing", "receipt", "discrepancy",
					"credit card", "overcharged",
				),
				weighted(weightDeptSecondary, "subscription", "price", "cost")...,
			),
			"sales": append(
				weighted(weightDeptCore,
					"demo", "interested in", "pricing", "quote", "purchase",
					"buy", "trial", "partnership",
				),
				weighted(weightDeptSecondary, "upgrade", "plan", "enterprise", "evaluate")...,
			),
			"support": weighted(weightDeptSecondary,
				"help", "question", "how to", "how do i", "account",
				"access", "guidance", "documentation", "tutorial", "assistance",
			),
		},
	}
}

func defaultStructural() StructuralConfig {
	return StructuralConfig{
		CapsRatioThreshold: defaultCapsRatioThreshold,
		CapsTarget:         "high",
		CapsWeight:         defaultCapsWeight,
		ExclamationTarget:  "high",
		ExclamationWeight:  defaultExclamationWeight,
		ExclamationCap:     defaultExclamationCap,
		SenderHints: map[string]string{
			"support@":     "support",
			"help@":        "support",
			"billing@":     "billing",
			"finance@":     "billing",
			"accounts@":    "billing",
			"invoice@":     "billing",
			"sales@":       "sales",
			"ops@":         "technical",
			"it@":          "technical",
			"dev@":         "technical",
			"engineering@": "technical",
		},
		SenderWeight: defaultSenderWeight,
	}
}

func defaultProviders() map[string]ProviderSettings {
	return map[string]ProviderSettings{
		"sentiment": {
			Enabled:  true,
			MinScore: defaultSentimentMinScore,
			Routes: []ProviderRoute{
				{From: "negative", Axis: "urgency", To: "high", Coefficient: 2.0},
				{From: "positive", Axis: "urgency", To: "low", Coefficient: 1.0},
			},
		},
		"emotion": {
			Enabled:  true,
			MinScore: defaultEmotionMinScore,
			Routes: []ProviderRoute{
				{From: "anger", Axis: "urgency", To: "high", Coefficient: 1.2},
				{From: "fear", Axis: "urgency", To: "high", Coefficient: 1.0},
				{From: "joy", Axis: "urgency", To: "low", Coefficient: 1.0},
			},
		},
		"topic": {
			Enabled:         true,
			MinScore:        defaultTopicMinScore,
			CandidateLabels: []string{"technical issue", "billing question", "sales inquiry", "general support"},
			Routes: []ProviderRoute{
				{From: "technical issue", Axis: "department", To: "technical", Coefficient: 2.0},
				{From: "billing question", Axis: "department", To: "billing", Coefficient: 2.0},
				{From: "sales inquiry", Axis: "department", To: "sales", Coefficient: 2.0},
				{From: "general support", Axis: "department", To: "support", Coefficient: 2.0},
			},
		},
	}
}

func defaultEscalation() []EscalationRule {
	return []EscalationRule{
		{
			Name:            "technical-outage",
			WhenDepartment:  "technical",
			WhenUrgency:     "high",
			TextAny:         []string{"down", "crashed", "dead", "failed", "unavailable", "outage", "unreachable"},
			ThenUrgency:     "critical",
			ConfidenceBonus: defaultEscalationBonus,
		},
	}
}

// weighted builds a pattern list where every keyword carries the same weight.
func weighted(weight float64, keywords ...string) []Pattern {
	out := make([]Pattern, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, Pattern{Keyword: kw, Weight: weight})
	}
	return out
}
