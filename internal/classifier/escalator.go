package classifier

import "github.com/jonesrussell/mail-triage/internal/config"

// Escalator applies the snapshot's cross-axis escalation rules to a
// resolved (urgency, department) pair. Rules run in configuration order
// against the pair as it evolves, and only ever upgrade urgency, so
// applying the Escalator to its own output changes nothing.
type Escalator struct {
	axis  *config.AxisConfig
	rules []compiledRule
}

type compiledRule struct {
	rule     config.EscalationRule
	keywords [][]string // tokenized TextAny entries
}

// NewEscalator compiles the snapshot's escalation rules.
func NewEscalator(snap *config.Snapshot) *Escalator {
	e := &Escalator{axis: &snap.Urgency}
	for _, r := range snap.Escalation {
		cr := compiledRule{rule: r}
		for _, kw := range r.TextAny {
			if toks := Tokenize(kw); len(toks) > 0 {
				cr.keywords = append(cr.keywords, toks)
			}
		}
		e.rules = append(e.rules, cr)
	}
	return e
}

// Apply evaluates every rule in order and returns the (possibly upgraded)
// urgency resolution plus the names of the rules that fired.
func (e *Escalator) Apply(urgency, department Resolution, tokens []string) (Resolution, []string) {
	var fired []string
	for _, cr := range e.rules {
		r := cr.rule
		if r.WhenUrgency != "" && r.WhenUrgency != urgency.Label {
			continue
		}
		if r.WhenDepartment != "" && r.WhenDepartment != department.Label {
			continue
		}
		// Upgrades only: the target must outrank the current label.
		if e.axis.Priority(r.ThenUrgency) >= e.axis.Priority(urgency.Label) {
			continue
		}
		if len(r.TextAny) > 0 && !anyOccurrence(tokens, cr.keywords) {
			continue
		}

		urgency.Label = r.ThenUrgency
		urgency.Confidence = clamp01(urgency.Confidence + r.ConfidenceBonus)
		urgency.ZeroSignal = false
		fired = append(fired, r.Name)
	}
	return urgency, fired
}

func anyOccurrence(tokens []string, patterns [][]string) bool {
	for _, p := range patterns {
		if hasOccurrence(tokens, p) {
			return true
		}
	}
	return false
}
