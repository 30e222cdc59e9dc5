package classifier

import (
	"strings"
	"unicode"

	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/domain"
)

// ScoreVector maps axis labels to accumulated scores.
type ScoreVector map[string]float64

// newScoreVector prefills a vector with every band label of the axis so
// downstream code can index labels without existence checks.
func newScoreVector(axis *config.AxisConfig) ScoreVector {
	v := make(ScoreVector, len(axis.Bands))
	for _, b := range axis.Bands {
		v[b.Label] = 0
	}
	return v
}

// aggregate combines pattern weights, provider signals, and structural
// features into one score vector per axis:
//
//	score[label] = pattern_weight[label]*pattern_coefficient
//	             + sum(provider_score[from]*route_coefficient)
//	             + structural_term[label]
//
// A failed or disabled provider simply contributes nothing; aggregation
// itself never fails.
func aggregate(
	snap *config.Snapshot,
	email domain.EmailInput,
	patternUrgency, patternDepartment map[string]float64,
	signals []signalResult,
) (urgency, department ScoreVector) {
	urgency = newScoreVector(&snap.Urgency)
	department = newScoreVector(&snap.Department)

	for label, w := range patternUrgency {
		urgency[label] += w * snap.Urgency.PatternCoefficient
	}
	for label, w := range patternDepartment {
		department[label] += w * snap.Department.PatternCoefficient
	}

	for _, sig := range signals {
		if sig.err != nil || sig.scores == nil {
			continue
		}
		settings, ok := snap.Providers[sig.name]
		if !ok {
			continue
		}
		for _, route := range settings.Routes {
			score, ok := sig.scores[route.From]
			if !ok || score < settings.MinScore {
				continue
			}
			contribution := score * route.Coefficient
			switch route.Axis {
			case domain.AxisUrgency:
				urgency[route.To] += contribution
			case domain.AxisDepartment:
				department[route.To] += contribution
			}
		}
	}

	applyStructural(&snap.Structural, email, urgency, department)
	return urgency, department
}

// applyStructural adds the non-keyword feature terms. Caps ratio and
// exclamation marks are read from the raw text (tokenization would erase
// them); sender hints match against the sanitized sender address.
func applyStructural(st *config.StructuralConfig, email domain.EmailInput, urgency, department ScoreVector) {
	text := email.Text()

	if st.CapsWeight > 0 && st.CapsRatioThreshold > 0 && capsRatio(text) >= st.CapsRatioThreshold {
		urgency[st.CapsTarget] += st.CapsWeight
	}

	if st.ExclamationWeight > 0 {
		marks := strings.Count(text, "!")
		if st.ExclamationCap > 0 && marks > st.ExclamationCap {
			marks = st.ExclamationCap
		}
		if marks > 0 {
			urgency[st.ExclamationTarget] += float64(marks) * st.ExclamationWeight
		}
	}

	if st.SenderWeight > 0 && email.Sender != "" {
		for hint, label := range st.SenderHints {
			if strings.Contains(email.Sender, strings.ToLower(hint)) {
				department[label] += st.SenderWeight
			}
		}
	}
}

// capsRatio returns the share of letters that are uppercase.
func capsRatio(text string) float64 {
	letters, uppers := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(uppers) / float64(letters)
}
