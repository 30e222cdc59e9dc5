package classifier

import "github.com/jonesrussell/mail-triage/internal/config"

// Resolution is one axis's resolved outcome.
type Resolution struct {
	Label      string
	Confidence float64
	Score      float64
	// ZeroSignal marks an axis that produced no score at all and fell
	// through to its lowest-priority label at the configured floor
	// confidence. The flag stays internal; callers surface it through
	// logs and metrics, not the result record.
	ZeroSignal bool
}

// resolve picks the winning label of a score vector and derives its
// confidence from the winning band.
//
// The winner is the label with the maximum score; ties go to the higher
// priority band (earlier in the band list). Confidence ramps linearly from
// the band's MinConfidence at its threshold to MaxConfidence at the next
// band's threshold (threshold*saturationFactor for the top band). A winner
// below its own threshold ramps from zeroSignalFloor up to MinConfidence
// instead, so confidence is continuous and non-decreasing in score
// everywhere.
func resolve(axis *config.AxisConfig, scores ScoreVector, saturationFactor, zeroSignalFloor float64) Resolution {
	var (
		winner   config.Band
		winnerAt = -1
		best     float64
	)
	for i, b := range axis.Bands {
		if s := scores[b.Label]; winnerAt == -1 || s > best {
			winner, winnerAt, best = b, i, s
		}
	}

	if winnerAt == -1 || best <= 0 {
		lowest := axis.Lowest()
		return Resolution{Label: lowest.Label, Confidence: zeroSignalFloor, ZeroSignal: true}
	}

	confidence := bandConfidence(axis, winner, winnerAt, best, saturationFactor, zeroSignalFloor)
	return Resolution{Label: winner.Label, Confidence: clamp01(confidence), Score: best}
}

func bandConfidence(axis *config.AxisConfig, band config.Band, at int, score, saturationFactor, zeroSignalFloor float64) float64 {
	if score < band.Threshold {
		// Sub-threshold winner: the axis has signal, just not enough to
		// fill the band. Ramp from the zero-signal floor to the band's
		// minimum.
		frac := clamp01(score / band.Threshold)
		return zeroSignalFloor + frac*(band.MinConfidence-zeroSignalFloor)
	}

	saturation := band.Threshold * saturationFactor
	if at > 0 {
		saturation = axis.Bands[at-1].Threshold
	}
	if saturation <= band.Threshold {
		return band.MaxConfidence
	}

	frac := clamp01((score - band.Threshold) / (saturation - band.Threshold))
	return band.MinConfidence + frac*(band.MaxConfidence-band.MinConfidence)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
