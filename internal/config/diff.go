package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Diff summarizes what changed between two activated snapshots. It is
// returned to the administrative caller after a successful reload.
type Diff struct {
	OldVersion string   `json:"old_version"`
	NewVersion string   `json:"new_version"`
	Changed    []string `json:"changed"`
}

// Empty reports whether the reload activated an identical configuration.
func (d *Diff) Empty() bool {
	return d.OldVersion == d.NewVersion && len(d.Changed) == 0
}

// String renders the diff for logs.
func (d *Diff) String() string {
	if d.Empty() {
		return fmt.Sprintf("no changes (version %s)", d.NewVersion)
	}
	return fmt.Sprintf("%s -> %s: %s", d.OldVersion, d.NewVersion, strings.Join(d.Changed, ", "))
}

// Compare builds a section-level diff between two snapshots.
func Compare(prev, next *Snapshot) *Diff {
	d := &Diff{OldVersion: prev.Version, NewVersion: next.Version}

	changed := map[string]bool{}
	if prev.SaturationFactor != next.SaturationFactor {
		changed["saturation_factor"] = true
	}
	if prev.ZeroSignalFloor != next.ZeroSignalFloor {
		changed["zero_signal_floor"] = true
	}
	diffAxis(changed, "urgency", &prev.Urgency, &next.Urgency)
	diffAxis(changed, "department", &prev.Department, &next.Department)
	if !reflect.DeepEqual(prev.Structural, next.Structural) {
		changed["structural"] = true
	}
	diffProviders(changed, prev.Providers, next.Providers)
	if !reflect.DeepEqual(prev.Escalation, next.Escalation) {
		changed["escalation"] = true
	}

	d.Changed = make([]string, 0, len(changed))
	for section := range changed {
		d.Changed = append(d.Changed, section)
	}
	sort.Strings(d.Changed)
	return d
}

func diffAxis(changed map[string]bool, name string, prev, next *AxisConfig) {
	if prev.PatternCoefficient != next.PatternCoefficient {
		changed[name+".pattern_coefficient"] = true
	}
	if !reflect.DeepEqual(prev.Bands, next.Bands) {
		changed[name+".bands"] = true
	}
	if !reflect.DeepEqual(prev.Patterns, next.Patterns) {
		changed[name+".patterns"] = true
	}
}

func diffProviders(changed map[string]bool, prev, next map[string]ProviderSettings) {
	for name, p := range prev {
		n, ok := next[name]
		if !ok {
			changed["providers."+name] = true
			continue
		}
		if !reflect.DeepEqual(p, n) {
			changed["providers."+name] = true
		}
	}
	for name := range next {
		if _, ok := prev[name]; !ok {
			changed["providers."+name] = true
		}
	}
}
