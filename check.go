package targetfeatures

import (
	"fmt"
	"strings"
)

// maxDiagnoseHints bounds how many implying features Diagnose lists.
const maxDiagnoseHints = 4

// Check validates the specified requirements against the target and returns
// a *[FeatureError] for the first unsatisfied requirement, or nil if all are
// met. Feature handles are checked before feature names.
func (t Target) Check(required ...Requirement) error {
	rs := normalizeRequirements(required)

	for _, f := range rs.features {
		if !t.SupportsFeature(f) {
			return &FeatureError{Feature: f.String(), Reason: t.Diagnose(f)}
		}
	}

	for _, name := range rs.names {
		f, err := NewFeature(t.architecture, string(name))
		if err != nil {
			return &FeatureError{
				Feature: string(name),
				Reason:  "unknown feature",
				Err:     err,
			}
		}
		if !t.SupportsFeature(f) {
			return &FeatureError{Feature: f.String(), Reason: t.Diagnose(f)}
		}
	}

	return nil
}

// Diagnose returns a reason string explaining why a feature is or is not
// supported by the target and what enabling it would take.
func (t Target) Diagnose(f Feature) string {
	if !f.valid() {
		return "invalid feature"
	}
	if f.Architecture() != t.architecture {
		return fmt.Sprintf("feature belongs to architecture %s; target architecture is %s", f.Architecture(), t.architecture)
	}
	if t.features.has(f.index()) {
		return "enabled"
	}
	for _, enabled := range t.EnabledFeatures() {
		for _, implied := range enabled.entry().implies {
			if implied == f {
				return fmt.Sprintf("implied by %s", enabled)
			}
		}
	}

	by := f.ImpliedBy()
	if len(by) == 0 {
		return fmt.Sprintf("not enabled; enable %s", f)
	}
	names := make([]string, 0, maxDiagnoseHints)
	for i, g := range by {
		if i == maxDiagnoseHints {
			names = append(names, "...")
			break
		}
		names = append(names, g.Name())
	}
	return fmt.Sprintf("not enabled; enable %s or a feature implying it (%s)", f, strings.Join(names, ", "))
}
