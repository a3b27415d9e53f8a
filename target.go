package targetfeatures

import "fmt"

// featureSet is a presence bitset over every entry of the feature table,
// across all architectures.
type featureSet [(featureCount + 63) / 64]uint64

func (s *featureSet) has(i int) bool {
	return s[i/64]&(1<<(uint(i)%64)) != 0
}

func (s *featureSet) set(i int) {
	s[i/64] |= 1 << (uint(i) % 64)
}

func (s *featureSet) clear(i int) {
	s[i/64] &^= 1 << (uint(i) % 64)
}

// Target is an architecture together with a set of enabled features.
//
// Target is a value type: [Target.WithFeature] and [Target.WithoutFeature]
// return updated copies and never modify the receiver. Targets are
// comparable with ==.
type Target struct {
	architecture Architecture
	features     featureSet
}

// NewTarget returns a target for the architecture with no features enabled.
func NewTarget(arch Architecture) Target {
	return Target{architecture: arch}
}

// Architecture returns the target architecture.
func (t Target) Architecture() Architecture {
	return t.architecture
}

// SupportsFeature reports whether the feature is enabled on the target,
// either directly or because an enabled feature implies it.
//
// Implications are expanded a single level: the feature table is expected
// to carry transitively closed [Feature.Implies] lists.
func (t Target) SupportsFeature(f Feature) bool {
	if !f.valid() {
		return false
	}
	if t.features.has(f.index()) {
		return true
	}
	for i := range featureTable {
		if !t.features.has(i) {
			continue
		}
		for _, implied := range featureTable[i].implies {
			if implied == f {
				return true
			}
		}
	}
	return false
}

// SupportsFeatureName is like [Target.SupportsFeature] but looks the feature
// up by name for the target architecture.
// It panics if the architecture has no such feature.
func (t Target) SupportsFeatureName(name string) bool {
	return t.SupportsFeature(t.mustFeature(name))
}

// SupportsFeatureTransitive reports whether the feature is enabled directly
// or reachable from an enabled feature through implications of any depth.
// Unlike [Target.SupportsFeature] it does not rely on the table being
// flattened.
func (t Target) SupportsFeatureTransitive(f Feature) bool {
	if !f.valid() {
		return false
	}
	if t.features.has(f.index()) {
		return true
	}
	for _, reached := range Closure(t.EnabledFeatures()...) {
		if reached == f {
			return true
		}
	}
	return false
}

// WithFeature returns a copy of the target with the feature enabled.
// It panics if the feature does not belong to the target architecture.
func (t Target) WithFeature(f Feature) Target {
	t.checkArchitecture(f)
	t.features.set(f.index())
	return t
}

// WithFeatureName is like [Target.WithFeature] but looks the feature up by
// name for the target architecture.
// It panics if the architecture has no such feature.
func (t Target) WithFeatureName(name string) Target {
	return t.WithFeature(t.mustFeature(name))
}

// WithoutFeature returns a copy of the target with the feature disabled.
// Features implied by other enabled features remain supported.
// It panics if the feature does not belong to the target architecture.
func (t Target) WithoutFeature(f Feature) Target {
	t.checkArchitecture(f)
	t.features.clear(f.index())
	return t
}

// WithoutFeatureName is like [Target.WithoutFeature] but looks the feature
// up by name for the target architecture.
// It panics if the architecture has no such feature.
func (t Target) WithoutFeatureName(name string) Target {
	return t.WithoutFeature(t.mustFeature(name))
}

// EnabledFeatures returns the explicitly enabled features in table order.
func (t Target) EnabledFeatures() []Feature {
	var out []Feature
	for i := range featureTable {
		if t.features.has(i) {
			out = append(out, Feature{id: i + 1})
		}
	}
	return out
}

// SupportedFeatures returns every feature of the target architecture that
// [Target.SupportsFeature] reports as supported, in table order.
func (t Target) SupportedFeatures() []Feature {
	var out []Feature
	for _, f := range Features(t.architecture) {
		if t.SupportsFeature(f) {
			out = append(out, f)
		}
	}
	return out
}

func (t Target) checkArchitecture(f Feature) {
	if !f.valid() {
		panic("targetfeatures: invalid feature")
	}
	if f.Architecture() != t.architecture {
		panic(fmt.Sprintf("targetfeatures: feature %s belongs to architecture %s, not %s", f.Name(), f.Architecture(), t.architecture))
	}
}

func (t Target) mustFeature(name string) Feature {
	f, err := NewFeature(t.architecture, name)
	if err != nil {
		panic("targetfeatures: " + err.Error())
	}
	return f
}
