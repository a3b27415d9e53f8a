package targetfeatures

// Requirement describes a gate condition consumable by [Target.Check].
//
// Built-in implementations include:
//   - [Feature]
//   - [FeatureName]
//   - [FeatureGroup]
type Requirement interface {
	isRequirement()
}

// FeatureName requires a feature by name. The name is resolved against the
// architecture of the target being checked, so an unknown name is reported
// by [Target.Check] rather than panicking.
type FeatureName string

// FeatureGroup is a reusable set of [Requirement] items.
//
// Groups can include features, feature names and nested groups.
type FeatureGroup []Requirement

// RequireFeatures creates a group requiring every named feature.
func RequireFeatures(names ...string) FeatureGroup {
	group := make(FeatureGroup, 0, len(names))
	for _, name := range names {
		group = append(group, FeatureName(name))
	}
	return group
}

func (Feature) isRequirement()      {}
func (FeatureName) isRequirement()  {}
func (FeatureGroup) isRequirement() {}

type requirementSet struct {
	features []Feature
	names    []FeatureName

	seenFeatures map[Feature]struct{}
	seenNames    map[FeatureName]struct{}
}

func normalizeRequirements(required []Requirement) requirementSet {
	rs := requirementSet{
		seenFeatures: map[Feature]struct{}{},
		seenNames:    map[FeatureName]struct{}{},
	}
	for _, req := range required {
		rs.add(req)
	}
	return rs
}

func (rs *requirementSet) add(req Requirement) {
	switch r := req.(type) {
	case Feature:
		if _, ok := rs.seenFeatures[r]; ok {
			return
		}
		rs.seenFeatures[r] = struct{}{}
		rs.features = append(rs.features, r)
	case FeatureName:
		if _, ok := rs.seenNames[r]; ok {
			return
		}
		rs.seenNames[r] = struct{}{}
		rs.names = append(rs.names, r)
	case FeatureGroup:
		for _, nested := range r {
			if nested == nil {
				continue
			}
			rs.add(nested)
		}
	}
}
