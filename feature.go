package targetfeatures

import "slices"

// Feature is a handle to an entry of the feature table.
//
// Features are obtained from [NewFeature], [MustFeature], the listing
// functions, or [Feature.Implies]. Two features are equal when they refer to
// the same table entry. The zero Feature refers to no entry: it has an empty
// name, architecture [ArchUnsupported] and no implications.
type Feature struct {
	// id is the table index plus one.
	id int
}

// NewFeature looks up the feature with the given name for an architecture.
// Names are matched exactly. It returns an *[UnknownFeatureError] when the
// architecture has no such feature.
func NewFeature(arch Architecture, name string) (Feature, error) {
	for i := range featureTable {
		if featureTable[i].arch == arch && featureTable[i].name == name {
			return Feature{id: i + 1}, nil
		}
	}
	return Feature{}, &UnknownFeatureError{Architecture: arch, Name: name}
}

// MustFeature is like [NewFeature] but panics if the feature is unknown.
// It is meant for feature names written literally in source code.
func MustFeature(arch Architecture, name string) Feature {
	f, err := NewFeature(arch, name)
	if err != nil {
		panic("targetfeatures: " + err.Error())
	}
	return f
}

func (f Feature) valid() bool {
	return f.id > 0 && f.id <= len(featureTable)
}

func (f Feature) index() int {
	return f.id - 1
}

func (f Feature) entry() *featureEntry {
	if !f.valid() {
		return &featureEntry{arch: ArchUnsupported}
	}
	return &featureTable[f.index()]
}

// Name returns the name of the feature.
func (f Feature) Name() string {
	return f.entry().name
}

// Architecture returns the architecture the feature belongs to.
func (f Feature) Architecture() Architecture {
	return f.entry().arch
}

// Description returns a human-readable description of the feature.
func (f Feature) Description() string {
	return f.entry().description
}

// Implies returns every feature whose support is guaranteed by this one,
// for example "avx2" implies "avx" on x86.
// The list is already transitively closed. Each call returns a new slice.
func (f Feature) Implies() []Feature {
	return slices.Clone(f.entry().implies)
}

// ImpliedBy returns the features whose [Feature.Implies] list contains f,
// in table order.
func (f Feature) ImpliedBy() []Feature {
	if !f.valid() {
		return nil
	}
	var out []Feature
	for i := range featureTable {
		for _, implied := range featureTable[i].implies {
			if implied == f {
				out = append(out, Feature{id: i + 1})
				break
			}
		}
	}
	return out
}

func (f Feature) String() string {
	if !f.valid() {
		return "Feature(invalid)"
	}
	return f.Name()
}

// Features returns every feature of an architecture in table order.
func Features(arch Architecture) []Feature {
	var out []Feature
	for i := range featureTable {
		if featureTable[i].arch == arch {
			out = append(out, Feature{id: i + 1})
		}
	}
	return out
}

// FeatureNames returns the names of every feature of an architecture in table order.
func FeatureNames(arch Architecture) []string {
	features := Features(arch)
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

// AllFeatures returns every feature of every architecture in table order.
func AllFeatures() []Feature {
	out := make([]Feature, len(featureTable))
	for i := range featureTable {
		out[i] = Feature{id: i + 1}
	}
	return out
}

// Closure returns every feature reachable from the given features by
// following implications to any depth, in breadth-first discovery order.
// A given feature is part of the result only when it is implied by one of
// the given features.
//
// The built-in table is already flattened, so for it Closure yields the same
// features as the union of the [Feature.Implies] lists.
func Closure(features ...Feature) []Feature {
	roots := make([]int, 0, len(features))
	for _, f := range features {
		if f.valid() {
			roots = append(roots, f.index())
		}
	}
	reached := closure(impliedIndices(), roots)
	out := make([]Feature, 0, len(reached))
	for _, i := range reached {
		out = append(out, Feature{id: i + 1})
	}
	return out
}

func impliedIndices() [][]int {
	edges := make([][]int, len(featureTable))
	for i := range featureTable {
		for _, implied := range featureTable[i].implies {
			edges[i] = append(edges[i], implied.index())
		}
	}
	return edges
}
