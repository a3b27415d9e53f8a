package targetfeatures

import (
	"fmt"
	"strings"
)

// FeatureString returns the enabled features in feature-list syntax,
// for example "+avx2,+fma". The result is accepted by [Target.Apply].
func (t Target) FeatureString() string {
	enabled := t.EnabledFeatures()
	items := make([]string, 0, len(enabled))
	for _, f := range enabled {
		items = append(items, "+"+f.Name())
	}
	return strings.Join(items, ",")
}

// String returns the architecture name, followed by the enabled features
// when there are any, for example "x86:+avx2,+fma".
func (t Target) String() string {
	features := t.FeatureString()
	if features == "" {
		return t.architecture.String()
	}
	return t.architecture.String() + ":" + features
}

// Summary returns a human-readable report of every feature of the target
// architecture and whether the target supports it.
func (t Target) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Architecture: %s\n", t.architecture)
	b.WriteString("\n")

	features := Features(t.architecture)
	if len(features) == 0 {
		b.WriteString("Features: (none)\n")
		return b.String()
	}

	b.WriteString("Features:\n")
	for _, f := range features {
		writeSupport(&b, t, f)
	}
	return b.String()
}

func writeSupport(b *strings.Builder, t Target, f Feature) {
	switch {
	case t.features.has(f.index()):
		fmt.Fprintf(b, "  %s: yes\n", f)
	case t.SupportsFeature(f):
		fmt.Fprintf(b, "  %s: yes (%s)\n", f, t.Diagnose(f))
	default:
		fmt.Fprintf(b, "  %s: no\n", f)
	}
}
