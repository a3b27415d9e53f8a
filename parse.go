package targetfeatures

import (
	"fmt"
	"strings"
)

// ParseTarget returns a target for the architecture with the features of a
// feature list applied. See [Target.Apply] for the syntax.
func ParseTarget(arch Architecture, list string) (Target, error) {
	return NewTarget(arch).Apply(list)
}

// Apply returns a copy of the target with a feature list applied.
//
// A feature list is a comma-separated sequence of items. "+name" and "name"
// enable a feature, "-name" disables it. Items are applied left to right,
// surrounding whitespace is ignored and empty items are skipped.
//
// On error the receiver is returned unchanged.
// Unlike [Target.WithFeatureName], unknown names are reported as errors
// wrapping an *[UnknownFeatureError], so Apply is suitable for user input.
func (t Target) Apply(list string) (Target, error) {
	out := t
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		enable := true
		name := item
		switch item[0] {
		case '+':
			name = item[1:]
		case '-':
			enable = false
			name = item[1:]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return t, fmt.Errorf("feature list item %q: missing feature name", item)
		}

		f, err := NewFeature(t.architecture, name)
		if err != nil {
			return t, fmt.Errorf("feature list item %q: %w", item, err)
		}
		if enable {
			out = out.WithFeature(f)
		} else {
			out = out.WithoutFeature(f)
		}
	}
	return out, nil
}
