// Package targetflag exposes architectures and feature lists as command-line
// flags for cobra commands.
//
//	opts := targetflag.NewOptions()
//	cmd := &cobra.Command{
//	    PreRunE: func(c *cobra.Command, _ []string) error {
//	        return structcli.Unmarshal(c, opts)
//	    },
//	    RunE: func(c *cobra.Command, _ []string) error {
//	        t, err := opts.Target()
//	        ...
//	    },
//	}
//	if err := opts.Attach(cmd); err != nil {
//	    panic(err)
//	}
//
// This registers --arch/-a and --features/-f, for example
// --arch x86 --features +avx2,-fma.
package targetflag

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/leodido/structcli"
	"github.com/leodido/targetfeatures"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
)

var architectureIdentifierMap = func() map[targetfeatures.Architecture][]string {
	archs := targetfeatures.Architectures()
	ids := make(map[targetfeatures.Architecture][]string, len(archs))
	for _, a := range archs {
		ids[a] = []string{a.String()}
	}
	return ids
}()

// NewArchitectureValue returns a flag value that stores a case-insensitive
// architecture name in p. The current value of *p is the default.
func NewArchitectureValue(p *targetfeatures.Architecture) pflag.Value {
	return enumflag.New(p, "architecture", architectureIdentifierMap, enumflag.EnumCaseInsensitive)
}

// FeatureList collects feature-list items. Each Set call may add several
// comma-separated items. Names are checked against an architecture only by
// [Options.Target].
type FeatureList []string

func (l *FeatureList) String() string {
	return strings.Join(*l, ",")
}

func (l *FeatureList) Set(input string) error {
	items, err := parseFeatureList(input)
	if err != nil {
		return err
	}
	*l = append(*l, items...)
	return nil
}

func (l *FeatureList) Type() string {
	return "features"
}

func parseFeatureList(input string) (FeatureList, error) {
	if strings.TrimSpace(input) == "" {
		return FeatureList{}, nil
	}

	parts := strings.Split(input, ",")
	items := make(FeatureList, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if strings.TrimLeft(item, "+-") == "" {
			return nil, fmt.Errorf("feature list item %q: missing feature name", item)
		}
		items = append(items, item)
	}
	return items, nil
}

// Options defines the target flags.
type Options struct {
	Arch     targetfeatures.Architecture `flag:"arch" flagshort:"a" flagdescr:"Target architecture" flagcustom:"true"`
	Features FeatureList                 `flag:"features" flagshort:"f" flagdescr:"Target features (+name enables, -name disables)" flagcustom:"true"`
}

// NewOptions returns options defaulting to the host architecture.
func NewOptions() *Options {
	return &Options{Arch: targetfeatures.HostArchitecture()}
}

func (o *Options) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *Options) DefineArch(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*targetfeatures.Architecture)
	return NewArchitectureValue(fieldPtr), fmt.Sprintf("%s (%s)", descr, strings.Join(targetfeatures.ArchitectureNames(), ", "))
}

func (o *Options) DecodeArch(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	return targetfeatures.ParseArchitecture(s)
}

func (o *Options) DefineFeatures(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*FeatureList)
	*fieldPtr = nil
	return fieldPtr, descr
}

func (o *Options) DecodeFeatures(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	return parseFeatureList(s)
}

// Target applies the feature list, in order, to a new target of the
// selected architecture.
func (o *Options) Target() (targetfeatures.Target, error) {
	return targetfeatures.ParseTarget(o.Arch, o.Features.String())
}

// CompleteFeatures completes the --features flag with the feature names of
// the selected architecture. It completes the last item of a comma-separated
// list, keeps a leading + or -, and skips names already listed.
func (o *Options) CompleteFeatures(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	current := toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		current = toComplete[i+1:]
	}

	selected := map[string]bool{}
	for _, item := range strings.Split(prefix, ",") {
		if name := strings.ToLower(strings.TrimLeft(strings.TrimSpace(item), "+-")); name != "" {
			selected[name] = true
		}
	}

	sign := ""
	if current != "" && (current[0] == '+' || current[0] == '-') {
		sign, current = current[:1], current[1:]
	}
	current = strings.ToLower(current)

	var candidates []string
	for _, name := range targetfeatures.FeatureNames(o.Arch) {
		if selected[strings.ToLower(name)] || !strings.HasPrefix(strings.ToLower(name), current) {
			continue
		}
		candidates = append(candidates, prefix+sign+name)
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
