package targetfeatures

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name        string
		arch        Architecture
		list        string
		wantEnabled []string
	}{
		{"empty", ArchX86, "", []string{}},
		{"only separators", ArchX86, " , ,", []string{}},
		{"plus prefix", ArchX86, "+avx2,+fma", []string{"avx2", "fma"}},
		{"bare names", ArchAArch64, "neon,sve", []string{"neon", "sve"}},
		{"whitespace", ArchX86, " +avx2 , fma ,, ", []string{"avx2", "fma"}},
		{"disable after enable", ArchX86, "+avx2,+fma,-avx2", []string{"fma"}},
		{"enable after disable", ArchX86, "-avx2,+avx2", []string{"avx2"}},
		{"dotted names", ArchX86, "+sse4.1,+sse4.2", []string{"sse4.1", "sse4.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.arch, tt.list)
			if err != nil {
				t.Fatalf("ParseTarget(%q) error = %v", tt.list, err)
			}
			if target.Architecture() != tt.arch {
				t.Errorf("Architecture() = %v, want %v", target.Architecture(), tt.arch)
			}
			if got := featureNames(target.EnabledFeatures()); !reflect.DeepEqual(got, tt.wantEnabled) {
				t.Errorf("EnabledFeatures() = %v, want %v", got, tt.wantEnabled)
			}
		})
	}
}

func TestParseTarget_Errors(t *testing.T) {
	tests := []struct {
		name        string
		list        string
		wantErr     string
		wantUnknown bool
	}{
		{"unknown", "+avx2,+bogus", `feature list item "+bogus"`, true},
		{"wrong case", "AVX2", `unknown feature "AVX2" for architecture x86`, true},
		{"other architecture", "-neon", `feature list item "-neon"`, true},
		{"bare plus", "+", `feature list item "+": missing feature name`, false},
		{"bare minus", "avx2, - ", `feature list item "-": missing feature name`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(ArchX86, tt.list)
			if err == nil {
				t.Fatalf("ParseTarget(%q) expected error", tt.list)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseTarget(%q) error = %v, want %q", tt.list, err, tt.wantErr)
			}
			if got := errors.Is(err, ErrUnknownFeature); got != tt.wantUnknown {
				t.Errorf("errors.Is(err, ErrUnknownFeature) = %v, want %v", got, tt.wantUnknown)
			}
		})
	}
}

func TestTarget_Apply(t *testing.T) {
	base := NewTarget(ArchWasm).WithFeatureName("simd128")

	t.Run("keeps existing features", func(t *testing.T) {
		got, err := base.Apply("+sign-ext")
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if want := []string{"sign-ext", "simd128"}; !reflect.DeepEqual(featureNames(got.EnabledFeatures()), want) {
			t.Errorf("EnabledFeatures() = %v, want %v", featureNames(got.EnabledFeatures()), want)
		}
	})

	t.Run("error leaves receiver unchanged", func(t *testing.T) {
		got, err := base.Apply("+atomics,+bogus")
		if err == nil {
			t.Fatal("Apply() expected error")
		}
		if got != base {
			t.Errorf("Apply() = %v, want %v", got, base)
		}
	})
}

func TestParseTarget_RoundTrip(t *testing.T) {
	for _, arch := range Architectures() {
		target := NewTarget(arch)
		for i, f := range Features(arch) {
			if i%2 == 0 {
				target = target.WithFeature(f)
			}
		}
		got, err := ParseTarget(arch, target.FeatureString())
		if err != nil {
			t.Fatalf("ParseTarget(%s, %q) error = %v", arch, target.FeatureString(), err)
		}
		if got != target {
			t.Errorf("ParseTarget(%s, FeatureString()) = %v, want %v", arch, got, target)
		}
	}
}
