package targetfeatures

import (
	"errors"
	"reflect"
	"testing"
)

func featureNames(features []Feature) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

func TestNewFeature_EveryEntry(t *testing.T) {
	for i, def := range catalog {
		f, err := NewFeature(def.arch, def.name)
		if err != nil {
			t.Fatalf("NewFeature(%s, %q) error = %v", def.arch, def.name, err)
		}
		if f.index() != i {
			t.Errorf("NewFeature(%s, %q) index = %d, want %d", def.arch, def.name, f.index(), i)
		}
		if got := f.Name(); got != def.name {
			t.Errorf("Name() = %q, want %q", got, def.name)
		}
		if got := f.Description(); got != def.description {
			t.Errorf("%s: Description() = %q, want %q", def.name, got, def.description)
		}
		if got := f.Architecture(); got != def.arch {
			t.Errorf("%s: Architecture() = %v, want %v", def.name, got, def.arch)
		}
	}
}

func TestNewFeature_Unknown(t *testing.T) {
	tests := []struct {
		arch Architecture
		name string
	}{
		{ArchArm, "nonexistent-feature"},
		{ArchX86, "AVX2"},
		{ArchX86, "av"},
		{ArchX86, "neon"},
		{ArchUnsupported, "avx2"},
		{ArchBPF, ""},
	}
	for _, tt := range tests {
		f, err := NewFeature(tt.arch, tt.name)
		if err == nil {
			t.Fatalf("NewFeature(%s, %q) expected error", tt.arch, tt.name)
		}
		if !errors.Is(err, ErrUnknownFeature) {
			t.Errorf("NewFeature(%s, %q) error = %v, want ErrUnknownFeature", tt.arch, tt.name, err)
		}
		var ufe *UnknownFeatureError
		if !errors.As(err, &ufe) {
			t.Fatalf("NewFeature(%s, %q) error type = %T", tt.arch, tt.name, err)
		}
		if ufe.Architecture != tt.arch || ufe.Name != tt.name {
			t.Errorf("UnknownFeatureError = %+v, want {%v %q}", *ufe, tt.arch, tt.name)
		}
		if f != (Feature{}) {
			t.Errorf("NewFeature(%s, %q) = %v, want zero Feature", tt.arch, tt.name, f)
		}
	}
}

func TestNewFeature_SameNameDifferentArchitecture(t *testing.T) {
	x86, err := NewFeature(ArchX86, "aes")
	if err != nil {
		t.Fatal(err)
	}
	arm, err := NewFeature(ArchArm, "aes")
	if err != nil {
		t.Fatal(err)
	}
	if x86 == arm {
		t.Fatal("aes on x86 and arm must be distinct features")
	}
	if x86.Architecture() != ArchX86 || arm.Architecture() != ArchArm {
		t.Errorf("architectures = %v, %v", x86.Architecture(), arm.Architecture())
	}
}

func TestMustFeature(t *testing.T) {
	if got := MustFeature(ArchX86, "avx2").Name(); got != "avx2" {
		t.Errorf("MustFeature().Name() = %q, want avx2", got)
	}
	mustPanic(t, "unknown feature", func() {
		MustFeature(ArchArm, "nonexistent-feature")
	})
}

func TestFeature_Implies(t *testing.T) {
	avx2 := MustFeature(ArchX86, "avx2")
	want := []string{"avx", "sse4.2", "sse4.1", "ssse3", "sse3", "sse2", "sse"}
	if got := featureNames(avx2.Implies()); !reflect.DeepEqual(got, want) {
		t.Errorf("avx2.Implies() = %v, want %v", got, want)
	}

	if got := MustFeature(ArchX86, "adx").Implies(); len(got) != 0 {
		t.Errorf("adx.Implies() = %v, want none", got)
	}

	t.Run("caller owns the slice", func(t *testing.T) {
		implies := avx2.Implies()
		implies[0] = MustFeature(ArchX86, "adx")
		if got := featureNames(avx2.Implies()); !reflect.DeepEqual(got, want) {
			t.Errorf("avx2.Implies() = %v after modifying a returned slice, want %v", got, want)
		}
		if !NewTarget(ArchX86).WithFeature(avx2).SupportsFeatureName("avx") {
			t.Error("x86+avx2 should still support avx")
		}
	})
}

func TestFeature_ImpliedBy(t *testing.T) {
	got := featureNames(MustFeature(ArchHexagon, "hvx").ImpliedBy())
	if want := []string{"hvx-length128b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hvx.ImpliedBy() = %v, want %v", got, want)
	}

	by := MustFeature(ArchX86, "avx").ImpliedBy()
	if len(by) == 0 || by[0].Name() != "avx2" {
		t.Fatalf("avx.ImpliedBy() = %v, want avx2 first", by)
	}
	for _, f := range by {
		if f.Architecture() != ArchX86 {
			t.Errorf("avx.ImpliedBy() contains %s of %s", f, f.Architecture())
		}
	}

	if got := MustFeature(ArchX86, "avx512vl").ImpliedBy(); len(got) != 0 {
		t.Errorf("avx512vl.ImpliedBy() = %v, want none", got)
	}
}

func TestFeature_Zero(t *testing.T) {
	var f Feature
	if f.Name() != "" || f.Description() != "" {
		t.Errorf("zero Feature name/description = %q/%q, want empty", f.Name(), f.Description())
	}
	if f.Architecture() != ArchUnsupported {
		t.Errorf("zero Feature Architecture() = %v, want unsupported", f.Architecture())
	}
	if f.Implies() != nil || f.ImpliedBy() != nil {
		t.Error("zero Feature should imply and be implied by nothing")
	}
	if got := f.String(); got != "Feature(invalid)" {
		t.Errorf("zero Feature String() = %q", got)
	}
}

func TestFeatures(t *testing.T) {
	for _, arch := range Architectures() {
		features := Features(arch)
		names := FeatureNames(arch)
		if len(features) != len(names) {
			t.Fatalf("%s: len(Features) = %d, len(FeatureNames) = %d", arch, len(features), len(names))
		}
		for i, f := range features {
			if f.Architecture() != arch {
				t.Errorf("Features(%s) contains %s of %s", arch, f, f.Architecture())
			}
			if i > 0 && features[i-1].index() >= f.index() {
				t.Errorf("Features(%s) not in table order at %d", arch, i)
			}
			if names[i] != f.Name() {
				t.Errorf("FeatureNames(%s)[%d] = %q, want %q", arch, i, names[i], f.Name())
			}
		}
	}

	if got := Features(ArchUnsupported); len(got) != 0 {
		t.Errorf("Features(unsupported) = %v, want none", got)
	}
	if got := FeatureNames(ArchBPF); !reflect.DeepEqual(got, []string{"alu32"}) {
		t.Errorf("FeatureNames(bpf) = %v, want [alu32]", got)
	}
	if got := len(AllFeatures()); got != featureCount {
		t.Errorf("len(AllFeatures()) = %d, want %d", got, featureCount)
	}
}

func TestClosure(t *testing.T) {
	avx2 := MustFeature(ArchX86, "avx2")
	avx := MustFeature(ArchX86, "avx")

	t.Run("matches flattened implies", func(t *testing.T) {
		for _, f := range AllFeatures() {
			got := Closure(f)
			if !reflect.DeepEqual(featureNames(got), featureNames(f.Implies())) {
				t.Errorf("Closure(%s) = %v, want %v", f, featureNames(got), featureNames(f.Implies()))
			}
		}
	})

	t.Run("given feature reached through another", func(t *testing.T) {
		got := Closure(avx2, avx)
		found := false
		for _, f := range got {
			if f == avx {
				found = true
			}
			if f == avx2 {
				t.Errorf("Closure(avx2, avx) contains avx2")
			}
		}
		if !found {
			t.Errorf("Closure(avx2, avx) = %v, want avx included", featureNames(got))
		}
	})

	t.Run("invalid and empty", func(t *testing.T) {
		if got := Closure(); len(got) != 0 {
			t.Errorf("Closure() = %v, want empty", got)
		}
		if got := Closure(Feature{}); len(got) != 0 {
			t.Errorf("Closure(zero) = %v, want empty", got)
		}
	})
}

func mustPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", what)
		}
	}()
	fn()
}
