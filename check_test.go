package targetfeatures

import (
	"errors"
	"reflect"
	"testing"
)

func TestTarget_Check(t *testing.T) {
	target := NewTarget(ArchX86).WithFeatureName("avx2").WithFeatureName("bmi1")

	t.Run("all satisfied", func(t *testing.T) {
		err := target.Check(
			MustFeature(ArchX86, "avx2"),
			FeatureName("sse4.2"),
			RequireFeatures("bmi1", "avx"),
		)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
	})

	t.Run("no requirements", func(t *testing.T) {
		if err := target.Check(); err != nil {
			t.Fatalf("Check() error = %v", err)
		}
	})

	t.Run("missing feature", func(t *testing.T) {
		err := target.Check(RequireFeatures("avx", "bmi2"))
		var fe *FeatureError
		if !errors.As(err, &fe) {
			t.Fatalf("Check() error = %v, want *FeatureError", err)
		}
		if fe.Feature != "bmi2" {
			t.Errorf("Feature = %q, want bmi2", fe.Feature)
		}
		if fe.Reason != "not enabled; enable bmi2" {
			t.Errorf("Reason = %q", fe.Reason)
		}
		if fe.Err != nil {
			t.Errorf("Err = %v, want nil", fe.Err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		err := target.Check(FeatureName("neon"))
		var fe *FeatureError
		if !errors.As(err, &fe) {
			t.Fatalf("Check() error = %v, want *FeatureError", err)
		}
		if fe.Reason != "unknown feature" {
			t.Errorf("Reason = %q, want unknown feature", fe.Reason)
		}
		if !errors.Is(err, ErrUnknownFeature) {
			t.Errorf("Check() error = %v, want ErrUnknownFeature", err)
		}
	})

	t.Run("other architecture", func(t *testing.T) {
		err := target.Check(MustFeature(ArchAArch64, "neon"))
		var fe *FeatureError
		if !errors.As(err, &fe) {
			t.Fatalf("Check() error = %v, want *FeatureError", err)
		}
		if want := "feature belongs to architecture aarch64; target architecture is x86"; fe.Reason != want {
			t.Errorf("Reason = %q, want %q", fe.Reason, want)
		}
	})

	t.Run("features before names", func(t *testing.T) {
		err := target.Check(FeatureName("nonexistent-feature"), MustFeature(ArchX86, "adx"))
		var fe *FeatureError
		if !errors.As(err, &fe) {
			t.Fatalf("Check() error = %v, want *FeatureError", err)
		}
		if fe.Feature != "adx" {
			t.Errorf("Feature = %q, want adx", fe.Feature)
		}
	})
}

func TestNormalizeRequirements(t *testing.T) {
	avx := MustFeature(ArchX86, "avx")
	fma := MustFeature(ArchX86, "fma")

	rs := normalizeRequirements([]Requirement{
		avx,
		FeatureGroup{fma, nil, avx, FeatureGroup{FeatureName("bmi2"), fma}},
		FeatureName("bmi2"),
		FeatureName("adx"),
		nil,
	})

	if want := []Feature{avx, fma}; !reflect.DeepEqual(rs.features, want) {
		t.Errorf("features = %v, want %v", rs.features, want)
	}
	if want := []FeatureName{"bmi2", "adx"}; !reflect.DeepEqual(rs.names, want) {
		t.Errorf("names = %v, want %v", rs.names, want)
	}
}

func TestTarget_Diagnose(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		feature Feature
		want    string
	}{
		{
			name:    "enabled",
			target:  NewTarget(ArchX86).WithFeatureName("avx2"),
			feature: MustFeature(ArchX86, "avx2"),
			want:    "enabled",
		},
		{
			name:    "implied",
			target:  NewTarget(ArchX86).WithFeatureName("avx2"),
			feature: MustFeature(ArchX86, "sse"),
			want:    "implied by avx2",
		},
		{
			name:    "nothing implies it",
			target:  NewTarget(ArchX86),
			feature: MustFeature(ArchX86, "adx"),
			want:    "not enabled; enable adx",
		},
		{
			name:    "implying features listed",
			target:  NewTarget(ArchHexagon),
			feature: MustFeature(ArchHexagon, "hvx"),
			want:    "not enabled; enable hvx or a feature implying it (hvx-length128b)",
		},
		{
			name:    "implying features capped",
			target:  NewTarget(ArchX86),
			feature: MustFeature(ArchX86, "avx"),
			want:    "not enabled; enable avx or a feature implying it (avx2, avx512bf16, avx512bitalg, avx512bw, ...)",
		},
		{
			name:    "other architecture",
			target:  NewTarget(ArchRISCV),
			feature: MustFeature(ArchMIPS, "msa"),
			want:    "feature belongs to architecture mips; target architecture is riscv",
		},
		{
			name:    "invalid",
			target:  NewTarget(ArchRISCV),
			feature: Feature{},
			want:    "invalid feature",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Diagnose(tt.feature); got != tt.want {
				t.Errorf("Diagnose(%s) = %q, want %q", tt.feature, got, tt.want)
			}
		})
	}
}
