// Package targetfeatures provides a database of target features a compiler
// backend may need to reason about, for every supported architecture.
//
// Each feature has a name that is unique within its architecture, a
// description, and the list of other features it implies ("avx2" implies
// "avx" on x86). A [Target] pairs an [Architecture] with a set of enabled
// features and answers whether a feature is available, directly or
// through implication.
//
// This package models architecture feature catalogs and user-declared
// feature sets. It does not detect the features of the host CPU.
//
// # Lookup
//
// Look up features by architecture and name:
//
//	avx2, err := targetfeatures.NewFeature(targetfeatures.ArchX86, "avx2")
//	if errors.Is(err, targetfeatures.ErrUnknownFeature) {
//	    log.Fatal(err)
//	}
//	fmt.Println(avx2.Description())
//	for _, f := range avx2.Implies() {
//	    fmt.Println("implies", f)
//	}
//
// [MustFeature] and the *Name methods of [Target] panic on unknown names and
// are meant for names written literally in source code. Validate dynamic
// names with [NewFeature] or [ParseTarget] first.
//
// # Targets
//
// Targets are values. Enabling or disabling a feature returns a new target:
//
//	t := targetfeatures.NewTarget(targetfeatures.ArchX86).
//	    WithFeatureName("avx2").
//	    WithFeatureName("fma")
//	t.SupportsFeatureName("sse4.1") // true, implied by avx2
//
// Enabling a feature of another architecture is a programming error and
// panics.
//
// User input in rustc's -C target-feature syntax is parsed with
// [ParseTarget]:
//
//	t, err := targetfeatures.ParseTarget(targetfeatures.ArchX86, "+avx2,-fma")
//
// # Implication
//
// [Target.SupportsFeature] expands implications a single level. The built-in
// table stores transitively closed [Feature.Implies] lists, so a single level
// already covers chains such as avx512f → avx2 → avx → sse4.2.
// [Closure] and [Target.SupportsFeatureTransitive] follow implications to
// any depth explicitly.
//
// # Checks
//
// [Target.Check] validates [Requirement] items and returns a *[FeatureError]
// for the first unsatisfied one:
//
//	err := t.Check(targetfeatures.RequireFeatures("avx2", "bmi2"))
//	var fe *targetfeatures.FeatureError
//	if errors.As(err, &fe) {
//	    log.Fatalf("target not ready: %s: %s", fe.Feature, fe.Reason)
//	}
//
// # Subpackages
//
//   - bpftarget derives a BPF target from an eBPF ELF object
//   - wasmtarget maps Wasm targets to WebAssembly runtime core features
//   - profile loads named target presets from YAML, environment and flags
//   - targetflag provides command-line flag values for targets
package targetfeatures
