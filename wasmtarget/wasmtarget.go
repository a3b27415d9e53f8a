// Package wasmtarget maps wasm targets onto the wazero runtime.
//
// Each wasm target feature that wazero implements corresponds to one
// [api.CoreFeatures] bit. [CoreFeatures] converts a target into the
// runtime configuration that accepts exactly what the target enables, and
// [Validate] compiles a module under that configuration, which rejects
// binaries that use instructions the target does not have.
package wasmtarget

import (
	"context"
	"errors"
	"fmt"

	"github.com/leodido/targetfeatures"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"
)

// ErrNotWasm is returned when a target of another architecture is converted.
var ErrNotWasm = errors.New("target architecture is not wasm")

// UnmappedFeatureError reports an enabled wasm feature that wazero has no
// core feature flag for.
type UnmappedFeatureError struct {
	Feature string
}

func (e *UnmappedFeatureError) Error() string {
	return fmt.Sprintf("feature %s: no wazero core feature", e.Feature)
}

type mapping struct {
	feature targetfeatures.Feature
	core    api.CoreFeatures
}

var mappings = []mapping{
	{wasm("bulk-memory"), api.CoreFeatureBulkMemoryOperations},
	{wasm("multivalue"), api.CoreFeatureMultiValue},
	{wasm("mutable-globals"), api.CoreFeatureMutableGlobal},
	{wasm("nontrapping-fptoint"), api.CoreFeatureNonTrappingFloatToIntConversion},
	{wasm("reference-types"), api.CoreFeatureReferenceTypes},
	{wasm("sign-ext"), api.CoreFeatureSignExtensionOps},
	{wasm("simd128"), api.CoreFeatureSIMD},
	{wasm("atomics"), experimental.CoreFeaturesThreads},
}

func wasm(name string) targetfeatures.Feature {
	return targetfeatures.MustFeature(targetfeatures.ArchWasm, name)
}

// CoreFeatures returns the wazero core features for every feature t supports,
// implied ones included.
//
// Supported features without a wazero counterpart, such as relaxed-simd or
// tail-call, fail with *UnmappedFeatureError.
func CoreFeatures(t targetfeatures.Target) (api.CoreFeatures, error) {
	if t.Architecture() != targetfeatures.ArchWasm {
		return 0, fmt.Errorf("%w: %s", ErrNotWasm, t.Architecture())
	}

	var cf api.CoreFeatures
	for _, f := range t.SupportedFeatures() {
		core, ok := coreFeature(f)
		if !ok {
			return 0, &UnmappedFeatureError{Feature: f.Name()}
		}
		cf = cf.SetEnabled(core, true)
	}
	return cf, nil
}

func coreFeature(f targetfeatures.Feature) (api.CoreFeatures, bool) {
	for _, m := range mappings {
		if m.feature == f {
			return m.core, true
		}
	}
	return 0, false
}

// FromCoreFeatures returns the wasm target enabling every feature set in cf.
// Bits with no wasm target feature are ignored.
func FromCoreFeatures(cf api.CoreFeatures) targetfeatures.Target {
	t := targetfeatures.NewTarget(targetfeatures.ArchWasm)
	for _, m := range mappings {
		if cf.IsEnabled(m.core) {
			t = t.WithFeature(m.feature)
		}
	}
	return t
}

// Validate compiles bin with the core features of t and reports whether
// wazero accepts it.
func Validate(ctx context.Context, t targetfeatures.Target, bin []byte) error {
	cf, err := CoreFeatures(t)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	logger := targetfeatures.Logger()
	logger.Debug("compiling wasm module",
		zap.Stringer("target", t),
		zap.String("core_features", cf.String()),
		zap.Int("size", len(bin)))

	cfg := wazero.NewRuntimeConfigInterpreter().WithCoreFeatures(cf)
	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx) //nolint:errcheck

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		return fmt.Errorf("validate against %s: %w", t, err)
	}
	return compiled.Close(ctx)
}
