//go:build linux

package bpftarget

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/asm"
	"github.com/leodido/targetfeatures"
	"go.uber.org/zap"
)

// FromELF derives a BPF target from an eBPF ELF object file.
//
// Contract:
//   - the result is a target for [targetfeatures.ArchBPF]
//   - "alu32" is enabled when any program uses ALU32 or JMP32 instructions
//   - unknown or unspecified program types fail closed with an error
func FromELF(path string, opts ...Option) (targetfeatures.Target, error) {
	if strings.TrimSpace(path) == "" {
		return targetfeatures.Target{}, fmt.Errorf("from ELF: empty path")
	}

	spec, err := ebpf.LoadCollectionSpec(path)
	if err != nil {
		return targetfeatures.Target{}, fmt.Errorf("from ELF %q: load collection spec: %w", path, err)
	}

	c := newConfig(opts)
	t, err := targetFromCollectionSpec(spec, c.logger.With(zap.String("path", path)))
	if err != nil {
		return targetfeatures.Target{}, fmt.Errorf("from ELF %q: %w", path, err)
	}
	return t, nil
}

func targetFromCollectionSpec(spec *ebpf.CollectionSpec, logger *zap.Logger) (targetfeatures.Target, error) {
	t := targetfeatures.NewTarget(targetfeatures.ArchBPF)
	if spec == nil {
		return t, fmt.Errorf("nil collection spec")
	}

	alu32 := false
	for _, name := range slices.Sorted(maps.Keys(spec.Programs)) {
		prog := spec.Programs[name]
		if prog == nil {
			return t, fmt.Errorf("program %q: nil program spec", name)
		}
		if err := validateProgramType(prog.Type); err != nil {
			return t, fmt.Errorf("program %q: %w", name, err)
		}
		if alu32 {
			continue
		}
		if i, ok := firstALU32(prog.Instructions); ok {
			logger.Debug("program uses 32-bit instructions",
				zap.String("program", name),
				zap.Int("instruction", i),
				zap.Stringer("class", prog.Instructions[i].OpCode.Class()))
			alu32 = true
		}
	}

	if alu32 {
		t = t.WithFeature(alu32Feature)
	}
	return t, nil
}

var alu32Feature = targetfeatures.MustFeature(targetfeatures.ArchBPF, "alu32")

// firstALU32 returns the index of the first instruction that needs the
// alu32 feature. Byte swaps are encoded in the 32-bit ALU class by every
// CPU version, so they do not count.
func firstALU32(insns asm.Instructions) (int, bool) {
	for i, ins := range insns {
		switch ins.OpCode.Class() {
		case asm.ALUClass:
			if ins.OpCode.ALUOp() == asm.Swap {
				continue
			}
			return i, true
		case asm.Jump32Class:
			return i, true
		}
	}
	return 0, false
}

func validateProgramType(pt ebpf.ProgramType) error {
	if pt == ebpf.UnspecifiedProgram {
		return fmt.Errorf("unsupported/unspecified program type")
	}
	if strings.HasPrefix(pt.String(), "ProgramType(") {
		return fmt.Errorf("unknown program type %d", pt)
	}
	return nil
}
