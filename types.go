package targetfeatures

import (
	"errors"
	"fmt"
	"strings"
)

// Architecture is an instruction-set family the feature table has entries for.
type Architecture uint8

const (
	// ArchArm is 32-bit Arm.
	ArchArm Architecture = iota
	// ArchAArch64 is 64-bit Arm.
	ArchAArch64
	// ArchBPF is the (e)BPF virtual machine.
	ArchBPF
	// ArchHexagon is Qualcomm Hexagon.
	ArchHexagon
	// ArchMIPS is MIPS (32 and 64 bit).
	ArchMIPS
	// ArchPowerPC is PowerPC (32 and 64 bit).
	ArchPowerPC
	// ArchRISCV is RISC-V (32 and 64 bit).
	ArchRISCV
	// ArchWasm is WebAssembly.
	ArchWasm
	// ArchX86 is x86 and x86-64.
	ArchX86
	// ArchUnsupported is any other architecture. It has no features.
	ArchUnsupported
)

var architectureNames = map[Architecture]string{
	ArchArm:         "arm",
	ArchAArch64:     "aarch64",
	ArchBPF:         "bpf",
	ArchHexagon:     "hexagon",
	ArchMIPS:        "mips",
	ArchPowerPC:     "powerpc",
	ArchRISCV:       "riscv",
	ArchWasm:        "wasm",
	ArchX86:         "x86",
	ArchUnsupported: "unsupported",
}

func (a Architecture) String() string {
	if name, ok := architectureNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Architecture(%d)", a)
}

// Architectures returns every architecture in declaration order.
func Architectures() []Architecture {
	archs := make([]Architecture, 0, len(architectureNames))
	for a := ArchArm; a <= ArchUnsupported; a++ {
		archs = append(archs, a)
	}
	return archs
}

// ArchitectureNames returns the canonical name of every architecture in declaration order.
func ArchitectureNames() []string {
	archs := Architectures()
	names := make([]string, 0, len(archs))
	for _, a := range archs {
		names = append(names, a.String())
	}
	return names
}

// ParseArchitecture returns the architecture with the given canonical name.
// Matching is case-insensitive.
func ParseArchitecture(name string) (Architecture, error) {
	for _, a := range Architectures() {
		if strings.EqualFold(name, a.String()) {
			return a, nil
		}
	}
	return ArchUnsupported, fmt.Errorf("unknown architecture %q (available: %s)", name, strings.Join(ArchitectureNames(), ", "))
}

// architectureAliases maps GOARCH values, rustc target_arch values and
// uname machine strings to architectures.
var architectureAliases = map[string]Architecture{
	"arm":         ArchArm,
	"armv6l":      ArchArm,
	"armv7l":      ArchArm,
	"armv8l":      ArchArm,
	"armbe":       ArchArm,
	"aarch64":     ArchAArch64,
	"aarch64_be":  ArchAArch64,
	"arm64":       ArchAArch64,
	"arm64be":     ArchAArch64,
	"bpf":         ArchBPF,
	"bpfel":       ArchBPF,
	"bpfeb":       ArchBPF,
	"hexagon":     ArchHexagon,
	"mips":        ArchMIPS,
	"mipsle":      ArchMIPS,
	"mips64":      ArchMIPS,
	"mips64le":    ArchMIPS,
	"mips64r6":    ArchMIPS,
	"mips32r6":    ArchMIPS,
	"powerpc":     ArchPowerPC,
	"powerpc64":   ArchPowerPC,
	"powerpc64le": ArchPowerPC,
	"ppc":         ArchPowerPC,
	"ppc64":       ArchPowerPC,
	"ppc64le":     ArchPowerPC,
	"riscv":       ArchRISCV,
	"riscv32":     ArchRISCV,
	"riscv64":     ArchRISCV,
	"wasm":        ArchWasm,
	"wasm32":      ArchWasm,
	"wasm64":      ArchWasm,
	"x86":         ArchX86,
	"x86_64":      ArchX86,
	"amd64":       ArchX86,
	"386":         ArchX86,
	"i386":        ArchX86,
	"i486":        ArchX86,
	"i586":        ArchX86,
	"i686":        ArchX86,
}

// LookupArchitecture maps a GOARCH value, a rustc target_arch value or a
// uname machine string to an architecture.
// Unrecognized names map to [ArchUnsupported].
func LookupArchitecture(name string) Architecture {
	if a, ok := architectureAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a
	}
	return ArchUnsupported
}

// ErrUnknownFeature is matched by every [UnknownFeatureError].
var ErrUnknownFeature = errors.New("unknown feature")

// UnknownFeatureError is returned by [NewFeature] when the requested
// architecture has no feature with the requested name.
type UnknownFeatureError struct {
	Architecture Architecture
	Name         string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q for architecture %s", e.Name, e.Architecture)
}

// Is reports whether target is [ErrUnknownFeature].
func (e *UnknownFeatureError) Is(target error) bool {
	return target == ErrUnknownFeature
}

// FeatureError represents an unsatisfied requirement reported by [Target.Check].
type FeatureError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %s: %s: %v", e.Feature, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature %s: %s", e.Feature, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// ErrUnsupportedPlatform is returned by operations that need an operating
// system facility the current platform does not provide.
var ErrUnsupportedPlatform = errors.New("unsupported platform")
