//go:build !linux

package bpftarget

import "github.com/leodido/targetfeatures"

// FromELF derives a BPF target from an eBPF ELF object file.
// On non-Linux platforms, FromELF always returns an unsupported-platform error.
func FromELF(_ string, _ ...Option) (targetfeatures.Target, error) {
	return targetfeatures.Target{}, targetfeatures.ErrUnsupportedPlatform
}
