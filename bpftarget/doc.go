// Package bpftarget derives BPF targets from compiled eBPF objects.
//
// The only BPF target feature is "alu32": 32-bit ALU and JMP32
// instructions, emitted by clang for -mcpu=v3 or -mattr=+alu32.
// [FromELF] enables it when any program of an object uses them, so the
// resulting target can be checked against what a loader supports:
//
//	t, err := bpftarget.FromELF("probe.bpf.o")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if t.SupportsFeatureName("alu32") {
//	    // requires a 5.1+ kernel verifier
//	}
package bpftarget

import (
	"github.com/leodido/targetfeatures"
	"go.uber.org/zap"
)

// Option configures [FromELF].
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report which program enabled a feature.
// The default is [targetfeatures.Logger].
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = targetfeatures.Logger()
	}
	return c
}
