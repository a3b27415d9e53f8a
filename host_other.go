//go:build !linux

package targetfeatures

// HostArchitecture returns the architecture the program was compiled for.
// On Linux the kernel-reported machine is used instead.
//
// Only the architecture is reported: which features the host CPU has is
// not detected.
func HostArchitecture() Architecture {
	return compiledArchitecture()
}
