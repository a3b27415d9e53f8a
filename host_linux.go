//go:build linux

package targetfeatures

import "golang.org/x/sys/unix"

// HostArchitecture returns the architecture reported by the running kernel
// (the machine field of uname). It falls back to the architecture the
// program was compiled for when uname fails.
//
// Only the architecture is reported: which features the host CPU has is
// not detected.
func HostArchitecture() Architecture {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return compiledArchitecture()
	}
	return LookupArchitecture(unix.ByteSliceToString(uname.Machine[:]))
}
