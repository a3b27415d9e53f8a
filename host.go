package targetfeatures

import "runtime"

func compiledArchitecture() Architecture {
	return LookupArchitecture(runtime.GOARCH)
}
