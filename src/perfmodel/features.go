package perfmodel

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostFeatures lists the SIMD extensions of the machine the CPU baseline is
// attributed to.
func HostFeatures() []string {
	features := []string{runtime.GOARCH}
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasSSE41 {
			features = append(features, "sse4.1")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "avx2")
		}
		if cpu.X86.HasFMA {
			features = append(features, "fma")
		}
		if cpu.X86.HasAVX512F {
			features = append(features, "avx512f")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "asimd")
		}
		if cpu.ARM64.HasSVE {
			features = append(features, "sve")
		}
		if cpu.ARM64.HasASIMDDP {
			features = append(features, "asimddp")
		}
	}
	return features
}
