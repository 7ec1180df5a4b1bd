//go:build amd64

package compress

import "golang.org/x/sys/cpu"

func init() {
	// SSE2 is part of the amd64 baseline; the probe keeps the gate honest
	// under emulation.
	hasFastUnaligned = cpu.X86.HasSSE2
}
