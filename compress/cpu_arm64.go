//go:build arm64

package compress

import "golang.org/x/sys/cpu"

func init() {
	hasFastUnaligned = cpu.ARM64.HasASIMD
}
