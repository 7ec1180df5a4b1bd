//go:build !amd64 && !arm64

package compress

func init() {
	// Unknown architecture: keep the byte-wise comparison paths.
	hasFastUnaligned = false
}
