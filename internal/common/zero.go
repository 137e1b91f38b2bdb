//nolint:revive // common is an appropriate name for shared utilities package
package common

import "runtime"

// ExplicitZero overwrites b with zero bytes in a way the compiler cannot
// elide. It is used to scrub buffers holding access-control-sensitive data
// (e.g. serialized security descriptors) before the memory is released.
func ExplicitZero(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	// Keep the slice alive past the zeroing loop so dead-store elimination
	// cannot remove the writes.
	runtime.KeepAlive(&b[0])
}
