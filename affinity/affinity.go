// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// are guarded by build tags.

package affinity

import "errors"

// ErrUnsupported is returned where thread pinning is unavailable.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// SetAffinity pins the current OS thread to a logical CPU. Callers must
// hold runtime.LockOSThread for the pin to be meaningful.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return errors.New("affinity: negative cpu id")
	}
	return setAffinityPlatform(cpuID)
}

// Allowed lists the CPUs the calling thread may run on.
func Allowed() ([]int, error) {
	return allowedPlatform()
}
