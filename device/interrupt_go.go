//go:build !tinygo

package device

// interruptState is a placeholder interrupt state for host-mode builds.
type interruptState uintptr

func disableInterrupts() interruptState { return 0 }
func restoreInterrupts(interruptState)  {}
