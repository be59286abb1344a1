//go:build !tinygo

package device

// getSystemTicks returns the current system ticks for host-mode
// simulation and tests, where there is no free-running hardware counter.
func getSystemTicks() uint32 {
	return systemTicks
}

// setSystemTicks sets the simulated system ticks.
func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
