//go:build tinygo

package device

import "sync/atomic"

var (
	systemTicksValue  uint32
	hardwareTimerFunc func() uint32
)

// getSystemTicks reads the registered hardware timer directly when one
// has been set, falling back to the cached value otherwise.
func getSystemTicks() uint32 {
	if hardwareTimerFunc != nil {
		return hardwareTimerFunc()
	}
	return atomic.LoadUint32(&systemTicksValue)
}

// setSystemTicks updates the cached tick value.
func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicksValue, ticks)
}

// SetHardwareTimerFunc registers the platform's hardware tick reader.
// Call this during platform init, before any timer operation.
func SetHardwareTimerFunc(f func() uint32) {
	hardwareTimerFunc = f
}
