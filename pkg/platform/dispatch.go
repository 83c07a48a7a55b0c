package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch installs the function that runs callbacks on the UI
// thread. The screen host applies permission outcomes through it so the
// rationale queue is only touched from one goroutine. Simulators that drive
// the screen from a single goroutine register a function that calls the
// callback directly.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch hands callback to the registered UI-thread dispatcher. It reports
// false, without running callback, when no dispatcher is registered or
// callback is nil; callers then run it themselves.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}
