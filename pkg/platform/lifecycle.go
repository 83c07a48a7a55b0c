package platform

import (
	"slices"
	"sync"

	"github.com/go-drift/permissiondemo/pkg/errors"
)

const lifecycleEventsChannel = "drift/lifecycle/events"

// Lifecycle reports app lifecycle transitions. The screen uses it to refresh
// its dialogs when the user comes back from the app settings page.
var Lifecycle = &LifecycleService{
	events: NewEventChannel(lifecycleEventsChannel),
	state:  LifecycleStateResumed,
}

// LifecycleService tracks the current app lifecycle state.
type LifecycleService struct {
	events   *EventChannel
	state    LifecycleState
	handlers []*lifecycleHandlerEntry
	mu       sync.RWMutex
}

type lifecycleHandlerEntry struct {
	fn LifecycleHandler
}

// LifecycleState represents the current app lifecycle state.
type LifecycleState string

const (
	// LifecycleStateResumed indicates the app is visible and responding to user input.
	LifecycleStateResumed LifecycleState = "resumed"

	// LifecycleStateInactive indicates the app is transitioning, e.g. behind a system dialog.
	LifecycleStateInactive LifecycleState = "inactive"

	// LifecycleStatePaused indicates the app is not visible but still running,
	// e.g. while the system settings page is in front.
	LifecycleStatePaused LifecycleState = "paused"

	// LifecycleStateDetached indicates the app is still hosted but detached from any view.
	LifecycleStateDetached LifecycleState = "detached"
)

// LifecycleHandler is called when lifecycle state changes.
type LifecycleHandler func(state LifecycleState)

func init() {
	registerBuiltinInit(func() {
		Lifecycle.events.Listen(EventHandler{
			OnEvent: func(data any) {
				m, ok := data.(map[string]any)
				state := ""
				if ok {
					state = parseString(m["state"])
				}
				if state == "" {
					errors.Report(&errors.AppError{
						Op:      "lifecycle.parseEvent",
						Kind:    errors.KindParsing,
						Channel: lifecycleEventsChannel,
						Err: &errors.ParseError{
							Channel:  lifecycleEventsChannel,
							DataType: "LifecycleState",
							Got:      data,
						},
					})
					return
				}
				Lifecycle.updateState(LifecycleState(state))
			},
			OnError: func(err error) {
				errors.Report(&errors.AppError{
					Op:      "lifecycle.streamError",
					Kind:    errors.KindPlatform,
					Channel: lifecycleEventsChannel,
					Err:     err,
				})
			},
		})
	})
}

// State returns the current lifecycle state.
func (l *LifecycleService) State() LifecycleState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// AddHandler registers a handler to be called on lifecycle changes.
// Returns a function that removes the handler.
func (l *LifecycleService) AddHandler(handler LifecycleHandler) func() {
	entry := &lifecycleHandlerEntry{fn: handler}
	l.mu.Lock()
	l.handlers = append(l.handlers, entry)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		l.handlers = slices.DeleteFunc(l.handlers, func(e *lifecycleHandlerEntry) bool {
			return e == entry
		})
		l.mu.Unlock()
	}
}

// IsResumed returns true if the app is in the resumed state.
func (l *LifecycleService) IsResumed() bool {
	return l.State() == LifecycleStateResumed
}

func (l *LifecycleService) updateState(newState LifecycleState) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := slices.Clone(l.handlers)
	l.mu.Unlock()

	for _, h := range handlers {
		h.fn(newState)
	}
}

func (l *LifecycleService) reset() {
	l.mu.Lock()
	l.state = LifecycleStateResumed
	l.handlers = nil
	l.mu.Unlock()
}
