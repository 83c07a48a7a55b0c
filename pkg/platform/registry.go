package platform

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/go-drift/permissiondemo/pkg/errors"
)

// channelRegistry maps channel names to the event channels the host feeds.
type channelRegistry struct {
	eventChannels map[string]*EventChannel
	mu            sync.RWMutex
}

var registry = &channelRegistry{
	eventChannels: make(map[string]*EventChannel),
}

func (r *channelRegistry) registerEvent(name string, ch *EventChannel) {
	r.mu.Lock()
	r.eventChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) getEventChannel(name string) *EventChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eventChannels[name]
}

func (r *channelRegistry) allEventChannels() []*EventChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := make([]*EventChannel, 0, len(r.eventChannels))
	for _, ch := range r.eventChannels {
		channels = append(channels, ch)
	}
	return channels
}

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)

	// StartEventStream tells native to start sending events for a channel.
	StartEventStream(channel string) error

	// StopEventStream tells native to stop sending events for a channel.
	StopEventStream(channel string) error
}

var (
	bridgeMu sync.RWMutex
	bridge   NativeBridge
)

func nativeBridge() NativeBridge {
	bridgeMu.RLock()
	defer bridgeMu.RUnlock()
	return bridge
}

// builtinInits holds functions that set up the package's own event listeners
// (lifecycle). Reset replays them after clearing subscriptions.
var builtinInits []func()

func registerBuiltinInit(fn func()) {
	builtinInits = append(builtinInits, fn)
	fn()
}

// SetNativeBridge installs the native bridge implementation.
//
// Event channels that acquired subscriptions before a bridge was available
// (for example during package init) have their streams started here. Startup
// errors are dispatched to the subscribers' error handlers.
func SetNativeBridge(b NativeBridge) {
	bridgeMu.Lock()
	bridge = b
	bridgeMu.Unlock()
	if b == nil {
		return
	}

	for _, ch := range registry.allEventChannels() {
		ch.mu.Lock()
		shouldStart := len(ch.subscriptions) > 0 && !ch.started
		if shouldStart {
			ch.started = true
		}
		ch.mu.Unlock()

		if shouldStart {
			if err := startEventStream(ch.name); err != nil {
				ch.mu.Lock()
				ch.started = false
				ch.mu.Unlock()
				ch.dispatchError(err)
			}
		}
	}
}

func invokeNative(channel, method string, args any) (any, error) {
	b := nativeBridge()
	if b == nil {
		return nil, ErrPlatformUnavailable
	}

	argsData, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := b.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Decode(resultData)
}

func startEventStream(channel string) error {
	b := nativeBridge()
	if b == nil {
		return reportStreamError("platform.startEventStream", channel, ErrPlatformUnavailable)
	}
	if err := b.StartEventStream(channel); err != nil {
		return reportStreamError("platform.startEventStream", channel, err)
	}
	return nil
}

func stopEventStream(channel string) error {
	b := nativeBridge()
	if b == nil {
		return ErrPlatformUnavailable
	}
	if err := b.StopEventStream(channel); err != nil {
		if stderrors.Is(err, ErrClosed) {
			return err
		}
		return reportStreamError("platform.stopEventStream", channel, err)
	}
	return nil
}

func reportStreamError(op, channel string, err error) error {
	errors.Report(&errors.AppError{
		Op:      op,
		Kind:    errors.KindPlatform,
		Channel: channel,
		Err:     err,
	})
	return err
}

// ErrChannelNotRegistered is returned when an event is received for an unregistered channel.
var ErrChannelNotRegistered = stderrors.New("event channel not registered")

func lookupEventChannel(op, channel string) (*EventChannel, error) {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.AppError{
			Op:      op,
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return nil, err
	}
	return ch, nil
}

// HandleEvent is called from the bridge when native sends an event.
func HandleEvent(channel string, eventData []byte) error {
	ch, err := lookupEventChannel("platform.HandleEvent", channel)
	if err != nil {
		return err
	}

	data, err := DefaultCodec.Decode(eventData)
	if err != nil {
		ch.dispatchError(err)
		return err
	}

	ch.dispatchEvent(data)
	return nil
}

// HandleEventError is called from the bridge when an event stream faults.
// Subscribers receive a *ChannelError built from code and message.
func HandleEventError(channel string, code, message string) error {
	ch, err := lookupEventChannel("platform.HandleEventError", channel)
	if err != nil {
		return err
	}
	ch.dispatchError(NewChannelError(code, message))
	return nil
}

// HandleEventDone is called from the bridge when an event stream ends, for
// example because the host went away. Every subscription is canceled after
// its OnDone runs; a later Listen starts the stream again.
func HandleEventDone(channel string) error {
	ch, err := lookupEventChannel("platform.HandleEventDone", channel)
	if err != nil {
		return err
	}
	ch.dispatchDone()
	return nil
}

// Reset clears the native bridge and dispatch function, drops every event
// subscription and replays the built-in listeners, leaving the package as if
// freshly initialized. Simulators call it between replayed sessions.
func Reset() {
	bridgeMu.Lock()
	bridge = nil
	bridgeMu.Unlock()

	Lifecycle.reset()

	for _, ch := range registry.allEventChannels() {
		ch.mu.Lock()
		for _, sub := range ch.subscriptions {
			sub.canceled.Store(true)
		}
		ch.subscriptions = nil
		ch.started = false
		ch.mu.Unlock()
	}

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()

	for _, fn := range builtinInits {
		fn()
	}
}

// ResetForTest is Reset, for use with t.Cleanup.
func ResetForTest() {
	Reset()
}
