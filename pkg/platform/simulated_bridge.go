package platform

import (
	"fmt"
	"slices"
	"sync"
)

// Answer is a simulated user response to the system permission dialog.
type Answer string

const (
	// AnswerGrant allows the permission.
	AnswerGrant Answer = "grant"
	// AnswerDeny denies the permission. A second denial of the same permission
	// is treated as permanent, matching Android 11 and later.
	AnswerDeny Answer = "deny"
	// AnswerDenyAlways denies with "don't ask again".
	AnswerDenyAlways Answer = "deny_always"
	// AnswerDismiss closes the system dialog without a choice; the permission
	// is reported as denied but its state does not change.
	AnswerDismiss Answer = "dismiss"
)

// ParseAnswer converts a textual answer.
func ParseAnswer(s string) (Answer, error) {
	switch a := Answer(s); a {
	case AnswerGrant, AnswerDeny, AnswerDenyAlways, AnswerDismiss:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown answer %q", ErrInvalidArguments, s)
	}
}

// Responder decides how the simulated user answers a permission prompt.
type Responder interface {
	Respond(permission string) Answer
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(permission string) Answer

// Respond calls f(permission).
func (f ResponderFunc) Respond(permission string) Answer {
	return f(permission)
}

// ScriptedResponder answers from per-permission queues of scripted answers,
// falling back to Default when a queue is exhausted.
type ScriptedResponder struct {
	mu      sync.Mutex
	answers map[string][]Answer
	// Default is used when no scripted answer is left. Empty means AnswerDeny.
	Default Answer
}

// NewScriptedResponder creates a responder with no scripted answers.
func NewScriptedResponder(def Answer) *ScriptedResponder {
	return &ScriptedResponder{answers: make(map[string][]Answer), Default: def}
}

// Push appends answers for the next prompts of permission.
func (r *ScriptedResponder) Push(permission string, answers ...Answer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[permission] = append(r.answers[permission], answers...)
}

// Respond pops the next scripted answer for permission.
func (r *ScriptedResponder) Respond(permission string) Answer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if queue := r.answers[permission]; len(queue) > 0 {
		r.answers[permission] = queue[1:]
		return queue[0]
	}
	if r.Default == "" {
		return AnswerDeny
	}
	return r.Default
}

type simulatedPermission struct {
	status    PermissionResult
	rationale bool
}

// SimulatedBridge is an in-process NativeBridge that models the Android
// runtime permission flow:
//
//   - a never-requested permission is not_determined and shows no rationale;
//   - a first denial leaves it denied with the rationale flag set;
//   - a second denial, or "deny always", makes it permanently_denied and
//     clears the rationale flag, so further requests return without a prompt;
//   - the settings page can grant or revoke any permission.
//
// Answers to prompts come from a Responder. Permission change events are
// delivered synchronously through HandleEvent before the request call returns.
type SimulatedBridge struct {
	mu        sync.Mutex
	responder Responder
	states    map[string]*simulatedPermission
	prompts   []string
	settings  int
	closed    bool
}

// NewSimulatedBridge creates a bridge answering prompts with responder.
// A nil responder denies every prompt.
func NewSimulatedBridge(responder Responder) *SimulatedBridge {
	if responder == nil {
		responder = NewScriptedResponder(AnswerDeny)
	}
	return &SimulatedBridge{
		responder: responder,
		states:    make(map[string]*simulatedPermission),
	}
}

// SetStatus forces the stored status of a permission, as if changed outside
// the app. The rationale flag is set only for PermissionDenied.
func (b *SimulatedBridge) SetStatus(permission string, status PermissionResult) {
	b.mu.Lock()
	st := b.state(permission)
	st.status = status
	st.rationale = status == PermissionDenied
	b.mu.Unlock()
}

// GrantFromSettings simulates the user granting permission on the app
// settings page and emits the corresponding change event.
func (b *SimulatedBridge) GrantFromSettings(permission string) error {
	b.SetStatus(permission, PermissionGranted)
	return b.emitChange(permission, PermissionGranted)
}

// SetLifecycle simulates a lifecycle transition of the host activity.
func (b *SimulatedBridge) SetLifecycle(state LifecycleState) error {
	data, err := DefaultCodec.Encode(map[string]any{"state": string(state)})
	if err != nil {
		return err
	}
	return HandleEvent(lifecycleEventsChannel, data)
}

// Prompts returns the permissions a system dialog was shown for, in order.
func (b *SimulatedBridge) Prompts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.prompts))
	copy(out, b.prompts)
	return out
}

// SettingsOpened returns how many times the app settings page was opened.
func (b *SimulatedBridge) SettingsOpened() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// Close shuts the simulated host down. The permission and lifecycle streams
// end, so their subscribers get OnDone and a request still waiting for an
// answer fails with ErrClosed. Every further call fails with ErrClosed.
func (b *SimulatedBridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	for _, channel := range []string{permissionChangesChannelName, lifecycleEventsChannel} {
		// The permission channels are created on first use.
		if registry.getEventChannel(channel) != nil {
			_ = HandleEventDone(channel)
		}
	}
}

// FailStream simulates a fault on the native side of an event stream, such
// as the permission service dying. Subscribers of channel receive a
// *ChannelError with code and message; the stream stays open.
func (b *SimulatedBridge) FailStream(channel, code, message string) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return HandleEventError(channel, code, message)
}

func (b *SimulatedBridge) state(permission string) *simulatedPermission {
	st, ok := b.states[permission]
	if !ok {
		st = &simulatedPermission{status: PermissionNotDetermined}
		b.states[permission] = st
	}
	return st
}

// InvokeMethod implements NativeBridge.
func (b *SimulatedBridge) InvokeMethod(channel, method string, argsData []byte) ([]byte, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if channel != permissionsChannelName {
		return nil, ErrChannelNotFound
	}

	decoded, err := DefaultCodec.Decode(argsData)
	if err != nil {
		return nil, err
	}
	args, _ := decoded.(map[string]any)

	var result any
	switch method {
	case "check":
		result, err = b.check(args)
	case "shouldShowRationale":
		result, err = b.shouldShowRationale(args)
	case "request":
		err = b.request([]string{parseString(args["permission"])})
	case "requestMultiple":
		err = b.request(parseStringSlice(args["permissions"]))
	case "openSettings":
		b.mu.Lock()
		b.settings++
		b.mu.Unlock()
	default:
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(result)
}

// StartEventStream implements NativeBridge.
func (b *SimulatedBridge) StartEventStream(string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// StopEventStream implements NativeBridge.
func (b *SimulatedBridge) StopEventStream(string) error {
	return b.StartEventStream("")
}

func permissionArg(args map[string]any) (string, error) {
	name := parseString(args["permission"])
	if name == "" {
		return "", fmt.Errorf("%w: missing permission", ErrInvalidArguments)
	}
	return name, nil
}

func (b *SimulatedBridge) check(args map[string]any) (any, error) {
	name, err := permissionArg(args)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]any{"status": string(b.state(name).status)}, nil
}

func (b *SimulatedBridge) shouldShowRationale(args map[string]any) (any, error) {
	name, err := permissionArg(args)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]any{"shouldShow": b.state(name).rationale}, nil
}

func (b *SimulatedBridge) request(names []string) error {
	if len(names) == 0 || slices.Contains(names, "") {
		return fmt.Errorf("%w: missing permission", ErrInvalidArguments)
	}
	for _, name := range names {
		result := b.prompt(name)
		if err := b.emitChange(name, result); err != nil {
			return err
		}
	}
	return nil
}

// prompt applies one answer to the stored state and returns the reported result.
func (b *SimulatedBridge) prompt(name string) PermissionResult {
	b.mu.Lock()
	st := b.state(name)
	if isTerminalStatus(st.status) {
		status := st.status
		b.mu.Unlock()
		return status
	}
	b.prompts = append(b.prompts, name)
	b.mu.Unlock()

	// The responder runs without the lock so it may inspect the bridge.
	answer := b.responder.Respond(name)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch answer {
	case AnswerGrant:
		st.status = PermissionGranted
		st.rationale = false
	case AnswerDenyAlways:
		st.status = PermissionPermanentlyDenied
		st.rationale = false
	case AnswerDismiss:
		return PermissionDenied
	default:
		if st.status == PermissionDenied {
			st.status = PermissionPermanentlyDenied
			st.rationale = false
		} else {
			st.status = PermissionDenied
			st.rationale = true
		}
	}
	return st.status
}

func (b *SimulatedBridge) emitChange(name string, status PermissionResult) error {
	data, err := DefaultCodec.Encode(map[string]any{
		"permission": name,
		"status":     string(status),
	})
	if err != nil {
		return err
	}
	return HandleEvent(permissionChangesChannelName, data)
}
