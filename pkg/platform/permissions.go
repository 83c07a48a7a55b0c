package platform

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/permissiondemo/pkg/errors"
)

// PermissionResult represents the status of a permission.
type PermissionResult string

// Permission status constants.
const (
	// PermissionGranted indicates access has been granted.
	PermissionGranted PermissionResult = "granted"

	// PermissionDenied indicates the user denied the permission. The app may request again.
	PermissionDenied PermissionResult = "denied"

	// PermissionPermanentlyDenied indicates the user denied with "don't ask again".
	// The app cannot request again; direct the user to Settings.
	PermissionPermanentlyDenied PermissionResult = "permanently_denied"

	// PermissionRestricted indicates a system policy prevents granting (parental controls,
	// enterprise policy). The user cannot change this; no dialog will be shown.
	PermissionRestricted PermissionResult = "restricted"

	// PermissionNotDetermined indicates the user has not yet been asked. Calling Request()
	// will show the system permission dialog.
	PermissionNotDetermined PermissionResult = "not_determined"

	// PermissionResultUnknown indicates the status could not be determined.
	PermissionResultUnknown PermissionResult = "unknown"
)

// DefaultPermissionTimeout bounds permission requests whose context has no deadline.
const DefaultPermissionTimeout = 30 * time.Second

const (
	permissionsChannelName       = "drift/permissions"
	permissionChangesChannelName = "drift/permissions/changes"
)

// isTerminalStatus returns true if the status won't change by showing a
// permission dialog.
func isTerminalStatus(status PermissionResult) bool {
	switch status {
	case PermissionGranted, PermissionPermanentlyDenied, PermissionRestricted:
		return true
	default:
		return false
	}
}

var (
	permissionChannelsOnce   sync.Once
	permissionMethodChannel  *MethodChannel
	permissionChangesChannel *EventChannel

	// requestMu serializes requests: the platform shows one system dialog at a time.
	requestMu sync.Mutex
)

func permissionChannels() (*MethodChannel, *EventChannel) {
	permissionChannelsOnce.Do(func() {
		permissionMethodChannel = NewMethodChannel(permissionsChannelName)
		permissionChangesChannel = NewEventChannel(permissionChangesChannelName)
	})
	return permissionMethodChannel, permissionChangesChannel
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultPermissionTimeout)
}

// permissionType checks and requests a single permission over the channel.
type permissionType struct {
	name    string
	channel *MethodChannel
	changes *EventChannel
}

func newPermission(name string) *permissionType {
	channel, changes := permissionChannels()
	return &permissionType{
		name:    name,
		channel: channel,
		changes: changes,
	}
}

// Status returns the current status of the permission.
func (p *permissionType) Status() (PermissionResult, error) {
	return checkStatus(p.channel, p.name)
}

func checkStatus(channel *MethodChannel, name string) (PermissionResult, error) {
	result, err := channel.Invoke("check", map[string]any{
		"permission": name,
	})
	if err != nil {
		return PermissionResultUnknown, err
	}
	return parsePermissionResult(result), nil
}

// RequestWithContext requests the permission from the user and blocks until the user
// responds, the context is canceled, or the context deadline is exceeded.
func (p *permissionType) RequestWithContext(ctx context.Context) (PermissionResult, error) {
	outcomes, err := requestPermissions(ctx, p.channel, p.changes, []string{p.name})
	if err != nil {
		return PermissionResultUnknown, err
	}
	return outcomes[0].Result, nil
}

// IsGranted returns true if the permission is currently granted.
func (p *permissionType) IsGranted() bool {
	status, err := p.Status()
	return err == nil && status == PermissionGranted
}

// IsDenied returns true if the permission is denied or permanently denied.
func (p *permissionType) IsDenied() bool {
	status, err := p.Status()
	if err != nil {
		return false
	}
	return status == PermissionDenied || status == PermissionPermanentlyDenied
}

// ShouldShowRationale returns whether the app should explain the permission
// before requesting it again.
func (p *permissionType) ShouldShowRationale() (bool, error) {
	result, err := p.channel.Invoke("shouldShowRationale", map[string]any{
		"permission": p.name,
	})
	if err != nil {
		return false, err
	}
	if m, ok := result.(map[string]any); ok {
		return parseBool(m["shouldShow"]), nil
	}
	return false, nil
}

// Outcome is the result of one permission within a batched request.
type Outcome struct {
	Permission string
	Result     PermissionResult
}

// Granted reports whether the permission was granted.
func (o Outcome) Granted() bool {
	return o.Result == PermissionGranted
}

// RequestMultiple requests several permissions with a single platform prompt
// and blocks until every answer has arrived, the context is canceled, or the
// deadline (DefaultPermissionTimeout when ctx has none) is exceeded.
//
// Duplicate identifiers are collapsed. Outcomes are returned in request order.
// Permissions already in a terminal state are reported without prompting.
func RequestMultiple(ctx context.Context, ids ...string) ([]Outcome, error) {
	channel, changes := permissionChannels()
	return requestPermissions(ctx, channel, changes, ids)
}

func requestPermissions(ctx context.Context, channel *MethodChannel, changes *EventChannel, ids []string) ([]Outcome, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	requestMu.Lock()
	defer requestMu.Unlock()

	ids = uniqueStrings(ids)
	outcomes := make([]Outcome, len(ids))
	index := make(map[string]int, len(ids))
	var pending []string
	for i, id := range ids {
		index[id] = i
		status, err := checkStatus(channel, id)
		if err != nil {
			return nil, err
		}
		outcomes[i] = Outcome{Permission: id, Result: status}
		if !isTerminalStatus(status) {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return outcomes, nil
	}

	// Subscribe BEFORE triggering the native request so no answer is missed.
	resultChan := make(chan permissionChange, len(pending))
	streamDone := make(chan struct{})
	sub := changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parsePermissionChange(data)
			if !ok || !slices.Contains(pending, change.Permission) {
				return
			}
			select {
			case resultChan <- change:
			default:
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.AppError{
				Op:      "permissions.request",
				Kind:    errors.KindPlatform,
				Channel: permissionChangesChannelName,
				Err:     err,
			})
		},
		OnDone: func() {
			close(streamDone)
		},
	})
	defer sub.Cancel()

	var err error
	if len(ids) == 1 {
		_, err = channel.Invoke("request", map[string]any{"permission": pending[0]})
	} else {
		_, err = channel.Invoke("requestMultiple", map[string]any{"permissions": pending})
	}
	if err != nil {
		return nil, err
	}

	answered := make(map[string]bool, len(pending))
	for len(answered) < len(pending) {
		select {
		case change := <-resultChan:
			if answered[change.Permission] {
				continue
			}
			answered[change.Permission] = true
			outcomes[index[change.Permission]].Result = change.Result
		case <-streamDone:
			// Answers that arrived before the stream ended still count.
			if len(resultChan) > 0 {
				continue
			}
			return nil, ErrClosed
		case <-ctx.Done():
			// Re-check the unanswered ones in case an event was missed.
			for _, id := range pending {
				if answered[id] {
					continue
				}
				status, statusErr := checkStatus(channel, id)
				if statusErr != nil || !isTerminalStatus(status) {
					if ctx.Err() == context.DeadlineExceeded {
						return nil, ErrTimeout
					}
					return nil, ErrCanceled
				}
				outcomes[index[id]].Result = status
			}
			return outcomes, nil
		}
	}
	return outcomes, nil
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// OpenAppSettings opens the system settings page for this app, where users can
// manage permissions manually. Use this when a permission is permanently denied
// and the app cannot request it again.
//
// The call returns once the page is launched; it does not wait for the user to
// come back. It fails with ErrCanceled or ErrTimeout when ctx is already done.
func OpenAppSettings(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if err == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ErrCanceled
	}
	channel, _ := permissionChannels()
	_, err := channel.Invoke("openSettings", nil)
	return err
}

// permissionChange represents a permission status change event.
type permissionChange struct {
	Permission string
	Result     PermissionResult
}

func parsePermissionResult(result any) PermissionResult {
	if m, ok := result.(map[string]any); ok {
		if status := parseString(m["status"]); status != "" {
			return PermissionResult(status)
		}
	}
	return PermissionResultUnknown
}

func parsePermissionChange(data any) (permissionChange, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return permissionChange{}, false
	}
	change := permissionChange{
		Permission: parseString(m["permission"]),
		Result:     PermissionResult(parseString(m["status"])),
	}
	if change.Permission == "" || change.Result == "" {
		return permissionChange{}, false
	}
	return change, true
}

// basicPermission implements Permission by wrapping permissionType.
type basicPermission struct {
	inner *permissionType
}

func newBasicPermission(name string) *basicPermission {
	return &basicPermission{inner: newPermission(name)}
}

func (p *basicPermission) ID() string {
	return p.inner.name
}

func (p *basicPermission) Status(ctx context.Context) (PermissionStatus, error) {
	return p.inner.Status()
}

func (p *basicPermission) Request(ctx context.Context) (PermissionStatus, error) {
	return p.inner.RequestWithContext(ctx)
}

func (p *basicPermission) IsGranted(ctx context.Context) bool {
	return p.inner.IsGranted()
}

func (p *basicPermission) IsDenied(ctx context.Context) bool {
	return p.inner.IsDenied()
}

func (p *basicPermission) ShouldShowRationale(ctx context.Context) (bool, error) {
	return p.inner.ShouldShowRationale()
}

func (p *basicPermission) Listen(handler func(PermissionStatus)) (unsubscribe func()) {
	sub := p.inner.changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parsePermissionChange(data)
			if !ok {
				errors.Report(&errors.AppError{
					Op:         "permissions.parseChange",
					Kind:       errors.KindParsing,
					Permission: p.inner.name,
					Channel:    permissionChangesChannelName,
					Err: &errors.ParseError{
						Channel:  permissionChangesChannelName,
						DataType: "PermissionChange",
						Got:      data,
					},
				})
				return
			}
			if change.Permission == p.inner.name {
				handler(change.Result)
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.AppError{
				Op:         "permissions.streamError",
				Kind:       errors.KindPlatform,
				Permission: p.inner.name,
				Channel:    permissionChangesChannelName,
				Err:        err,
			})
		},
	})
	return sub.Cancel
}
