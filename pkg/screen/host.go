package screen

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/permissiondemo/pkg/errors"
	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

// Platform is the part of the platform API the screen depends on.
type Platform interface {
	// Permission returns the permission with the given manifest identifier.
	Permission(id string) (platform.Permission, bool)
	// RequestMultiple asks for several permissions with one prompt.
	RequestMultiple(ctx context.Context, ids ...string) ([]platform.Outcome, error)
	// OpenAppSettings shows the settings page of the app.
	OpenAppSettings(ctx context.Context) error
	// Dispatch schedules fn on the UI thread. It returns false when no UI
	// thread is available and fn was not scheduled.
	Dispatch(fn func()) bool
	// OnResume registers fn to run when the app returns to the foreground.
	OnResume(fn func()) (remove func())
}

// NativePlatform implements Platform with the platform package.
type NativePlatform struct{}

func (NativePlatform) Permission(id string) (platform.Permission, bool) {
	return platform.Lookup(id)
}

func (NativePlatform) RequestMultiple(ctx context.Context, ids ...string) ([]platform.Outcome, error) {
	return platform.RequestMultiple(ctx, ids...)
}

func (NativePlatform) OpenAppSettings(ctx context.Context) error {
	return platform.OpenAppSettings(ctx)
}

func (NativePlatform) Dispatch(fn func()) bool {
	return platform.Dispatch(fn)
}

func (NativePlatform) OnResume(fn func()) (remove func()) {
	return platform.Lifecycle.AddHandler(func(state platform.LifecycleState) {
		if state == platform.LifecycleStateResumed {
			fn()
		}
	})
}

// Options configures a Host.
type Options struct {
	// SinglePermission is requested by RequestOne. Default: camera.
	SinglePermission rationale.PermissionID
	// Permissions are requested together by RequestAll. Default: every
	// supported kind in catalog order.
	Permissions []rationale.PermissionID
	// RequestTimeout bounds each request. Zero leaves the platform default.
	RequestTimeout time.Duration
	// Platform is the platform API. Default: NativePlatform.
	Platform Platform
	// Logger receives debug and info entries. Default: the standard logrus logger.
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.SinglePermission == "" {
		o.SinglePermission = rationale.PermissionCamera
	}
	if len(o.Permissions) == 0 {
		for _, k := range rationale.Kinds() {
			o.Permissions = append(o.Permissions, k.Permission())
		}
	}
	if o.Platform == nil {
		o.Platform = NativePlatform{}
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Host connects a ViewModel to the platform permission flow. It plays the
// role of the activity: it launches requests, feeds every outcome to the
// view-model and turns the queue into dialogs.
type Host struct {
	vm        *ViewModel
	opts      Options
	listeners []*hostListener
	cleanup   []func()
}

type hostListener struct {
	fn func()
}

// NewHost creates a host for vm.
func NewHost(vm *ViewModel, opts Options) *Host {
	h := &Host{
		vm:   vm,
		opts: opts.withDefaults(),
	}
	h.cleanup = append(h.cleanup,
		vm.AddListener(h.notify),
		// Returning from the settings page may change the permanently declined
		// state of queued permissions.
		h.opts.Platform.OnResume(func() {
			if !h.opts.Platform.Dispatch(h.notify) {
				h.notify()
			}
		}),
	)
	return h
}

// ViewModel returns the view-model driven by h.
func (h *Host) ViewModel() *ViewModel {
	return h.vm
}

// AddListener registers fn to run whenever the dialogs may have changed.
func (h *Host) AddListener(fn func()) (unsubscribe func()) {
	l := &hostListener{fn: fn}
	h.listeners = append(h.listeners, l)
	return func() {
		h.listeners = slices.DeleteFunc(h.listeners, func(other *hostListener) bool {
			return other == l
		})
	}
}

// Close detaches h from the view-model and the platform lifecycle.
func (h *Host) Close() {
	for _, fn := range h.cleanup {
		fn()
	}
	h.cleanup = nil
	h.listeners = nil
}

func (h *Host) notify() {
	for _, l := range slices.Clone(h.listeners) {
		callListener(l.fn)
	}
}

// callListener runs fn, reporting a panic instead of propagating it into the
// queue mutation that triggered the notification.
func callListener(fn func()) {
	defer errors.Recover("screen.listener")
	fn()
}

// RequestOne requests the single configured permission.
func (h *Host) RequestOne(ctx context.Context) error {
	return h.request(ctx, "screen.RequestOne", h.opts.SinglePermission)
}

// RequestAll requests every configured permission with one prompt.
func (h *Host) RequestAll(ctx context.Context) error {
	return h.request(ctx, "screen.RequestAll", h.opts.Permissions...)
}

func (h *Host) request(ctx context.Context, op string, ids ...rationale.PermissionID) error {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	h.opts.Logger.WithField("permissions", names).Info("requesting permissions")

	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}
	outcomes, err := h.opts.Platform.RequestMultiple(ctx, names...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	h.apply(outcomes)
	return nil
}

// apply records outcomes on the UI thread, or inline when no dispatcher is
// registered.
func (h *Host) apply(outcomes []platform.Outcome) {
	record := func() {
		for _, o := range outcomes {
			h.vm.OnPermissionResult(rationale.PermissionID(o.Permission), o.Granted())
		}
	}
	if !h.opts.Platform.Dispatch(record) {
		record()
	}
}

// Dialogs returns the rationale dialogs to render, most recent denial first.
// The last dialog is the one on top, and the one Confirm and Dismiss act on.
//
// Permissions without rationale text or without a platform permission are
// reported and skipped.
func (h *Host) Dialogs(ctx context.Context) []Dialog {
	var dialogs []Dialog
	for _, id := range h.vm.VisibleQueue() {
		kind, ok := rationale.KindOf(id)
		if !ok {
			reportSkipped(id, fmt.Errorf("%w: %q", rationale.ErrUnrecognizedPermission, id))
			continue
		}
		perm, ok := h.opts.Platform.Permission(string(kind.Permission()))
		if !ok {
			reportSkipped(id, fmt.Errorf("%w: %q", platform.ErrUnknownPermission, id))
			continue
		}

		shouldShow, err := perm.ShouldShowRationale(ctx)
		if err != nil {
			// Fall back to the normal text; its action re-requests, which is harmless.
			errors.Report(&errors.AppError{
				Op:         "screen.Dialogs",
				Kind:       errors.KindPlatform,
				Permission: string(id),
				Err:        err,
			})
			shouldShow = true
		}

		d, err := NewDialog(id, !shouldShow)
		if err != nil {
			reportSkipped(id, err)
			continue
		}
		dialogs = append(dialogs, d)
	}
	return dialogs
}

func reportSkipped(id rationale.PermissionID, err error) {
	errors.Report(&errors.AppError{
		Op:         "screen.Dialogs",
		Kind:       errors.KindCatalog,
		Permission: string(id),
		Err:        err,
	})
}

// Dismiss closes the top dialog.
func (h *Host) Dismiss() {
	h.vm.DismissDialog()
}

// Confirm handles the dialog button. For a permanently declined permission
// it opens the app settings and leaves the dialog in place. Otherwise it
// closes the top dialog and asks for the dialog's permission again.
func (h *Host) Confirm(ctx context.Context, d Dialog) error {
	if d.PermanentlyDeclined {
		h.opts.Logger.WithField("permission", d.Permission).Info("opening app settings")
		if err := h.opts.Platform.OpenAppSettings(ctx); err != nil {
			return fmt.Errorf("screen.Confirm: %w", err)
		}
		return nil
	}
	h.vm.DismissDialog()
	return h.request(ctx, "screen.Confirm", d.Permission)
}
