package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
	"github.com/go-drift/permissiondemo/pkg/screen"
	"github.com/go-drift/permissiondemo/pkg/termui"
)

var (
	// ErrNoDialog is returned when a step taps a dialog while none is showing.
	ErrNoDialog = errors.New("no dialog is showing")
	// ErrExpectation is returned when the visible queue differs from a step's expectation.
	ErrExpectation = errors.New("unexpected dialogs")
)

// Options configures Run.
type Options struct {
	// Out receives the rendered dialogs after each step. Nil discards output.
	Out io.Writer
	// Host configures the screen. Platform and Logger are filled by Run when empty.
	Host screen.Options
	// Logger receives step logs. Default: the standard logrus logger.
	Logger logrus.FieldLogger
}

// Result summarizes a finished run.
type Result struct {
	Steps          int
	Visible        []rationale.PermissionID
	Prompts        []string
	SettingsOpened int
}

// Run replays s against a fresh SimulatedBridge. The platform package state is
// reset when Run returns.
func Run(ctx context.Context, s *Scenario, opts Options) (*Result, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Host.Logger == nil {
		opts.Host.Logger = opts.Logger
	}

	bridge := platform.NewSimulatedBridge(s.Responder())
	platform.SetNativeBridge(bridge)
	// Steps run on the calling goroutine, which acts as the UI thread.
	platform.RegisterDispatch(func(cb func()) { cb() })
	defer platform.Reset()

	for id, status := range s.Initial {
		bridge.SetStatus(id, status)
	}

	host := screen.NewHost(screen.NewViewModel(opts.Logger), opts.Host)
	defer host.Close()
	ui := termui.NewRenderer(opts.Out)

	log := opts.Logger.WithField("scenario", s.Name)
	result := &Result{}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		n := i + 1
		log.WithFields(logrus.Fields{"step": n, "action": step.Action}).Debug("running step")

		if err := runStep(ctx, host, bridge, step); err != nil {
			return result, fmt.Errorf("step %d (%s): %w", n, step.Action, err)
		}
		result.Steps = n

		label := string(step.Action)
		if step.Permission != "" {
			label += " " + step.Permission
		}
		fmt.Fprintln(opts.Out, ui.Status("step %d: %s", n, label))
		fmt.Fprintln(opts.Out, ui.Stack(host.Dialogs(ctx)))

		if step.ExpectSet {
			got := host.ViewModel().VisibleQueue()
			if !equalQueue(got, step.Expect) {
				return result, fmt.Errorf("step %d (%s): %w: got %v, want %v", n, step.Action, ErrExpectation, got, step.Expect)
			}
		}
	}

	result.Visible = host.ViewModel().VisibleQueue()
	result.Prompts = bridge.Prompts()
	result.SettingsOpened = bridge.SettingsOpened()
	return result, nil
}

func runStep(ctx context.Context, host *screen.Host, bridge *platform.SimulatedBridge, step Step) error {
	switch step.Action {
	case ActionRequestOne:
		return host.RequestOne(ctx)
	case ActionRequestAll:
		return host.RequestAll(ctx)
	case ActionConfirm:
		dialogs := host.Dialogs(ctx)
		if len(dialogs) == 0 {
			return ErrNoDialog
		}
		return host.Confirm(ctx, dialogs[len(dialogs)-1])
	case ActionDismiss:
		if !host.ViewModel().HasDialogs() {
			return ErrNoDialog
		}
		host.Dismiss()
		return nil
	case ActionSettingsGrant:
		return bridge.GrantFromSettings(step.Permission)
	case ActionPause:
		return bridge.SetLifecycle(platform.LifecycleStatePaused)
	case ActionResume:
		return bridge.SetLifecycle(platform.LifecycleStateResumed)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, step.Action)
	}
}

func equalQueue(got []rationale.PermissionID, want []string) bool {
	names := make([]string, len(got))
	for i, id := range got {
		names[i] = string(id)
	}
	return slices.Equal(names, want)
}
