package screen

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/permissiondemo/pkg/errors"
	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

func newTestHost(t *testing.T, responder platform.Responder) (*Host, *platform.SimulatedBridge) {
	t.Helper()
	bridge := platform.SetupTestBridge(t.Cleanup, responder)
	logger, _ := test.NewNullLogger()
	h := NewHost(NewViewModel(logger), Options{Logger: logger})
	t.Cleanup(h.Close)
	return h, bridge
}

func dialogPermissions(dialogs []Dialog) []rationale.PermissionID {
	out := make([]rationale.PermissionID, len(dialogs))
	for i, d := range dialogs {
		out[i] = d.Permission
	}
	return out
}

func TestHost_RequestAllQueuesEveryDenial(t *testing.T) {
	h, bridge := newTestHost(t, platform.NewScriptedResponder(platform.AnswerDeny))
	ctx := context.Background()

	require.NoError(t, h.RequestAll(ctx))

	dialogs := h.Dialogs(ctx)
	assert.Equal(t, []rationale.PermissionID{
		rationale.PermissionReadMediaImages,
		rationale.PermissionReadContacts,
		rationale.PermissionCallPhone,
		rationale.PermissionRecordAudio,
		rationale.PermissionCamera,
	}, dialogPermissions(dialogs))
	for _, d := range dialogs {
		assert.False(t, d.PermanentlyDeclined, d.Permission)
		assert.Equal(t, ActionOK, d.ActionLabel)
	}
	assert.Len(t, bridge.Prompts(), 5)
}

func TestHost_MixedAnswersOnlyQueueDenials(t *testing.T) {
	responder := platform.NewScriptedResponder(platform.AnswerGrant)
	responder.Push(string(rationale.PermissionRecordAudio), platform.AnswerDeny)
	responder.Push(string(rationale.PermissionReadContacts), platform.AnswerDismiss)
	h, _ := newTestHost(t, responder)
	ctx := context.Background()

	require.NoError(t, h.RequestAll(ctx))

	assert.Equal(t, []rationale.PermissionID{
		rationale.PermissionReadContacts,
		rationale.PermissionRecordAudio,
	}, h.ViewModel().VisibleQueue())
}

func TestHost_ConfirmReRequestsAndRequeues(t *testing.T) {
	h, bridge := newTestHost(t, platform.NewScriptedResponder(platform.AnswerDeny))
	ctx := context.Background()

	require.NoError(t, h.RequestAll(ctx))

	dialogs := h.Dialogs(ctx)
	top := dialogs[len(dialogs)-1]
	assert.Equal(t, rationale.PermissionCamera, top.Permission)

	// Second denial of the camera makes it permanent; the camera goes to the back.
	require.NoError(t, h.Confirm(ctx, top))

	dialogs = h.Dialogs(ctx)
	require.Len(t, dialogs, 5)
	newest := dialogs[0]
	assert.Equal(t, rationale.PermissionCamera, newest.Permission)
	assert.True(t, newest.PermanentlyDeclined)
	assert.Equal(t, ActionGoSettings, newest.ActionLabel)
	assert.Equal(t, rationale.PermissionRecordAudio, dialogs[len(dialogs)-1].Permission)

	// Only the camera was prompted twice.
	assert.Equal(t, 2, countPrompts(bridge, rationale.PermissionCamera))
}

func TestHost_ConfirmPermanentlyDeclinedOpensSettings(t *testing.T) {
	h, bridge := newTestHost(t, platform.NewScriptedResponder(platform.AnswerDenyAlways))
	ctx := context.Background()

	require.NoError(t, h.RequestOne(ctx))
	dialogs := h.Dialogs(ctx)
	require.Len(t, dialogs, 1)
	require.True(t, dialogs[0].PermanentlyDeclined)

	require.NoError(t, h.Confirm(ctx, dialogs[0]))

	assert.Equal(t, 1, bridge.SettingsOpened())
	assert.Equal(t, []rationale.PermissionID{rationale.PermissionCamera}, h.ViewModel().VisibleQueue())

	h.Dismiss()
	assert.Empty(t, h.Dialogs(ctx))
}

func TestHost_GrantDoesNotRemoveQueuedDialog(t *testing.T) {
	responder := platform.NewScriptedResponder(platform.AnswerGrant)
	responder.Push(string(rationale.PermissionCamera), platform.AnswerDeny)
	h, _ := newTestHost(t, responder)
	ctx := context.Background()

	require.NoError(t, h.RequestOne(ctx))
	require.NoError(t, h.RequestOne(ctx))

	assert.Equal(t, []rationale.PermissionID{rationale.PermissionCamera}, h.ViewModel().VisibleQueue())
}

func TestHost_UnrecognizedPermissionIsSkipped(t *testing.T) {
	handler := captureErrors(t)
	h, _ := newTestHost(t, nil)
	ctx := context.Background()

	h.ViewModel().OnPermissionResult(rationale.PermissionCamera, false)
	h.ViewModel().OnPermissionResult("android.permission.BODY_SENSORS", false)

	dialogs := h.Dialogs(ctx)
	assert.Equal(t, []rationale.PermissionID{rationale.PermissionCamera}, dialogPermissions(dialogs))
	require.Len(t, handler.errs, 1)
	assert.Equal(t, errors.KindCatalog, handler.errs[0].Kind)
	assert.Equal(t, "android.permission.BODY_SENSORS", handler.errs[0].Permission)
	assert.ErrorIs(t, handler.errs[0], rationale.ErrUnrecognizedPermission)
}

func TestHost_ListenersFireOnQueueChangeAndResume(t *testing.T) {
	h, bridge := newTestHost(t, nil)
	ctx := context.Background()

	calls := 0
	unsub := h.AddListener(func() { calls++ })
	defer unsub()

	require.NoError(t, h.RequestOne(ctx))
	assert.Equal(t, 1, calls)

	require.NoError(t, bridge.SetLifecycle(platform.LifecycleStatePaused))
	require.NoError(t, bridge.SetLifecycle(platform.LifecycleStateResumed))
	assert.Equal(t, 2, calls)

	h.Close()
	h.ViewModel().OnPermissionResult(rationale.PermissionRecordAudio, false)
	assert.Equal(t, 2, calls)
}

func TestHost_RequestWithoutPlatform(t *testing.T) {
	t.Cleanup(platform.ResetForTest)
	h := NewHost(NewViewModel(nil), Options{})
	defer h.Close()

	err := h.RequestAll(context.Background())
	assert.ErrorIs(t, err, platform.ErrPlatformUnavailable)
	assert.False(t, h.ViewModel().HasDialogs())
}

func countPrompts(bridge *platform.SimulatedBridge, id rationale.PermissionID) int {
	n := 0
	for _, p := range bridge.Prompts() {
		if p == string(id) {
			n++
		}
	}
	return n
}

func TestHost_PanickingListenerIsReported(t *testing.T) {
	handler := captureErrors(t)
	h, _ := newTestHost(t, nil)

	calls := 0
	h.AddListener(func() { panic("boom") })
	h.AddListener(func() { calls++ })

	require.NoError(t, h.RequestOne(context.Background()))

	assert.Equal(t, 1, calls)
	require.Len(t, handler.panics, 1)
	assert.Equal(t, "screen.listener", handler.panics[0].Op)
	assert.Equal(t, []rationale.PermissionID{rationale.PermissionCamera}, h.ViewModel().VisibleQueue())
}
