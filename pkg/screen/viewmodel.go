package screen

import (
	"github.com/sirupsen/logrus"

	"github.com/go-drift/permissiondemo/pkg/errors"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

// ViewModel holds the screen state that outlives a single render: the queue
// of permissions waiting for a rationale dialog.
type ViewModel struct {
	queue *rationale.Queue
	log   logrus.FieldLogger
}

// NewViewModel creates a view-model with an empty dialog queue.
// A nil logger falls back to the standard logrus logger.
func NewViewModel(log logrus.FieldLogger) *ViewModel {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ViewModel{
		queue: rationale.NewQueue(),
		log:   log,
	}
}

// OnPermissionResult records the outcome of one permission request.
func (vm *ViewModel) OnPermissionResult(permission rationale.PermissionID, granted bool) {
	before := vm.queue.Len()
	vm.queue.RecordResult(permission, granted)
	vm.log.WithFields(logrus.Fields{
		"permission": permission,
		"granted":    granted,
		"queued":     vm.queue.Len() > before,
	}).Debug("permission result")
}

// DismissDialog removes the dialog that was queued first. Dismissing with no
// dialog queued is reported and otherwise ignored.
func (vm *ViewModel) DismissDialog() {
	permission, err := vm.queue.TryDismissFront()
	if err != nil {
		errors.Report(&errors.AppError{
			Op:   "screen.DismissDialog",
			Kind: errors.KindQueue,
			Err:  err,
		})
		return
	}
	vm.log.WithField("permission", permission).Debug("dialog dismissed")
}

// VisibleQueue returns the queued permissions with the most recent denial first.
func (vm *ViewModel) VisibleQueue() []rationale.PermissionID {
	return vm.queue.FrontToBack()
}

// HasDialogs reports whether any rationale dialog is pending.
func (vm *ViewModel) HasDialogs() bool {
	return vm.queue.Len() > 0
}

// AddListener registers fn to run whenever the dialog queue changes.
func (vm *ViewModel) AddListener(fn func()) (unsubscribe func()) {
	return vm.queue.AddListener(fn)
}
