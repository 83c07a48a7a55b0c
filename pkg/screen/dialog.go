package screen

import "github.com/go-drift/permissiondemo/pkg/rationale"

// Dialog labels.
const (
	DialogTitle      = "Permission required"
	ActionOK         = "OK"
	ActionGoSettings = "Grant permission"
)

// Dialog describes one rationale dialog ready to render.
type Dialog struct {
	Permission rationale.PermissionID
	Kind       rationale.Kind
	Title      string
	Text       string
	// ActionLabel is the label of the single dialog button.
	ActionLabel string
	// PermanentlyDeclined means the button opens the app settings instead of
	// asking for the permission again.
	PermanentlyDeclined bool
}

// NewDialog builds the dialog for a denied permission. It fails with
// rationale.ErrUnrecognizedPermission for permissions without rationale text.
func NewDialog(permission rationale.PermissionID, permanentlyDeclined bool) (Dialog, error) {
	text, err := rationale.Describe(permission, permanentlyDeclined)
	if err != nil {
		return Dialog{}, err
	}
	kind, _ := rationale.KindOf(permission)
	label := ActionOK
	if permanentlyDeclined {
		label = ActionGoSettings
	}
	return Dialog{
		Permission:          permission,
		Kind:                kind,
		Title:               DialogTitle,
		Text:                text,
		ActionLabel:         label,
		PermanentlyDeclined: permanentlyDeclined,
	}, nil
}
