package termui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/permissiondemo/pkg/rationale"
	"github.com/go-drift/permissiondemo/pkg/screen"
)

// flatten collapses the card to its words so wrapped text can be compared.
func flatten(s string) string {
	s = strings.NewReplacer("│", " ", "║", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func TestDialog(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	d, err := screen.NewDialog(rationale.PermissionCamera, false)
	require.NoError(t, err)

	out := r.Dialog(d, false)
	flat := flatten(out)
	assert.Contains(t, flat, screen.DialogTitle)
	assert.Contains(t, flat, d.Text)
	assert.Contains(t, flat, "[ OK ]")
	assert.Contains(t, out, "╭")

	top := r.Dialog(d, true)
	assert.Contains(t, top, "╔")
}

func TestDialogWidth(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	r.Width = 40
	d, err := screen.NewDialog(rationale.PermissionReadContacts, true)
	require.NoError(t, err)

	out := r.Dialog(d, true)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40, line)
	}
	assert.Contains(t, flatten(out), "[ Grant permission ]")
}

func TestStack(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	assert.Equal(t, "(no dialogs)", r.Stack(nil))

	audio, err := screen.NewDialog(rationale.PermissionRecordAudio, false)
	require.NoError(t, err)
	camera, err := screen.NewDialog(rationale.PermissionCamera, false)
	require.NoError(t, err)

	out := r.Stack([]screen.Dialog{audio, camera})
	assert.Equal(t, 1, strings.Count(out, "╔"))
	assert.Less(t, strings.Index(flatten(out), audio.Text), strings.Index(flatten(out), camera.Text))
}
