// Package termui renders rationale dialogs as terminal cards.
package termui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/permissiondemo/pkg/screen"
)

// DefaultWidth is the card width used when Renderer.Width is zero.
const DefaultWidth = 60

// Renderer draws dialogs with lipgloss styles bound to one output.
type Renderer struct {
	// Width is the outer card width. Zero means DefaultWidth.
	Width int

	card     lipgloss.Style
	top      lipgloss.Style
	title    lipgloss.Style
	body     lipgloss.Style
	button   lipgloss.Style
	settings lipgloss.Style
	muted    lipgloss.Style
}

// NewRenderer creates a renderer whose color profile matches w.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginTop(1),
		top: r.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFDF5")).
			Padding(0, 1).
			MarginTop(1),
		title: r.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		body: r.NewStyle().
			MarginTop(1).
			MarginBottom(1),
		button: r.NewStyle().
			Foreground(lipgloss.Color("#32CD32")).
			Bold(true),
		settings: r.NewStyle().
			Foreground(lipgloss.Color("#FF8C00")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#5D5DFF")),
	}
}

func (r *Renderer) width() int {
	if r.Width <= 0 {
		return DefaultWidth
	}
	return r.Width
}

// Dialog renders one card. The top card gets a double border.
func (r *Renderer) Dialog(d screen.Dialog, top bool) string {
	style := r.card
	if top {
		style = r.top
	}
	// Border and padding take four columns.
	inner := r.width() - 4

	button := r.button
	if d.PermanentlyDeclined {
		button = r.settings
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		r.title.Render(d.Title),
		r.body.Width(inner).Render(d.Text),
		lipgloss.PlaceHorizontal(inner, lipgloss.Right, button.Render("[ "+d.ActionLabel+" ]")),
	)
	return style.Width(inner + 2).Render(content)
}

// Stack renders dialogs in display order, the last one on top. An empty stack
// renders a one-line placeholder.
func (r *Renderer) Stack(dialogs []screen.Dialog) string {
	if len(dialogs) == 0 {
		return r.muted.Render("(no dialogs)")
	}
	cards := make([]string, len(dialogs))
	for i, d := range dialogs {
		cards[i] = r.Dialog(d, i == len(dialogs)-1)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Status renders a single status line such as "step 3: confirm".
func (r *Renderer) Status(format string, args ...any) string {
	return r.muted.Render(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
