package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldDef describes one input of a [form].
type fieldDef struct {
	key    string
	label  string
	secret bool
}

type field struct {
	def   fieldDef
	input textinput.Model
}

// form is a vertical list of text inputs with a single focused field.
type form struct {
	fields []field
	focus  int
	keys   keyMap
}

func newForm(defs ...fieldDef) form {
	f := form{fields: make([]field, len(defs)), keys: newKeyMap()}
	for i, def := range defs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = def.label
		in.CharLimit = 256
		in.Width = 40
		if def.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields[i] = field{def: def, input: in}
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Update moves focus on navigation keys and forwards everything else to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.next):
			return f.setFocus(f.focus + 1)
		case key.Matches(km, f.keys.prev):
			return f.setFocus(f.focus - 1)
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	f.fields[f.focus].input.Blur()
	f.focus = ((i % n) + n) % n
	return f.fields[f.focus].input.Focus()
}

// Focused returns the key of the focused field.
func (f form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].def.key
}

func (f form) Value(key string) string {
	for _, fd := range f.fields {
		if fd.def.key == key {
			return fd.input.Value()
		}
	}
	return ""
}

func (f *form) SetValue(key, value string) {
	for i := range f.fields {
		if f.fields[i].def.key == key {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

// Reset clears every input and focuses the first one.
func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	if len(f.fields) > 0 {
		f.setFocus(0)
	}
}

func (f form) View() string {
	var b strings.Builder
	for i, fd := range f.fields {
		cursor := "  "
		if i == f.focus {
			cursor = styles.active.UnsetPadding().UnsetUnderline().Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(styles.label.Render(fd.def.label))
		b.WriteString(fd.input.View())
		b.WriteString("\n")
	}
	return b.String()
}
