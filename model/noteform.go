package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/electr1fy0/knotes/form"
	"github.com/electr1fy0/knotes/storage"
)

type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldLabel
	fieldCount
)

// noteForm is the create/edit form. It holds raw input; normalizing is left
// to the form package on save.
type noteForm struct {
	title   textinput.Model
	content textarea.Model
	label   textinput.Model
	labels  []string
	focus   formField
	err     string
	keys    formKeys
}

func newNoteForm(f storage.Fields, keys formKeys) noteForm {
	ti := textinput.New()
	ti.Placeholder = "Note title"
	ti.CharLimit = 200
	ti.Width = 50

	ta := textarea.New()
	ta.Placeholder = "Write your note here (markdown)..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(60)
	ta.SetHeight(10)

	li := textinput.New()
	li.Placeholder = "Add a label and press enter"
	li.CharLimit = 50
	li.Width = 40

	nf := noteForm{title: ti, content: ta, label: li, keys: keys}
	nf.setFields(f)
	nf.setFocus(fieldTitle)
	return nf
}

func (f *noteForm) setFields(in storage.Fields) {
	f.title.SetValue(in.Title)
	f.content.SetValue(in.Content)
	f.labels = append([]string{}, in.Labels...)
}

func (f noteForm) fields() storage.Fields {
	return storage.Fields{
		Title:   f.title.Value(),
		Content: f.content.Value(),
		Labels:  append([]string{}, f.labels...),
	}
}

func (f *noteForm) setSize(width, height int) {
	w := max(width-4, 20)
	f.title.Width = w
	f.label.Width = w
	f.content.SetWidth(w)
	// title, labels, chips, help and status take about 12 lines
	f.content.SetHeight(max(height-12, 3))
}

func (f *noteForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.content.Blur()
	f.label.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldContent:
		return f.content.Focus()
	default:
		return f.label.Focus()
	}
}

func (f noteForm) Update(msg tea.Msg) (noteForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.keys.NextField):
			return f, f.setFocus((f.focus + 1) % fieldCount)
		case key.Matches(msg, f.keys.PrevField):
			return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, f.keys.RemoveLabel):
			if n := len(f.labels); n > 0 {
				f.labels = form.RemoveLabel(f.labels, f.labels[n-1])
			}
			return f, nil
		case key.Matches(msg, f.keys.AddLabel) && f.focus == fieldLabel:
			if labels, added := form.AddLabel(f.labels, f.label.Value()); added {
				f.labels = labels
			}
			f.label.Reset()
			return f, nil
		case key.Matches(msg, f.keys.AddLabel) && f.focus == fieldTitle:
			return f, f.setFocus(fieldContent)
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if f.title.Value() != before {
			f.err = ""
		}
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	default:
		f.label, cmd = f.label.Update(msg)
	}
	return f, cmd
}

func (f noteForm) View(heading string) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(heading))
	s.WriteString("\n\n")
	s.WriteString(fieldStyle.Render("Title"))
	s.WriteString("\n")
	s.WriteString(f.title.View())
	s.WriteString("\n\n")
	s.WriteString(fieldStyle.Render("Content"))
	s.WriteString("\n")
	s.WriteString(f.content.View())
	s.WriteString("\n\n")
	s.WriteString(fieldStyle.Render("Labels"))
	s.WriteString(" ")
	s.WriteString(renderChips(f.labels, -1))
	s.WriteString("\n")
	s.WriteString(f.label.View())
	if f.err != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(f.err))
	}
	return s.String()
}
