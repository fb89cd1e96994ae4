package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

const (
	emptyNoMatches = "No notes match your search criteria"
	emptyNoNotes   = "No notes yet. Create your first note!"
)

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("knotes · knowledge notes"))
	s.WriteString("\n\n")

	var bindings []key.Binding
	switch {
	case m.confirming:
		n, _ := m.ctrl.Current()
		s.WriteString(confirmStyle.Render(warningStyle.Render(fmt.Sprintf("Delete note '%s'? (y/N)", n.Title))))
		bindings = m.keys.Confirm.help()
	case m.ctrl.State() == ViewList:
		m.listView(&s)
		bindings = m.keys.List.help()
		if m.searching {
			bindings = []key.Binding{m.keys.Search.Done}
		}
	case m.ctrl.State() == ViewDetail:
		m.detailView(&s)
		bindings = m.keys.Detail.help()
	case m.ctrl.State() == ViewCreate:
		s.WriteString(m.form.View("New note"))
		bindings = m.keys.Form.help()
	case m.ctrl.State() == ViewEdit:
		s.WriteString(m.form.View("Edit note"))
		bindings = m.keys.Form.help()
	}

	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView(bindings))
	if m.status != "" {
		s.WriteString("\n")
		s.WriteString(m.statusView())
	}
	return s.String()
}

func (m Model) listView(s *strings.Builder) {
	s.WriteString(m.search.View())
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Labels"))
	s.WriteString(" ")
	s.WriteString(renderChips(m.labels, m.chip))
	s.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		if m.search.Value() != "" {
			s.WriteString(helpStyle.Render(emptyNoMatches))
		} else {
			s.WriteString(helpStyle.Render(emptyNoNotes))
		}
		return
	}
	s.WriteString(m.list.View())
}

func (m Model) detailView(s *strings.Builder) {
	n, ok := m.ctrl.Current()
	if !ok {
		return
	}
	s.WriteString(titleStyle.Render(n.Title))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("Created: %s · Updated: %s",
		formatDate(n.CreatedAt, m.dateFormat), formatDate(n.UpdatedAt, m.dateFormat))))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Labels"))
	s.WriteString(" ")
	s.WriteString(renderChips(n.Labels, -1))
	s.WriteString("\n")
	s.WriteString(m.detail.View())
}

func (m Model) statusView() string {
	switch m.statusLevel {
	case statusSuccess:
		return successStyle.Render(m.status)
	case statusWarn:
		return warningStyle.Render(m.status)
	case statusError:
		return errorStyle.Render(m.status)
	}
	return helpStyle.Render(m.status)
}
