package model

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/electr1fy0/knotes/form"
	"github.com/electr1fy0/knotes/query"
	"github.com/electr1fy0/knotes/storage"
	"github.com/electr1fy0/knotes/utils"
)

// defaultDateFormat renders like "May 1, 2025, 10:30 AM".
const defaultDateFormat = "Jan 2, 2006, 03:04 PM"

// Options tune a Model. Zero values pick the defaults.
type Options struct {
	Logger     *slog.Logger
	DateFormat string
	// ExportDir is where export directories are created, "." by default.
	ExportDir string
	Clipboard func(string) error
	Now       func() time.Time
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusWarn
	statusError
)

type editorFinishedMsg struct {
	text string
	err  error
}

type noteItem struct {
	note       storage.Note
	dateFormat string
}

func (i noteItem) FilterValue() string { return i.note.Title }
func (i noteItem) Title() string       { return i.note.Title }

func (i noteItem) Description() string {
	desc := "Updated: " + formatDate(i.note.UpdatedAt, i.dateFormat)
	if len(i.note.Labels) > 0 {
		desc += " • " + strings.Join(i.note.Labels, ", ")
	}
	if p := preview(i.note.Content, 60); p != "" {
		desc += " • " + p
	}
	return desc
}

// Model is the bubbletea program. Store calls happen synchronously inside
// Update; the only work done outside it is the external editor.
type Model struct {
	nb   *storage.Notebook
	ctrl Controller
	keys keyMap
	help help.Model
	log  *slog.Logger

	dateFormat string
	exportDir  string
	clipboard  func(string) error
	now        func() time.Time

	width  int
	height int

	list      list.Model
	search    textinput.Model
	searching bool
	labels    []string
	chip      int

	detail     viewport.Model
	form       noteForm
	confirming bool

	status      string
	statusLevel statusLevel
}

func New(nb *storage.Notebook, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.DateFormat == "" {
		opts.DateFormat = defaultDateFormat
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	si := textinput.New()
	si.Prompt = "Search: "
	si.Placeholder = "title, content or label..."
	si.CharLimit = 100
	si.Width = 40

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notes"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := defaultKeyMap()
	m := Model{
		nb:         nb,
		keys:       keys,
		help:       help.New(),
		log:        opts.Logger,
		dateFormat: opts.DateFormat,
		exportDir:  opts.ExportDir,
		clipboard:  opts.Clipboard,
		now:        opts.Now,
		list:       l,
		search:     si,
		chip:       -1,
		detail:     viewport.New(80, 20),
		form:       newNoteForm(storage.Fields{}, keys.Form),
	}
	m.refreshList()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case editorFinishedMsg:
		m.editorFinished(msg)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
	}

	if m.confirming {
		return m.updateConfirm(msg)
	}
	switch m.ctrl.State() {
	case ViewList:
		return m.updateList(msg)
	case ViewDetail:
		return m.updateDetail(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	// header, search, chips, help and status
	m.list.SetSize(width-4, max(height-10, 3))
	m.search.Width = max(width-12, 10)
	m.detail.Width = max(width-4, 20)
	m.detail.Height = max(height-11, 3)
	m.form.setSize(width, height)
	if m.ctrl.State() == ViewDetail {
		m.renderDetail()
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.searching {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Search.Done) {
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.chip = -1
			m.refreshList()
		}
		return m, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, m.keys.List.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.List.Search):
		m.searching = true
		m.chip = -1
		return m, m.search.Focus()
	case key.Matches(km, m.keys.List.NextChip):
		if n := len(m.labels); n > 0 {
			m.chip = (m.chip + 1) % n
		}
		return m, nil
	case key.Matches(km, m.keys.List.PrevChip):
		if n := len(m.labels); n > 0 {
			if m.chip <= 0 {
				m.chip = n - 1
			} else {
				m.chip--
			}
		}
		return m, nil
	case km.Type == tea.KeyEsc:
		m.chip = -1
		return m, nil
	case key.Matches(km, m.keys.List.Open):
		if m.chip >= 0 && m.chip < len(m.labels) {
			label := m.labels[m.chip]
			m.setQuery(label)
			m.setStatus(statusInfo, "Filtered by label: "+label)
			return m, nil
		}
		m.openSelected()
		return m, nil
	case key.Matches(km, m.keys.List.Clear):
		if m.search.Value() != "" {
			m.setQuery("")
			m.setStatus(statusInfo, "Cleared search")
		}
		return m, nil
	case key.Matches(km, m.keys.List.New):
		if err := m.ctrl.New(); err != nil {
			m.transitionFailed(err)
			return m, nil
		}
		m.form = newNoteForm(storage.Fields{}, m.keys.Form)
		m.form.setSize(m.width, m.height)
		m.clearStatus()
		return m, textinput.Blink
	case key.Matches(km, m.keys.List.Export):
		m.export()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(km, m.keys.Detail.Back):
			if err := m.ctrl.Back(); err != nil {
				m.transitionFailed(err)
			}
			m.refreshList()
			return m, nil
		case key.Matches(km, m.keys.Detail.Edit):
			n, _ := m.ctrl.Current()
			if err := m.ctrl.Edit(); err != nil {
				m.transitionFailed(err)
				return m, nil
			}
			m.form = newNoteForm(storage.Fields{Title: n.Title, Content: n.Content, Labels: n.Labels}, m.keys.Form)
			m.form.setSize(m.width, m.height)
			m.clearStatus()
			return m, textinput.Blink
		case key.Matches(km, m.keys.Detail.Delete):
			m.confirming = true
			return m, nil
		case key.Matches(km, m.keys.Detail.Copy):
			m.copyCurrent()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// updateConfirm runs the delete overlay. Nothing but an explicit yes reaches
// the store.
func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm.Yes):
		m.confirming = false
		m.deleteCurrent()
	case key.Matches(km, m.keys.Confirm.No):
		m.confirming = false
		m.setStatus(statusInfo, "Delete cancelled")
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Form.Save):
			m.save()
			return m, nil
		case key.Matches(km, m.keys.Form.Editor):
			return m, m.openEditor()
		case key.Matches(km, m.keys.Form.Cancel):
			if err := m.ctrl.Cancel(); err != nil {
				m.transitionFailed(err)
				return m, nil
			}
			if m.ctrl.State() == ViewDetail {
				m.renderDetail()
			}
			m.clearStatus()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m *Model) save() {
	creating := m.ctrl.State() == ViewCreate
	fields := m.form.fields()

	var (
		note storage.Note
		err  error
	)
	if creating {
		d, verr := form.ValidateNew(storage.NewNoteDraft{Fields: fields})
		if verr != nil {
			m.form.err = verr.Error()
			return
		}
		note, err = m.nb.Create(d)
	} else {
		cur, _ := m.ctrl.Current()
		d, verr := form.ValidateExisting(storage.ExistingNoteDraft{ID: cur.ID, Fields: fields})
		if verr != nil {
			m.form.err = verr.Error()
			return
		}
		note, err = m.nb.Update(d)
	}
	if err != nil && !errors.Is(err, storage.ErrPersistenceWrite) {
		m.log.Error("save note", "err", err)
		m.form.err = err.Error()
		return
	}

	if terr := m.ctrl.Saved(note); terr != nil {
		m.transitionFailed(terr)
		return
	}
	m.refreshList()
	m.selectNote(note.ID)
	if m.ctrl.State() == ViewDetail {
		m.renderDetail()
	}

	switch {
	case err != nil:
		m.persistFailed(err)
	case creating:
		m.log.Info("note created", "id", note.ID)
		m.setStatus(statusSuccess, "Created: "+note.Title)
	default:
		m.log.Info("note updated", "id", note.ID)
		m.setStatus(statusSuccess, "Saved: "+note.Title)
	}
}

func (m *Model) deleteCurrent() {
	n, ok := m.ctrl.Current()
	if !ok {
		return
	}
	err := m.nb.Delete(n.ID)
	if terr := m.ctrl.Deleted(); terr != nil {
		m.transitionFailed(terr)
	}
	m.refreshList()
	if err != nil {
		m.persistFailed(err)
		return
	}
	m.log.Info("note deleted", "id", n.ID)
	m.setStatus(statusSuccess, "Deleted: "+n.Title)
}

func (m *Model) openSelected() {
	it, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return
	}
	n, found := m.nb.Get(it.note.ID)
	if !found {
		m.refreshList()
		return
	}
	if err := m.ctrl.Select(n); err != nil {
		m.transitionFailed(err)
		return
	}
	m.clearStatus()
	m.renderDetail()
}

func (m *Model) openEditor() tea.Cmd {
	sess, err := utils.NewEditSession(editDocument(m.form.fields()))
	if err != nil {
		m.log.Warn("open editor", "err", err)
		m.setStatus(statusError, "Editor failed: "+err.Error())
		return nil
	}
	return tea.ExecProcess(sess.Cmd, func(err error) tea.Msg {
		if err != nil {
			sess.Cleanup()
			return editorFinishedMsg{err: err}
		}
		text, err := sess.Result()
		return editorFinishedMsg{text: text, err: err}
	})
}

func (m *Model) editorFinished(msg editorFinishedMsg) {
	if s := m.ctrl.State(); s != ViewCreate && s != ViewEdit {
		return
	}
	if msg.err != nil {
		m.log.Warn("editor", "err", msg.err)
		m.setStatus(statusError, "Editor failed: "+msg.err.Error())
		return
	}
	m.form.setFields(parseDocument(msg.text, m.form.fields()))
	m.form.err = ""
	m.setStatus(statusInfo, "Loaded from editor; ctrl+s to save")
}

func (m *Model) copyCurrent() {
	n, ok := m.ctrl.Current()
	if !ok {
		return
	}
	if err := m.clipboard(n.Content); err != nil {
		m.log.Warn("copy to clipboard", "err", err)
		m.setStatus(statusError, "Copy failed: "+err.Error())
		return
	}
	m.setStatus(statusSuccess, "Copied content of "+n.Title)
}

func (m *Model) export() {
	notes := query.SortByRecency(m.nb.List())
	dir, err := exportNotes(notes, m.exportDir, m.now())
	if err != nil {
		m.log.Error("export notes", "err", err)
		m.setStatus(statusError, "Export failed: "+err.Error())
		return
	}
	m.log.Info("notes exported", "dir", dir, "count", len(notes))
	m.setStatus(statusSuccess, fmt.Sprintf("Exported %d notes to %s", len(notes), dir))
}

func (m *Model) setQuery(q string) {
	m.search.SetValue(q)
	m.chip = -1
	m.refreshList()
}

// refreshList rebuilds the list items and the label chips from the store.
func (m *Model) refreshList() {
	visible := query.Visible(m.nb.List(), m.search.Value())
	items := make([]list.Item, len(visible))
	for i, n := range visible {
		items[i] = noteItem{note: n, dateFormat: m.dateFormat}
	}
	m.list.SetItems(items)
	if m.list.Index() >= len(items) {
		m.list.Select(max(len(items)-1, 0))
	}

	m.labels = m.nb.Labels()
	if m.chip >= len(m.labels) {
		m.chip = -1
	}
}

func (m *Model) selectNote(id int64) {
	for i, it := range m.list.Items() {
		if it.(noteItem).note.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) renderDetail() {
	n, ok := m.ctrl.Current()
	if !ok {
		return
	}
	m.detail.SetContent(renderNote(n.Content, m.detail.Width))
	m.detail.GotoTop()
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.status, m.statusLevel = text, level
}

func (m *Model) clearStatus() {
	m.status, m.statusLevel = "", statusInfo
}

func (m *Model) persistFailed(err error) {
	m.setStatus(statusWarn, "Kept in memory, not written to disk: "+err.Error())
}

func (m *Model) transitionFailed(err error) {
	m.log.Error("view transition", "err", err, "view", m.ctrl.State().String())
}
