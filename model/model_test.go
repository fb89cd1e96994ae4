package model

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electr1fy0/knotes/form"
	"github.com/electr1fy0/knotes/storage"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type failingKV struct {
	*storage.MemoryKV
}

func (failingKV) Set(string, string) error { return errors.New("disk full") }

type harness struct {
	m      Model
	nb     *storage.Notebook
	copied string
	dir    string
}

func newHarness(t *testing.T, kv storage.KV, notes []storage.Note) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir()}
	h.nb = storage.NewNotebook(storage.NewAdapter(kv), notes, storage.WithClock(func() time.Time { return testNow }))
	h.m = New(h.nb, Options{
		ExportDir: h.dir,
		Now:       func() time.Time { return testNow },
		Clipboard: func(s string) error {
			h.copied = s
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func seeded(t *testing.T) *harness {
	return newHarness(t, storage.NewMemoryKV(), storage.SeedNotes())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(keyMsg(string(r)))
	}
}

func (h *harness) visibleIDs() []int64 {
	items := h.m.list.Items()
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.(noteItem).note.ID
	}
	return out
}

func (h *harness) current(t *testing.T) storage.Note {
	t.Helper()
	n, ok := h.m.ctrl.Current()
	require.True(t, ok, "no current note")
	return n
}

func TestListShowsNewestFirst(t *testing.T) {
	h := seeded(t)
	assert.Equal(t, ViewList, h.m.ctrl.State())
	assert.Equal(t, []int64{3, 2, 1}, h.visibleIDs())
	assert.Equal(t, []string{"React", "Frontend", "Programming", "CSS", "Design", "JavaScript", "Async"}, h.m.labels)
}

func TestSearchFiltersLive(t *testing.T) {
	h := seeded(t)
	h.press("/")
	require.True(t, h.m.searching)

	h.typeText("CSS")
	assert.Equal(t, []int64{2}, h.visibleIDs())

	h.press("esc")
	assert.False(t, h.m.searching)
	assert.Equal(t, []int64{2}, h.visibleIDs())

	h.press("c")
	assert.Equal(t, "", h.m.search.Value())
	assert.Equal(t, []int64{3, 2, 1}, h.visibleIDs())
}

func TestLabelChipReplacesQuery(t *testing.T) {
	h := seeded(t)
	h.press("/")
	h.typeText("promise")
	h.press("esc")
	require.Equal(t, []int64{3}, h.visibleIDs())

	h.press("tab", "tab")
	require.Equal(t, 1, h.m.chip)
	h.press("enter")
	assert.Equal(t, "Frontend", h.m.search.Value())
	assert.Equal(t, -1, h.m.chip)
	assert.Equal(t, []int64{2, 1}, h.visibleIDs())
	assert.Equal(t, ViewList, h.m.ctrl.State())

	h.press("shift+tab")
	assert.Equal(t, len(h.m.labels)-1, h.m.chip)
	h.press("esc")
	assert.Equal(t, -1, h.m.chip)
}

func TestEmptyStates(t *testing.T) {
	h := newHarness(t, storage.NewMemoryKV(), nil)
	assert.Contains(t, h.m.View(), emptyNoNotes)

	h = seeded(t)
	h.press("/")
	h.typeText("kubernetes")
	assert.Contains(t, h.m.View(), emptyNoMatches)
}

func TestOpenAndBack(t *testing.T) {
	h := seeded(t)
	h.press("enter")
	require.Equal(t, ViewDetail, h.m.ctrl.State())
	assert.Equal(t, int64(3), h.current(t).ID)
	assert.Contains(t, h.m.View(), "JavaScript Promises")
	assert.Contains(t, h.m.View(), formatDate(h.current(t).CreatedAt, defaultDateFormat))

	h.press("b")
	assert.Equal(t, ViewList, h.m.ctrl.State())
	_, ok := h.m.ctrl.Current()
	assert.False(t, ok)
}

func TestDeleteOnlyAfterConfirmation(t *testing.T) {
	h := seeded(t)
	h.press("enter", "d")
	require.True(t, h.m.confirming)
	assert.Contains(t, h.m.View(), "Delete note 'JavaScript Promises'? (y/N)")

	h.press("n")
	assert.False(t, h.m.confirming)
	assert.Equal(t, 3, h.nb.Len())
	assert.Equal(t, ViewDetail, h.m.ctrl.State())

	h.press("d", "e", "x", "enter")
	assert.True(t, h.m.confirming)
	assert.Equal(t, 3, h.nb.Len())

	h.press("y")
	assert.False(t, h.m.confirming)
	assert.Equal(t, 2, h.nb.Len())
	_, ok := h.nb.Get(3)
	assert.False(t, ok)
	assert.Equal(t, ViewList, h.m.ctrl.State())
	assert.Equal(t, []int64{2, 1}, h.visibleIDs())
	assert.NotContains(t, h.m.labels, "Async")
}

func TestCreateNote(t *testing.T) {
	h := seeded(t)
	h.press("n")
	require.Equal(t, ViewCreate, h.m.ctrl.State())

	h.press("ctrl+s")
	assert.Equal(t, form.ErrEmptyTitle.Error(), h.m.form.err)
	assert.Equal(t, ViewCreate, h.m.ctrl.State())
	assert.Equal(t, 3, h.nb.Len())

	h.typeText("  Go tips ")
	assert.Empty(t, h.m.form.err)
	h.press("tab")
	h.typeText("use gofmt")
	h.press("tab")
	h.typeText("lang")
	h.press("enter")
	h.typeText("lang")
	h.press("enter")
	h.typeText("tools")
	h.press("enter", "ctrl+d")
	assert.Equal(t, []string{"lang"}, h.m.form.labels)

	h.press("ctrl+s")
	require.Equal(t, ViewList, h.m.ctrl.State())
	require.Equal(t, 4, h.nb.Len())

	ids := h.visibleIDs()
	created, ok := h.nb.Get(ids[0])
	require.True(t, ok)
	assert.Equal(t, "Go tips", created.Title)
	assert.Equal(t, "use gofmt", created.Content)
	assert.Equal(t, []string{"lang"}, created.Labels)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Contains(t, h.m.labels, "lang")
	assert.Equal(t, statusSuccess, h.m.statusLevel)
}

func TestCancelCreate(t *testing.T) {
	h := seeded(t)
	h.press("n")
	h.typeText("draft")
	h.press("esc")
	assert.Equal(t, ViewList, h.m.ctrl.State())
	assert.Equal(t, 3, h.nb.Len())
}

func TestEditNote(t *testing.T) {
	h := seeded(t)
	h.press("enter", "e")
	require.Equal(t, ViewEdit, h.m.ctrl.State())
	assert.Equal(t, "JavaScript Promises", h.m.form.title.Value())
	assert.Equal(t, []string{"JavaScript", "Programming", "Async"}, h.m.form.labels)

	h.press("ctrl+u")
	h.typeText("Promises 101")
	h.press("ctrl+s")

	require.Equal(t, ViewDetail, h.m.ctrl.State())
	assert.Equal(t, "Promises 101", h.current(t).Title)

	stored, ok := h.nb.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Promises 101", stored.Title)
	assert.Equal(t, storage.SeedNotes()[2].CreatedAt, stored.CreatedAt)
	assert.Equal(t, testNow, stored.UpdatedAt)
}

func TestEditRejectsBlankTitle(t *testing.T) {
	h := seeded(t)
	h.press("enter", "e", "ctrl+u")
	h.typeText("   ")
	h.press("ctrl+s")
	assert.Equal(t, ViewEdit, h.m.ctrl.State())
	assert.Equal(t, form.ErrEmptyTitle.Error(), h.m.form.err)

	stored, _ := h.nb.Get(3)
	assert.Equal(t, "JavaScript Promises", stored.Title)
}

func TestCancelEditKeepsNote(t *testing.T) {
	h := seeded(t)
	h.press("enter", "e")
	h.typeText(" changed")
	h.press("esc")
	assert.Equal(t, ViewDetail, h.m.ctrl.State())
	assert.Equal(t, "JavaScript Promises", h.current(t).Title)
	stored, _ := h.nb.Get(3)
	assert.Equal(t, "JavaScript Promises", stored.Title)
}

func TestEditorResultFillsForm(t *testing.T) {
	h := seeded(t)
	h.press("n")
	h.send(editorFinishedMsg{text: "---\ntitle: From editor\nlabels: a, b, a\n---\n\nbody text\n"})
	f := h.m.form.fields()
	assert.Equal(t, "From editor", f.Title)
	assert.Equal(t, []string{"a", "b"}, f.Labels)
	assert.Equal(t, "body text", strings.TrimSpace(f.Content))
	assert.Equal(t, ViewCreate, h.m.ctrl.State())

	h.send(editorFinishedMsg{err: errors.New("exit status 1")})
	assert.Equal(t, statusError, h.m.statusLevel)
	assert.Equal(t, "From editor", h.m.form.fields().Title)
}

func TestEditorResultIgnoredOutsideForm(t *testing.T) {
	h := seeded(t)
	h.send(editorFinishedMsg{text: "---\ntitle: stray\n---\n"})
	assert.Equal(t, ViewList, h.m.ctrl.State())
	assert.Empty(t, h.m.status)
}

func TestCopyContent(t *testing.T) {
	h := seeded(t)
	h.press("enter", "y")
	assert.Equal(t, storage.SeedNotes()[2].Content, h.copied)
	assert.Equal(t, statusSuccess, h.m.statusLevel)
	assert.Equal(t, ViewDetail, h.m.ctrl.State())
}

func TestExportNotes(t *testing.T) {
	h := seeded(t)
	h.press("x")
	assert.Equal(t, statusSuccess, h.m.statusLevel)

	dir := filepath.Join(h.dir, "knotes_export_"+strconv.FormatInt(testNow.Unix(), 10))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	data, err := os.ReadFile(filepath.Join(dir, "2-CSS Grid Layout Tips.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `labels: ["CSS","Frontend","Design"]`)
}

func TestWriteFailureKeepsNoteAndWarns(t *testing.T) {
	h := newHarness(t, failingKV{storage.NewMemoryKV()}, storage.SeedNotes())
	h.press("n")
	h.typeText("offline")
	h.press("ctrl+s")

	assert.Equal(t, ViewList, h.m.ctrl.State())
	assert.Equal(t, 4, h.nb.Len())
	assert.Equal(t, statusWarn, h.m.statusLevel)
}

func TestQuitKeys(t *testing.T) {
	h := seeded(t)
	cmd := h.send(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	h.press("n", "q")
	assert.Equal(t, ViewCreate, h.m.ctrl.State())
	assert.Equal(t, "q", h.m.form.title.Value())

	h.press("esc")
	cmd = h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
