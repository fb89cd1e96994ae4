package model

import "github.com/charmbracelet/bubbles/key"

type listKeys struct {
	Search   key.Binding
	NextChip key.Binding
	PrevChip key.Binding
	Clear    key.Binding
	New      key.Binding
	Open     key.Binding
	Export   key.Binding
	Quit     key.Binding
}

type searchKeys struct {
	Done key.Binding
}

type detailKeys struct {
	Edit   key.Binding
	Delete key.Binding
	Copy   key.Binding
	Back   key.Binding
}

type formKeys struct {
	NextField   key.Binding
	PrevField   key.Binding
	AddLabel    key.Binding
	RemoveLabel key.Binding
	Save        key.Binding
	Editor      key.Binding
	Cancel      key.Binding
}

type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

type keyMap struct {
	List      listKeys
	Search    searchKeys
	Detail    detailKeys
	Form      formKeys
	Confirm   confirmKeys
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		List: listKeys{
			Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
			NextChip: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "labels")),
			PrevChip: key.NewBinding(key.WithKeys("shift+tab")),
			Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
			New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
			Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		},
		Search: searchKeys{
			Done: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "done")),
		},
		Detail: detailKeys{
			Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
			Back:   key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "back")),
		},
		Form: formKeys{
			NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			PrevField:   key.NewBinding(key.WithKeys("shift+tab")),
			AddLabel:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add label")),
			RemoveLabel: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "drop label")),
			Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
			Editor:      key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "$EDITOR")),
			Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
		Confirm: confirmKeys{
			Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
			No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
		},
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k listKeys) help() []key.Binding {
	return []key.Binding{k.New, k.Open, k.Search, k.NextChip, k.Clear, k.Export, k.Quit}
}

func (k detailKeys) help() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Copy, k.Back}
}

func (k formKeys) help() []key.Binding {
	return []key.Binding{k.NextField, k.AddLabel, k.RemoveLabel, k.Save, k.Editor, k.Cancel}
}

func (k confirmKeys) help() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}
