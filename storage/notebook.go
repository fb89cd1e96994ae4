package storage

import (
	"fmt"
	"log/slog"
	"time"
)

// Notebook owns the note collection and writes it through its Persister after
// every mutation. It is not safe for concurrent use; callers drive it from a
// single event loop.
//
// When the write fails the in-memory change is kept and the returned error
// wraps ErrPersistenceWrite.
type Notebook struct {
	notes     []Note
	index     map[int64]int
	persister Persister
	now       func() time.Time
	lastID    int64
	logger    *slog.Logger
}

type Option func(*Notebook)

// WithClock replaces time.Now as the source of ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(nb *Notebook) { nb.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(nb *Notebook) { nb.logger = logger }
}

// NewNotebook builds a notebook over notes. A nil Persister keeps notes in
// memory only.
func NewNotebook(p Persister, notes []Note, opts ...Option) *Notebook {
	nb := &Notebook{
		notes:     make([]Note, 0, len(notes)),
		index:     make(map[int64]int, len(notes)),
		persister: p,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(nb)
	}
	for _, n := range notes {
		if _, dup := nb.index[n.ID]; dup {
			nb.logger.Warn("dropping note with duplicate id", "id", n.ID)
			continue
		}
		nb.index[n.ID] = len(nb.notes)
		nb.notes = append(nb.notes, n.Clone())
		if n.ID > nb.lastID {
			nb.lastID = n.ID
		}
	}
	return nb
}

// Create stores a validated draft under a fresh id.
func (nb *Notebook) Create(d NewNoteDraft) (Note, error) {
	now := nb.now()
	id := now.UnixMilli()
	if id <= nb.lastID {
		id = nb.lastID + 1
	}
	if _, exists := nb.index[id]; exists {
		panic(fmt.Sprintf("storage: note id %d already in use", id))
	}
	note := Note{
		ID:        id,
		Title:     d.Title,
		Content:   d.Content,
		Labels:    d.Labels,
		CreatedAt: now,
		UpdatedAt: now,
	}.Clone()
	nb.index[id] = len(nb.notes)
	nb.notes = append(nb.notes, note)
	nb.lastID = id
	nb.logger.Info("note created", "id", id, "labels", len(note.Labels))
	return note.Clone(), nb.persist()
}

// Update replaces title, content and labels of an existing note.
func (nb *Notebook) Update(d ExistingNoteDraft) (Note, error) {
	i, ok := nb.index[d.ID]
	if !ok {
		return Note{}, fmt.Errorf("update %d: %w", d.ID, ErrNotFound)
	}
	note := nb.notes[i]
	note.Title = d.Title
	note.Content = d.Content
	note.Labels = d.Labels
	note = note.Clone()
	if now := nb.now(); now.After(note.UpdatedAt) {
		note.UpdatedAt = now
	}
	nb.notes[i] = note
	nb.logger.Info("note updated", "id", d.ID)
	return note.Clone(), nb.persist()
}

// Delete removes the note with id. Deleting a missing id does nothing.
func (nb *Notebook) Delete(id int64) error {
	i, ok := nb.index[id]
	if !ok {
		return nil
	}
	nb.notes = append(nb.notes[:i], nb.notes[i+1:]...)
	delete(nb.index, id)
	for j := i; j < len(nb.notes); j++ {
		nb.index[nb.notes[j].ID] = j
	}
	nb.logger.Info("note deleted", "id", id)
	return nb.persist()
}

func (nb *Notebook) Get(id int64) (Note, bool) {
	i, ok := nb.index[id]
	if !ok {
		return Note{}, false
	}
	return nb.notes[i].Clone(), true
}

// List returns copies of all notes in insertion order.
func (nb *Notebook) List() []Note {
	return cloneNotes(nb.notes)
}

func (nb *Notebook) Len() int {
	return len(nb.notes)
}

// Labels is the label universe of the current notes.
func (nb *Notebook) Labels() []string {
	return LabelUniverse(nb.notes)
}

// Save writes the current collection, e.g. to persist seed notes.
func (nb *Notebook) Save() error {
	return nb.persist()
}

func (nb *Notebook) persist() error {
	if nb.persister == nil {
		return nil
	}
	if err := nb.persister.Save(nb.notes); err != nil {
		nb.logger.Error("persist notes", "err", err, "count", len(nb.notes))
		return err
	}
	return nil
}
