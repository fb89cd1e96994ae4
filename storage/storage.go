package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/electr1fy0/knotes/crypto"
)

// StorageKey is the single KV entry holding the whole collection.
const StorageKey = "knowledgeNotes"

const (
	BackendBolt      = "bolt"
	BackendFile      = "file"
	BackendSQLCipher = "sqlcipher"
	BackendMemory    = "memory"
)

var (
	ErrNotFound           = errors.New("note not found")
	ErrPersistenceRead    = errors.New("stored notes absent or unreadable")
	ErrUnreadable         = errors.New("stored notes exist but cannot be read")
	ErrPersistenceWrite   = errors.New("failed to persist notes")
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// Persister loads and saves the full note collection.
type Persister interface {
	Load() ([]Note, error)
	Save(notes []Note) error
}

// Adapter persists notes as one JSON array under StorageKey.
type Adapter struct {
	kv  KV
	key string
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv, key: StorageKey}
}

// Load returns ErrPersistenceRead only when the key is absent or holds
// malformed JSON. A value that exists but cannot be read yields ErrLocked or
// ErrUnreadable, so it is never mistaken for an empty store.
func (a *Adapter) Load() ([]Note, error) {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		if errors.Is(err, ErrLocked) || errors.Is(err, ErrUnreadable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no value for %q", ErrPersistenceRead, a.key)
	}
	notes, err := decodeNotes([]byte(raw))
	if err != nil {
		if crypto.LooksSealed(raw) {
			return nil, fmt.Errorf("%w: value is sealed but no passphrase is set", ErrLocked)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceRead, err)
	}
	return notes, nil
}

func (a *Adapter) Save(notes []Note) error {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	if err := a.kv.Set(a.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return nil
}

type wireNote struct {
	ID        *int64     `json:"id"`
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Labels    []string   `json:"labels"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

func decodeNotes(data []byte) ([]Note, error) {
	var wire []wireNote
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, errors.New("value is not an array")
	}
	seen := make(map[int64]struct{}, len(wire))
	notes := make([]Note, 0, len(wire))
	for i, w := range wire {
		switch {
		case w.ID == nil || *w.ID <= 0:
			return nil, fmt.Errorf("note %d: missing or invalid id", i)
		case w.Title == nil || strings.TrimSpace(*w.Title) == "":
			return nil, fmt.Errorf("note %d: missing title", i)
		case w.CreatedAt == nil || w.UpdatedAt == nil:
			return nil, fmt.Errorf("note %d: missing timestamps", i)
		case w.UpdatedAt.Before(*w.CreatedAt):
			return nil, fmt.Errorf("note %d: updatedAt before createdAt", i)
		}
		if _, dup := seen[*w.ID]; dup {
			return nil, fmt.Errorf("note %d: duplicate id %d", i, *w.ID)
		}
		seen[*w.ID] = struct{}{}
		n := Note{
			ID:        *w.ID,
			Title:     *w.Title,
			Labels:    w.Labels,
			CreatedAt: *w.CreatedAt,
			UpdatedAt: *w.UpdatedAt,
		}
		if w.Content != nil {
			n.Content = *w.Content
		}
		notes = append(notes, n.Clone())
	}
	return notes, nil
}

// LoadOrSeed loads the stored collection, falling back to the seed notes when
// the key is absent or malformed. seeded tells the caller to write the seed
// back. Stored data that cannot be read is returned as an error instead.
func LoadOrSeed(p Persister, logger *slog.Logger) ([]Note, bool, error) {
	notes, err := p.Load()
	if err == nil {
		return notes, false, nil
	}
	if !errors.Is(err, ErrPersistenceRead) {
		return nil, false, err
	}
	if logger != nil {
		logger.Warn("using seed notes", "reason", err.Error())
	}
	return SeedNotes(), true, nil
}

// Options selects and configures a KV backend.
type Options struct {
	Backend    string
	Path       string
	Passphrase string
}

// DataDir is where backends keep their files unless a path is configured.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".knotes"), nil
}

// DefaultPath returns the default file for a backend.
func DefaultPath(backend string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendBolt:
		return filepath.Join(dir, "notes.db"), nil
	case BackendFile:
		return filepath.Join(dir, "notes.json"), nil
	case BackendSQLCipher:
		return filepath.Join(dir, "notes.sqlite"), nil
	case BackendMemory:
		return "", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
}

// OpenKV opens the configured backend. A passphrase seals values for every
// backend except sqlcipher, which encrypts the whole database itself.
func OpenKV(opts Options) (KV, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		p, err := DefaultPath(opts.Backend)
		if err != nil {
			return nil, err
		}
		path = p
	}

	var (
		kv  KV
		err error
	)
	switch opts.Backend {
	case BackendBolt:
		kv, err = OpenBoltKV(path)
	case BackendFile:
		kv, err = OpenFileKV(path)
	case BackendSQLCipher:
		kv, err = OpenSQLCipherKV(path, opts.Passphrase)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Passphrase != "" {
		kv = NewSealedKV(kv, opts.Passphrase)
	}
	return kv, nil
}
