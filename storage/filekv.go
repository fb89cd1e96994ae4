package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV stores every key in a single JSON document on disk.
// The whole file is rewritten on each Set.
type FileKV struct {
	path string
	Data map[string]string `json:"data"`
}

func OpenFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f := &FileKV{path: path, Data: make(map[string]string)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Data == nil {
		f.Data = make(map[string]string)
	}
	return f, nil
}

func (f *FileKV) Get(key string) (string, bool, error) {
	v, ok := f.Data[key]
	return v, ok, nil
}

func (f *FileKV) Set(key, value string) error {
	prev, had := f.Data[key]
	f.Data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.Data[key] = prev
		} else {
			delete(f.Data, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) Close() error { return nil }

func (f *FileKV) flush() error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
