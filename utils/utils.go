// Package utils hands a document to the user's editor.
package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var ErrNoEditor = errors.New("no editor found; set $EDITOR")

// Editor resolves the editor command line: $VISUAL, then $EDITOR, then
// nvim or vi from PATH.
func Editor() ([]string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if args := strings.Fields(os.Getenv(env)); len(args) > 0 {
			return args, nil
		}
	}
	for _, name := range []string{"nvim", "vi"} {
		if p, err := exec.LookPath(name); err == nil {
			return []string{p}, nil
		}
	}
	return nil, ErrNoEditor
}

// EditSession is a temporary markdown file and the command that edits it.
// The caller runs Cmd (usually through tea.ExecProcess) and then calls
// Result, which also removes the file.
type EditSession struct {
	Path string
	Cmd  *exec.Cmd
}

func NewEditSession(initial string) (*EditSession, error) {
	args, err := Editor()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "knotes-*.md")
	if err != nil {
		return nil, fmt.Errorf("os.CreateTemp: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(initial); err != nil {
		_ = tmp.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close %s: %w", path, err)
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return &EditSession{Path: path, Cmd: cmd}, nil
}

// Result reads the edited document and removes the temporary file.
func (s *EditSession) Result() (string, error) {
	defer s.Cleanup()
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile: %w", err)
	}
	return string(b), nil
}

func (s *EditSession) Cleanup() {
	_ = os.Remove(s.Path)
}
