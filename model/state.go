package model

import (
	"errors"
	"fmt"

	"github.com/electr1fy0/knotes/storage"
)

// View is the screen the user is on.
type View int

const (
	ViewList View = iota
	ViewCreate
	ViewEdit
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewCreate:
		return "create"
	case ViewEdit:
		return "edit"
	case ViewDetail:
		return "detail"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

var ErrInvalidTransition = errors.New("invalid view transition")

// Controller is the view-state machine. The zero value starts on the list.
// It knows nothing about the store: callers report what happened (Saved,
// Deleted) after the store accepted it.
type Controller struct {
	view    View
	current *storage.Note
}

func (c *Controller) State() View { return c.view }

// Current is the note shown in Detail or being edited in Edit.
func (c *Controller) Current() (storage.Note, bool) {
	if c.current == nil {
		return storage.Note{}, false
	}
	return *c.current, true
}

func (c *Controller) New() error {
	if err := c.expect("new", ViewList); err != nil {
		return err
	}
	c.view, c.current = ViewCreate, nil
	return nil
}

func (c *Controller) Select(n storage.Note) error {
	if err := c.expect("select", ViewList); err != nil {
		return err
	}
	c.view, c.current = ViewDetail, &n
	return nil
}

func (c *Controller) Back() error {
	if err := c.expect("back", ViewDetail); err != nil {
		return err
	}
	c.view, c.current = ViewList, nil
	return nil
}

func (c *Controller) Edit() error {
	if err := c.expect("edit", ViewDetail); err != nil {
		return err
	}
	c.view = ViewEdit
	return nil
}

// Deleted leaves the detail of a note the store just removed.
func (c *Controller) Deleted() error {
	if err := c.expect("deleted", ViewDetail); err != nil {
		return err
	}
	c.view, c.current = ViewList, nil
	return nil
}

func (c *Controller) Cancel() error {
	if err := c.expect("cancel", ViewCreate, ViewEdit); err != nil {
		return err
	}
	if c.view == ViewCreate {
		c.view = ViewList
	} else {
		c.view = ViewDetail
	}
	return nil
}

// Saved reports a note the store accepted. A new note returns to the list,
// an edited one to its detail.
func (c *Controller) Saved(n storage.Note) error {
	if err := c.expect("saved", ViewCreate, ViewEdit); err != nil {
		return err
	}
	if c.view == ViewCreate {
		c.view, c.current = ViewList, nil
	} else {
		c.view, c.current = ViewDetail, &n
	}
	return nil
}

func (c *Controller) expect(event string, from ...View) error {
	for _, v := range from {
		if c.view == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, event, c.view)
}
