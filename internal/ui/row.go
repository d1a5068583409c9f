package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/todo"
)

type rowAction int

const (
	rowNone rowAction = iota
	rowCancel
	rowSubmit
	rowBlur
)

type commitKind int

const (
	commitNoop commitKind = iota
	commitDelete
	commitUpdate
)

// itemRow is the inline editor for a single todo. It owns the text buffer;
// persisting the result is left to the controller.
type itemRow struct {
	todo  todo.Todo
	input textinput.Model
}

func newItemRow(t todo.Todo, width int) (itemRow, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = ""
	// No limit: a long stored title must round-trip unchanged.
	ti.CharLimit = 0
	if width > 0 {
		ti.Width = width
	}
	ti.SetValue(t.Title)
	ti.CursorEnd()
	cmd := ti.Focus()
	return itemRow{todo: t, input: ti}, cmd
}

func (r itemRow) update(msg tea.KeyMsg, keys keyMap) (itemRow, rowAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		r.input.SetValue(r.todo.Title)
		r.input.Blur()
		return r, rowCancel, nil
	case key.Matches(msg, keys.Confirm):
		r.input.Blur()
		return r, rowSubmit, nil
	case key.Matches(msg, keys.Blur):
		r.input.Blur()
		return r, rowBlur, nil
	}
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, rowNone, cmd
}

// commit decides what leaving edit mode means: an empty title deletes, a
// changed title updates, anything else is a no-op.
func (r itemRow) commit() (commitKind, todo.Todo) {
	title := strings.TrimSpace(r.input.Value())
	switch {
	case title == "":
		return commitDelete, r.todo
	case title != r.todo.Title:
		updated := r.todo
		updated.Title = title
		return commitUpdate, updated
	default:
		return commitNoop, r.todo
	}
}

func (r itemRow) view() string {
	return r.input.View()
}
