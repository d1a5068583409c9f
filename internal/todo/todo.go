package todo

import (
	"fmt"
	"strings"
)

// PlaceholderID marks an item that the server has not assigned an id to yet.
const PlaceholderID = 0

// Messages shown in the error banner.
const (
	ErrLoad       = "Unable to load todos"
	ErrAdd        = "Unable to add a todo"
	ErrDelete     = "Unable to delete a todo"
	ErrUpdate     = "Unable to update a todo"
	ErrEmptyTitle = "Title should not be empty"
)

type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

func (t Todo) IsPlaceholder() bool {
	return t.ID == PlaceholderID
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Filters lists the selectable filters in display order.
func Filters() []Filter {
	out := make([]Filter, len(filters))
	copy(out, filters)
	return out
}

func ParseFilter(v string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(v))) {
	case FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", v)
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	for i, cur := range filters {
		if cur == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Visible returns the todos the filter lets through, in list order.
func Visible(todos []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Count reports active and completed totals over the whole list.
func Count(todos []Todo) (active, completed int) {
	for _, t := range todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return
}

// ToggleAllTarget is the completed value a bulk toggle should apply:
// true unless every item is already completed.
func ToggleAllTarget(todos []Todo) bool {
	if len(todos) == 0 {
		return true
	}
	for _, t := range todos {
		if !t.Completed {
			return true
		}
	}
	return false
}

func Completed(todos []Todo) []Todo {
	return Visible(todos, FilterCompleted)
}

// Index returns the position of id in todos, or -1.
func Index(todos []Todo, id int) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Replace swaps the item with the same id in place. The list is returned
// unchanged when the id is absent.
func Replace(todos []Todo, updated Todo) []Todo {
	i := Index(todos, updated.ID)
	if i < 0 {
		return todos
	}
	out := make([]Todo, len(todos))
	copy(out, todos)
	out[i] = updated
	return out
}

func Remove(todos []Todo, id int) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// InsertAt puts t at position i, clamped to the list bounds.
func InsertAt(todos []Todo, i int, t Todo) []Todo {
	if i < 0 {
		i = 0
	}
	if i > len(todos) {
		i = len(todos)
	}
	out := make([]Todo, 0, len(todos)+1)
	out = append(out, todos[:i]...)
	out = append(out, t)
	out = append(out, todos[i:]...)
	return out
}
