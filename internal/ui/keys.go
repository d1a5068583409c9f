package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/config"
)

type keyMap struct {
	ForceQuit      key.Binding
	Quit           key.Binding
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Add            key.Binding
	ToggleAll      key.Binding
	ClearCompleted key.Binding
	Filter         key.Binding
	Dismiss        key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	Focus          key.Binding
	// Blur moves focus off a row being edited, which commits the edit.
	// Only non-printing keys, so typing into the row never triggers it.
	Blur key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		ForceQuit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Quit:           binding("quit", k.Quit),
		Up:             binding("up", k.Up, "up"),
		Down:           binding("down", k.Down, "down"),
		Toggle:         binding("toggle", withSpaceAlias(k.Toggle)...),
		Edit:           binding("edit", k.Edit),
		Delete:         binding("delete", k.Delete),
		Add:            binding("new todo", k.Add),
		ToggleAll:      binding("toggle all", k.ToggleAll),
		ClearCompleted: binding("clear completed", k.ClearCompleted),
		Filter:         binding("filter", k.Filter),
		Dismiss:        binding("dismiss error", k.Dismiss),
		Confirm:        binding("save", k.Confirm),
		Cancel:         binding("cancel", k.Cancel),
		Focus:          binding("switch focus", k.Focus, "shift+tab"),
		Blur:           binding("leave row", k.Focus, "shift+tab", "up", "down"),
	}
}

func binding(desc string, keys ...string) key.Binding {
	uniq := make([]string, 0, len(keys))
	seen := map[string]bool{}
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, k)
	}
	label := ""
	if len(uniq) > 0 {
		label = displayKey(uniq[0])
	}
	return key.NewBinding(key.WithKeys(uniq...), key.WithHelp(label, desc))
}

// withSpaceAlias accepts both spellings of the space bar.
func withSpaceAlias(k string) []string {
	if k == " " || k == "space" {
		return []string{" ", "space"}
	}
	return []string{k}
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Edit, k.Delete, k.Add, k.ToggleAll, k.ClearCompleted, k.Filter, k.Quit}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Focus, k.ForceQuit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Blur}
}
