package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/todo"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")

	if m.userID == 0 {
		b.WriteString(warningStyle.Render(
			"No user configured.\nSet user_id in your taskdeck config to load your todos."))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Quit}))
		return b.String()
	}

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("Loading todos…"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderList())
	}

	if len(m.todos) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("× " + m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader draws the toggle-all marker and the new-todo input.
func (m Model) renderHeader() string {
	mark := " "
	if len(m.todos) > 0 {
		mark = mutedStyle.Render("❯")
		if !todo.ToggleAllTarget(m.todos) {
			mark = activeMarkStyle.Render("❯")
		}
	}
	input := m.input.View()
	if m.submitting {
		input = mutedStyle.Render(m.input.Value())
	}
	return mark + " " + input
}

func (m Model) renderList() string {
	vis := m.visible()
	if len(vis) == 0 && m.placeholder == nil {
		if len(m.todos) == 0 {
			return mutedStyle.Render("Nothing to do yet.") + "\n"
		}
		return mutedStyle.Render(fmt.Sprintf("No %s todos.", strings.ToLower(m.filter.Label()))) + "\n"
	}

	var b strings.Builder
	for i, t := range vis {
		selected := m.focus == focusList && i == clampCursor(m.cursor, len(vis))
		b.WriteString(m.renderRow(t, selected))
		b.WriteString("\n")
	}
	if m.placeholder != nil {
		b.WriteString(m.renderPlaceholder(*m.placeholder))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(t todo.Todo, selected bool) string {
	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}

	disabled := m.placeholder != nil || m.isBusy(t.ID)
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	switch {
	case disabled:
		box = mutedStyle.Render(box)
	case t.Completed:
		box = checkedStyle.Render(box)
	}

	var title string
	switch {
	case m.editor != nil && m.editor.todo.ID == t.ID:
		title = m.editor.view()
	case t.Completed:
		title = completedStyle.Render(t.Title)
	default:
		title = t.Title
	}

	line := prefix + box + " " + title
	if m.isBusy(t.ID) {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) renderPlaceholder(t todo.Todo) string {
	return "  " + mutedStyle.Render("[ ]") + " " + placeholderStyle.Render(t.Title) + " " + m.spinner.View()
}

// renderFooter counts over the full list, not the filtered view.
func (m Model) renderFooter() string {
	active, completed := todo.Count(m.todos)
	noun := "items"
	if active == 1 {
		noun = "item"
	}
	parts := []string{mutedStyle.Render(fmt.Sprintf("%d %s left", active, noun))}

	filters := make([]string, 0, 3)
	for _, f := range todo.Filters() {
		if f == m.filter {
			filters = append(filters, filterOnStyle.Render(f.Label()))
		} else {
			filters = append(filters, mutedStyle.Render(f.Label()))
		}
	}
	parts = append(parts, strings.Join(filters, " "))

	clearLabel := "Clear completed"
	if completed == 0 {
		clearLabel = mutedStyle.Faint(true).Render(clearLabel)
	}
	parts = append(parts, clearLabel)
	return strings.Join(parts, "   ")
}

func (m Model) renderHelp() string {
	switch {
	case m.editor != nil:
		return m.help.ShortHelpView(m.keys.editHelp())
	case m.focus == focusInput:
		return m.help.ShortHelpView(m.keys.inputHelp())
	default:
		return m.help.ShortHelpView(m.keys.listHelp())
	}
}
