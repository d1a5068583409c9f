package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskdeck/internal/config"
	"taskdeck/internal/todo"
)

// Remote is the todo collection the controller keeps in sync with.
type Remote interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, title string) (todo.Todo, error)
	Update(ctx context.Context, t todo.Todo) (todo.Todo, error)
	Delete(ctx context.Context, id int) error
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type todosLoadedMsg struct {
	todos []todo.Todo
	err   error
}

type todoCreatedMsg struct {
	todo todo.Todo
	err  error
}

type todoUpdatedMsg struct {
	id   int
	todo todo.Todo
	err  error
}

type todosBulkUpdatedMsg struct {
	results []todoUpdatedMsg
}

// todoDeletedMsg carries the removed item and its old position so a failed
// delete can put it back.
type todoDeletedMsg struct {
	item  todo.Todo
	index int
	err   error
}

type clearErrorMsg struct {
	seq int
}

type Model struct {
	ctx          context.Context
	remote       Remote
	logger       *log.Logger
	keys         keyMap
	help         help.Model
	spinner      spinner.Model
	userID       int
	errorTimeout time.Duration

	todos       []todo.Todo
	filter      todo.Filter
	busy        map[int]struct{}
	placeholder *todo.Todo
	loading     bool
	submitting  bool

	input  textinput.Model
	focus  focus
	cursor int
	editor *itemRow

	errMsg string
	errSeq int
	width  int
}

func New(ctx context.Context, remote Remote, cfg config.Config, logger *log.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:          ctx,
		remote:       remote,
		logger:       logger,
		keys:         newKeyMap(cfg.Keys),
		help:         help.New(),
		spinner:      sp,
		userID:       cfg.UserID,
		errorTimeout: cfg.ErrorTimeout(),
		filter:       cfg.Filter(),
		busy:         map[int]struct{}{},
		loading:      cfg.UserID != 0,
		input:        ti,
		focus:        focusInput,
	}
}

func Run(ctx context.Context, remote Remote, cfg config.Config, logger *log.Logger) error {
	applyColorProfile()
	program := tea.NewProgram(New(ctx, remote, cfg, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.userID == 0 {
		return nil
	}
	return tea.Batch(m.loadCmd(), textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 10
		if m.editor != nil {
			m.editor.input.Width = msg.Width - 10
		}
		return m, nil
	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clearErrorMsg:
		if msg.seq == m.errSeq {
			m.errMsg = ""
		}
		return m, nil
	case todosLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("load todos", "err", msg.err)
			cmd := m.setError(todo.ErrLoad)
			return m, cmd
		}
		m.todos = mergeLoaded(msg.todos, m.todos)
		m.clampCursor()
		m.logger.Debug("loaded todos", "count", len(m.todos))
		return m, nil
	case todoCreatedMsg:
		return m.onCreated(msg)
	case todoUpdatedMsg:
		cmd := m.onUpdated(msg)
		return m, cmd
	case todosBulkUpdatedMsg:
		failed := false
		for _, res := range msg.results {
			m.clearBusy(res.id)
			if res.err != nil {
				m.logger.Error("update todo", "id", res.id, "err", res.err)
				failed = true
				continue
			}
			m.todos = todo.Replace(m.todos, res.todo)
		}
		m.clampCursor()
		if failed {
			cmd := m.setError(todo.ErrUpdate)
			return m, cmd
		}
		return m, nil
	case todoDeletedMsg:
		return m.onDeleted(msg)
	}

	if m.focus == focusInput && m.editor == nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.editor != nil {
		var cmd tea.Cmd
		m.editor.input, cmd = m.editor.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.userID == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.editor != nil {
		return m.updateEditMode(msg)
	}
	if m.focus == focusInput {
		return m.updateInputMode(msg)
	}
	return m.updateListMode(msg)
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.submitNew()
		return m, cmd
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Cancel):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	if m.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Add):
		m.focus = focusInput
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			cmd := m.toggleTodo(t)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			row, cmd := newItemRow(t, m.input.Width)
			m.editor = &row
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			cmd := m.deleteTodo(t.ID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.ToggleAll):
		cmd := m.toggleAll()
		return m, cmd
	case key.Matches(msg, m.keys.ClearCompleted):
		cmd := m.clearCompleted()
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.clampCursor()
	case key.Matches(msg, m.keys.Dismiss):
		m.dismissError()
	}
	return m, nil
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, action, cmd := m.editor.update(msg, m.keys)
	switch action {
	case rowNone:
		m.editor = &row
		return m, cmd
	case rowCancel:
		m.editor = nil
		return m, nil
	}

	kind, t := row.commit()
	m.editor = nil
	var persist tea.Cmd
	switch kind {
	case commitDelete:
		persist = m.deleteTodo(t.ID)
	case commitUpdate:
		persist = m.updateTodo(t)
	}

	if action == rowBlur {
		switch {
		case key.Matches(msg, m.keys.Focus):
			m.focus = focusInput
			focusCmd := m.input.Focus()
			return m, tea.Batch(persist, focusCmd)
		case msg.String() == "up":
			m.cursor--
		case msg.String() == "down":
			m.cursor++
		}
		m.clampCursor()
	}
	return m, persist
}

// submitNew validates the header input and starts a create behind a
// placeholder row.
func (m *Model) submitNew() tea.Cmd {
	if m.submitting {
		return nil
	}
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		return m.setError(todo.ErrEmptyTitle)
	}
	m.placeholder = &todo.Todo{ID: todo.PlaceholderID, Title: title, UserID: m.userID}
	m.submitting = true
	return tea.Batch(m.createCmd(title), m.spinner.Tick)
}

func (m Model) onCreated(msg todoCreatedMsg) (tea.Model, tea.Cmd) {
	m.placeholder = nil
	m.submitting = false
	if msg.err != nil {
		m.logger.Error("create todo", "err", msg.err)
		cmd := m.setError(todo.ErrAdd)
		return m, cmd
	}
	m.todos = append(m.todos, msg.todo)
	m.input.SetValue("")
	m.logger.Debug("created todo", "id", msg.todo.ID)
	return m, nil
}

func (m *Model) updateTodo(t todo.Todo) tea.Cmd {
	m.markBusy(t.ID)
	return tea.Batch(m.updateCmd(t), m.spinner.Tick)
}

func (m *Model) onUpdated(msg todoUpdatedMsg) tea.Cmd {
	m.clearBusy(msg.id)
	if msg.err != nil {
		m.logger.Error("update todo", "id", msg.id, "err", msg.err)
		return m.setError(todo.ErrUpdate)
	}
	m.todos = todo.Replace(m.todos, msg.todo)
	m.clampCursor()
	return nil
}

// toggleTodo flips completion; the checkbox is inert while a create is
// pending or the row is busy.
func (m *Model) toggleTodo(t todo.Todo) tea.Cmd {
	if m.placeholder != nil || m.isBusy(t.ID) {
		return nil
	}
	t.Completed = !t.Completed
	return m.updateTodo(t)
}

// toggleAll sets every todo to the same completed value, updating them one
// after another.
func (m *Model) toggleAll() tea.Cmd {
	if len(m.todos) == 0 {
		return nil
	}
	target := todo.ToggleAllTarget(m.todos)
	batch := make([]todo.Todo, 0, len(m.todos))
	for _, t := range m.todos {
		t.Completed = target
		m.markBusy(t.ID)
		batch = append(batch, t)
	}
	remote, ctx := m.remote, m.ctx
	run := func() tea.Msg {
		results := make([]todoUpdatedMsg, 0, len(batch))
		for _, t := range batch {
			updated, err := remote.Update(ctx, t)
			results = append(results, todoUpdatedMsg{id: t.ID, todo: updated, err: err})
		}
		return todosBulkUpdatedMsg{results: results}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) deleteTodo(id int) tea.Cmd {
	i := todo.Index(m.todos, id)
	if i < 0 || m.isBusy(id) {
		return nil
	}
	m.markBusy(id)
	return tea.Batch(m.deleteCmd(m.todos[i], i), m.spinner.Tick)
}

// clearCompleted deletes every completed todo and drops them locally
// without waiting for the server. Rows with a request in flight are left
// alone.
func (m *Model) clearCompleted() tea.Cmd {
	var cmds []tea.Cmd
	kept := make([]todo.Todo, 0, len(m.todos))
	for i, t := range m.todos {
		if !t.Completed || m.isBusy(t.ID) {
			kept = append(kept, t)
			continue
		}
		m.markBusy(t.ID)
		cmds = append(cmds, m.deleteCmd(t, i))
	}
	if len(cmds) == 0 {
		return nil
	}
	m.todos = kept
	m.clampCursor()
	return tea.Batch(append(cmds, m.spinner.Tick)...)
}

func (m Model) onDeleted(msg todoDeletedMsg) (tea.Model, tea.Cmd) {
	m.clearBusy(msg.item.ID)
	if msg.err != nil {
		m.logger.Error("delete todo", "id", msg.item.ID, "err", msg.err)
		if todo.Index(m.todos, msg.item.ID) < 0 {
			m.todos = todo.InsertAt(m.todos, msg.index, msg.item)
		}
		cmd := m.setError(todo.ErrDelete)
		return m, cmd
	}
	m.todos = todo.Remove(m.todos, msg.item.ID)
	m.clampCursor()
	return m, nil
}

// mergeLoaded keeps items created while the load was in flight.
func mergeLoaded(loaded, local []todo.Todo) []todo.Todo {
	out := append([]todo.Todo(nil), loaded...)
	for _, t := range local {
		if todo.Index(out, t.ID) < 0 {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) loadCmd() tea.Cmd {
	remote, ctx := m.remote, m.ctx
	return func() tea.Msg {
		todos, err := remote.List(ctx)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (m Model) createCmd(title string) tea.Cmd {
	remote, ctx := m.remote, m.ctx
	return func() tea.Msg {
		created, err := remote.Create(ctx, title)
		return todoCreatedMsg{todo: created, err: err}
	}
}

func (m Model) updateCmd(t todo.Todo) tea.Cmd {
	remote, ctx := m.remote, m.ctx
	return func() tea.Msg {
		updated, err := remote.Update(ctx, t)
		return todoUpdatedMsg{id: t.ID, todo: updated, err: err}
	}
}

func (m Model) deleteCmd(t todo.Todo, index int) tea.Cmd {
	remote, ctx := m.remote, m.ctx
	return func() tea.Msg {
		err := remote.Delete(ctx, t.ID)
		return todoDeletedMsg{item: t, index: index, err: err}
	}
}

// setError shows msg in the banner and schedules its removal. A later
// error bumps the sequence so earlier timers leave it alone.
func (m *Model) setError(msg string) tea.Cmd {
	m.errSeq++
	m.errMsg = msg
	seq := m.errSeq
	return tea.Tick(m.errorTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{seq: seq}
	})
}

func (m *Model) dismissError() {
	m.errSeq++
	m.errMsg = ""
}

func (m *Model) markBusy(id int) {
	m.busy[id] = struct{}{}
}

func (m *Model) clearBusy(id int) {
	delete(m.busy, id)
}

func (m Model) isBusy(id int) bool {
	_, ok := m.busy[id]
	return ok
}

func (m Model) spinning() bool {
	return m.loading || m.placeholder != nil || len(m.busy) > 0
}

func (m Model) visible() []todo.Todo {
	return todo.Visible(m.todos, m.filter)
}

func (m Model) selected() (todo.Todo, bool) {
	vis := m.visible()
	if len(vis) == 0 {
		return todo.Todo{}, false
	}
	return vis[clampCursor(m.cursor, len(vis))], true
}

func (m *Model) clampCursor() {
	m.cursor = clampCursor(m.cursor, len(m.visible()))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
