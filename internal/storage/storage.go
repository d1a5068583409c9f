package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskdeck/internal/todo"
)

var ErrNotFound = errors.New("todo not found")

// Patch carries the fields an update may change; nil means unchanged.
type Patch struct {
	Title     *string
	Completed *bool
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	// modernc.org/sqlite registers as "sqlite" and prefers a file: DSN.
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS todos_user_id ON todos(user_id);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTodoColumns()
}

// ensureTodoColumns adds columns introduced after the first schema.
func (s *Store) ensureTodoColumns() error {
	required := map[string]string{
		"updated_at": "ALTER TABLE todos ADD COLUMN updated_at TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(todos);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	// The single connection is held by rows until closed.
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListTodos(ctx context.Context, userID int) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, title, completed FROM todos WHERE user_id = ? ORDER BY id;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Store) GetTodo(ctx context.Context, id int) (todo.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, title, completed FROM todos WHERE id = ?;`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, ErrNotFound
	}
	return t, err
}

func (s *Store) CreateTodo(ctx context.Context, userID int, title string, completed bool) (todo.Todo, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `INSERT INTO todos (user_id, title, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?);`,
		userID, title, boolToInt(completed), now, now)
	if err != nil {
		return todo.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todo.Todo{}, err
	}
	return todo.Todo{ID: int(id), Title: title, Completed: completed, UserID: userID}, nil
}

func (s *Store) UpdateTodo(ctx context.Context, id int, p Patch) (todo.Todo, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*p.Completed))
	}
	if len(sets) == 0 {
		return s.GetTodo(ctx, id)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339), id)

	res, err := s.db.ExecContext(ctx, `UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return todo.Todo{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return todo.Todo{}, ErrNotFound
	}
	return s.GetTodo(ctx, id)
}

func (s *Store) DeleteTodo(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(sc scanner) (todo.Todo, error) {
	var t todo.Todo
	var completed int
	if err := sc.Scan(&t.ID, &t.UserID, &t.Title, &completed); err != nil {
		return todo.Todo{}, err
	}
	t.Completed = completed == 1
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
