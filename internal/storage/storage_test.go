package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndListScopedByUser(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.CreateTodo(ctx, 1, "milk", false)
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if _, err := s.CreateTodo(ctx, 2, "someone else", false); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	b, err := s.CreateTodo(ctx, 1, "bread", true)
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d, %d", a.ID, b.ID)
	}

	todos, err := s.ListTodos(ctx, 1)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("ListTodos: got %d items, want 2", len(todos))
	}
	if todos[0] != a || todos[1] != b {
		t.Errorf("ListTodos: got %+v, want [%+v %+v]", todos, a, b)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	todos, err := openTestStore(t).ListTodos(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if todos == nil {
		t.Error("ListTodos returned nil for empty result")
	}
}

func TestUpdateTodo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	created, err := s.CreateTodo(ctx, 1, "milk", false)
	if err != nil {
		t.Fatal(err)
	}

	done := true
	got, err := s.UpdateTodo(ctx, created.ID, Patch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !got.Completed || got.Title != "milk" {
		t.Errorf("completed patch: got %+v", got)
	}

	title := "oat milk"
	got, err = s.UpdateTodo(ctx, created.ID, Patch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if got.Title != "oat milk" || !got.Completed {
		t.Errorf("title patch: got %+v", got)
	}

	got, err = s.UpdateTodo(ctx, created.ID, Patch{})
	if err != nil || got.Title != "oat milk" {
		t.Errorf("empty patch: got %+v, %v", got, err)
	}
}

func TestMissingTodo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	title := "x"

	if _, err := s.GetTodo(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTodo: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateTodo(ctx, 99, Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTodo: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteTodo(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTodo: got %v, want ErrNotFound", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	created, err := s.CreateTodo(ctx, 1, "milk", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTodo(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	todos, err := s.ListTodos(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 0 {
		t.Errorf("after delete: %+v", todos)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTodo(ctx, 1, "persisted", false); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	todos, err := s.ListTodos(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 || todos[0].Title != "persisted" {
		t.Errorf("after reopen: %+v", todos)
	}
}

func TestSqliteDSN(t *testing.T) {
	if got := sqliteDSN("file:already"); got != "file:already" {
		t.Errorf("file: prefix should pass through, got %q", got)
	}
	got := sqliteDSN("todos.db")
	if !strings.HasPrefix(got, "file://") || !strings.Contains(got, "mode=rwc") {
		t.Errorf("sqliteDSN: got %q", got)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}
