package ui

import (
	"strings"
	"testing"

	"taskdeck/internal/config"
	"taskdeck/internal/todo"
)

func TestItemRowCommit(t *testing.T) {
	orig := todo.Todo{ID: 5, Title: "walk dog", UserID: 7}

	tests := []struct {
		name      string
		buffer    string
		wantKind  commitKind
		wantTitle string
	}{
		{name: "unchanged", buffer: "walk dog", wantKind: commitNoop, wantTitle: "walk dog"},
		{name: "padded but same", buffer: "  walk dog  ", wantKind: commitNoop, wantTitle: "walk dog"},
		{name: "changed", buffer: "walk cat", wantKind: commitUpdate, wantTitle: "walk cat"},
		{name: "changed is trimmed", buffer: "\twalk cat ", wantKind: commitUpdate, wantTitle: "walk cat"},
		{name: "empty", buffer: "", wantKind: commitDelete, wantTitle: "walk dog"},
		{name: "whitespace only", buffer: "   ", wantKind: commitDelete, wantTitle: "walk dog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, _ := newItemRow(orig, 0)
			row.input.SetValue(tt.buffer)
			kind, got := row.commit()
			if kind != tt.wantKind {
				t.Fatalf("kind: got %v, want %v", kind, tt.wantKind)
			}
			if got.ID != orig.ID || got.Title != tt.wantTitle {
				t.Errorf("todo: got %+v, want id %d title %q", got, orig.ID, tt.wantTitle)
			}
		})
	}
}

func TestItemRowKeys(t *testing.T) {
	keys := newKeyMap(config.Default().Keys)
	orig := todo.Todo{ID: 5, Title: "walk dog"}

	row, _ := newItemRow(orig, 0)
	if !row.input.Focused() {
		t.Fatal("new row should be focused")
	}
	if row.input.Value() != "walk dog" {
		t.Fatalf("buffer: got %q", row.input.Value())
	}

	row, action, _ := row.update(keyPress("!"), keys)
	if action != rowNone || row.input.Value() != "walk dog!" {
		t.Fatalf("typing: action %v buffer %q", action, row.input.Value())
	}

	reverted, action, _ := row.update(keyPress("esc"), keys)
	if action != rowCancel {
		t.Errorf("esc: action %v", action)
	}
	if reverted.input.Value() != "walk dog" {
		t.Errorf("esc should revert the buffer, got %q", reverted.input.Value())
	}

	_, action, _ = row.update(keyPress("enter"), keys)
	if action != rowSubmit {
		t.Errorf("enter: action %v", action)
	}

	for _, k := range []string{"tab", "up", "down"} {
		_, action, _ = row.update(keyPress(k), keys)
		if action != rowBlur {
			t.Errorf("%s: action %v, want blur", k, action)
		}
	}

	// Letters bound to list navigation are plain text while editing.
	row, action, _ = row.update(keyPress("j"), keys)
	if action != rowNone || row.input.Value() != "walk dog!j" {
		t.Errorf("j: action %v buffer %q", action, row.input.Value())
	}
}

func TestItemRowLongTitleUnchanged(t *testing.T) {
	orig := todo.Todo{ID: 1, Title: strings.Repeat("a", 300)}
	row, _ := newItemRow(orig, 0)
	if got := row.input.Value(); got != orig.Title {
		t.Fatalf("buffer truncated to %d runes", len([]rune(got)))
	}
	if kind, _ := row.commit(); kind != commitNoop {
		t.Errorf("kind: got %v, want noop", kind)
	}
}
