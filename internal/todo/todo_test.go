package todo

import (
	"reflect"
	"testing"
)

func sample() []Todo {
	return []Todo{
		{ID: 1, Title: "milk", Completed: false, UserID: 7},
		{ID: 2, Title: "bread", Completed: true, UserID: 7},
		{ID: 3, Title: "eggs", Completed: false, UserID: 7},
		{ID: 4, Title: "tea", Completed: true, UserID: 7},
	}
}

func ids(todos []Todo) []int {
	out := make([]int, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"all", FilterAll, []int{1, 2, 3, 4}},
		{"active", FilterActive, []int{1, 3}},
		{"completed", FilterCompleted, []int{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(sample(), tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Visible(%s): got %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestVisiblePartitionsList(t *testing.T) {
	all := sample()
	active := Visible(all, FilterActive)
	completed := Visible(all, FilterCompleted)
	if len(active)+len(completed) != len(all) {
		t.Fatalf("partition sizes: %d + %d != %d", len(active), len(completed), len(all))
	}
	seen := map[int]bool{}
	for _, td := range append(active, completed...) {
		if seen[td.ID] {
			t.Fatalf("id %d appears in both partitions", td.ID)
		}
		seen[td.ID] = true
	}
}

func TestCount(t *testing.T) {
	active, completed := Count(sample())
	if active != 2 || completed != 2 {
		t.Errorf("Count: got (%d, %d), want (2, 2)", active, completed)
	}
	active, completed = Count(nil)
	if active != 0 || completed != 0 {
		t.Errorf("Count(nil): got (%d, %d)", active, completed)
	}
}

func TestToggleAllTarget(t *testing.T) {
	if !ToggleAllTarget(sample()) {
		t.Error("mixed list should target completed=true")
	}
	done := sample()
	for i := range done {
		done[i].Completed = true
	}
	if ToggleAllTarget(done) {
		t.Error("fully completed list should target completed=false")
	}
	if !ToggleAllTarget(nil) {
		t.Error("empty list should target completed=true")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"Active", FilterActive, false},
		{" COMPLETED ", FilterCompleted, false},
		{"done", FilterAll, true},
		{"", FilterAll, true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterNext(t *testing.T) {
	if FilterAll.Next() != FilterActive || FilterActive.Next() != FilterCompleted || FilterCompleted.Next() != FilterAll {
		t.Error("filters should cycle all -> active -> completed -> all")
	}
	if Filter("bogus").Next() != FilterAll {
		t.Error("unknown filter should reset to all")
	}
}

func TestSliceHelpers(t *testing.T) {
	list := sample()

	if got := Index(list, 3); got != 2 {
		t.Errorf("Index(3) = %d, want 2", got)
	}
	if got := Index(list, 99); got != -1 {
		t.Errorf("Index(99) = %d, want -1", got)
	}

	replaced := Replace(list, Todo{ID: 2, Title: "rye", UserID: 7})
	if replaced[1].Title != "rye" || list[1].Title != "bread" {
		t.Errorf("Replace should copy: got %q, original %q", replaced[1].Title, list[1].Title)
	}
	if got := ids(Replace(list, Todo{ID: 42})); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Replace unknown id changed list: %v", got)
	}

	removed := Remove(list, 2)
	if got := ids(removed); !reflect.DeepEqual(got, []int{1, 3, 4}) {
		t.Errorf("Remove: got %v", got)
	}

	restored := InsertAt(removed, 1, list[1])
	if got := ids(restored); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("InsertAt: got %v", got)
	}
	if got := ids(InsertAt(removed, 10, Todo{ID: 9})); !reflect.DeepEqual(got, []int{1, 3, 4, 9}) {
		t.Errorf("InsertAt past end: got %v", got)
	}
}
