package view

import (
	"testing"

	"github.com/99minutos/todo-render/internal/core/domain"
)

func sampleTodos() []domain.Todo {
	return []domain.Todo{
		{ID: 1, Title: "buy milk", Completed: false},
		{ID: 2, Title: "write docs", Completed: true},
		{ID: 3, Title: "ship it", Completed: false},
	}
}

func TestBuild_VIPGetsControls(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleVIP)

	if !l.CanCreate {
		t.Fatalf("expected VIP to be able to create")
	}
	for _, it := range l.Items {
		if !it.CanToggle || !it.CanDelete {
			t.Fatalf("expected controls on item %d", it.ID)
		}
	}
}

func TestBuild_GuestIsReadOnly(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleGuest)

	if l.CanCreate {
		t.Fatalf("guest must not create")
	}
	if len(l.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(l.Items))
	}
	for _, it := range l.Items {
		if it.CanToggle || it.CanDelete {
			t.Fatalf("guest item %d exposes controls", it.ID)
		}
	}
}

func TestBuild_EmptyListKeepsNonNilItems(t *testing.T) {
	l := Build(nil, domain.RoleVIP)
	if l.Items == nil {
		t.Fatalf("expected empty, non-nil items")
	}
}

func TestRemove_DropsExactlyOneEntry(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleVIP).Remove(2)

	if len(l.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(l.Items))
	}
	if l.Items[0].ID != 1 || l.Items[1].ID != 3 {
		t.Fatalf("unexpected remaining items: %+v", l.Items)
	}
	if l.Role != domain.RoleVIP || !l.Items[0].CanDelete {
		t.Fatalf("role gating lost after remove")
	}
}

func TestRemove_UnknownIDLeavesListUntouched(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleVIP).Remove(42)
	if len(l.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(l.Items))
	}
}

func TestApply_ToggleFlipsOnlyCompleted(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleVIP)
	done := true
	toggled := l.Items[0].Todo.Apply(domain.TodoPatch{Completed: &done})

	l = l.Apply(toggled)

	got := l.Items[0]
	if got.ID != 1 || got.Title != "buy milk" || !got.Completed {
		t.Fatalf("unexpected toggled item: %+v", got.Todo)
	}
	if l.Items[1].Todo != sampleTodos()[1] || l.Items[2].Todo != sampleTodos()[2] {
		t.Fatalf("other items changed: %+v", l.Items)
	}
}

func TestApply_AppendsNewItem(t *testing.T) {
	l := Build(sampleTodos(), domain.RoleVIP).Apply(domain.Todo{ID: 9, Title: "new"})
	if len(l.Items) != 4 || l.Items[3].ID != 9 {
		t.Fatalf("expected new item appended, got %+v", l.Items)
	}
}

func TestPending(t *testing.T) {
	if n := Build(sampleTodos(), domain.RoleGuest).Pending(); n != 2 {
		t.Fatalf("expected 2 pending, got %d", n)
	}
}
