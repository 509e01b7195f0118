// Package view turns todos and a role into what the pages render. It is pure:
// no I/O, no clock. SSR templates, the CSR JSON payload and the terminal
// client all consume the same TodoList.
package view

import "github.com/99minutos/todo-render/internal/core/domain"

// Item is a single rendered todo with the controls allowed for the role.
type Item struct {
	domain.Todo
	CanToggle bool `json:"can_toggle"`
	CanDelete bool `json:"can_delete"`
}

// TodoList is the role-gated view of a todo list.
type TodoList struct {
	Role      domain.Role `json:"role"`
	CanCreate bool        `json:"can_create"`
	Items     []Item      `json:"items"`
}

// Build gates every control on role. A guest gets read-only items.
func Build(todos []domain.Todo, role domain.Role) TodoList {
	mutable := role.CanMutate()
	items := make([]Item, len(todos))
	for i, t := range todos {
		items[i] = Item{Todo: t, CanToggle: mutable, CanDelete: mutable}
	}
	return TodoList{Role: role, CanCreate: mutable, Items: items}
}

// Todos returns the underlying todos in render order.
func (l TodoList) Todos() []domain.Todo {
	out := make([]domain.Todo, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Todo
	}
	return out
}

// Remove drops exactly the item with id and keeps every other item.
func (l TodoList) Remove(id int64) TodoList {
	return Build(domain.RemoveTodo(l.Todos(), id), l.Role)
}

// Apply replaces the item with the same id as updated, or appends it when the
// list does not contain it yet.
func (l TodoList) Apply(updated domain.Todo) TodoList {
	todos, found := domain.ReplaceTodo(l.Todos(), updated)
	if !found {
		todos = append(todos, updated)
	}
	return Build(todos, l.Role)
}

// Pending counts items not yet completed.
func (l TodoList) Pending() int {
	n := 0
	for _, it := range l.Items {
		if !it.Completed {
			n++
		}
	}
	return n
}
