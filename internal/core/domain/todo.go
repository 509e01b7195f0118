package domain

import "errors"

var ErrInvalidTitle = errors.New("title is required")
var ErrInvalidID = errors.New("invalid todo id")
var ErrEmptyPatch = errors.New("patch changes nothing")

// Todo is a single item of the remote todo list. IDs are assigned by the API.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoPatch carries a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply returns a copy of t with the patch fields set.
func (t Todo) Apply(p TodoPatch) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// IsEmpty reports whether the patch would change nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// RemoveTodo returns todos without the entry identified by id. Order is kept.
func RemoveTodo(todos []Todo, id int64) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// ReplaceTodo swaps the entry with the same ID as updated. Returns false when
// no entry matched.
func ReplaceTodo(todos []Todo, updated Todo) ([]Todo, bool) {
	out := make([]Todo, len(todos))
	copy(out, todos)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out, true
		}
	}
	return out, false
}
