package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/infrastructure/tokenstore"
)

// fakeAPI is an in-process todo/auth API. validToken is the only access
// token accepted; refresh rotates it to refreshedToken when the refresh
// cookie matches.
type fakeAPI struct {
	mu sync.Mutex

	validToken     string
	refreshedToken string
	refreshCookie  string
	refreshFails   bool
	forbid         bool
	malformed      bool
	// rejectAll answers 401 to every todo call, even after a refresh.
	rejectAll bool

	todos  []domain.Todo
	nextID int64

	refreshCalls int
	todoCalls    int
	authHeaders  []string
}

func newFakeAPI(t *testing.T, f *fakeAPI) (*httptest.Server, *Client) {
	t.Helper()
	if f.nextID == 0 {
		f.nextID = 1
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv, NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
}

// newStore returns the token store of a started session with no credentials yet.
func newStore() *tokenstore.Scoped {
	repo := tokenstore.NewMemoryRepository(0)
	_ = repo.Save(context.Background(), "s1", &domain.SessionState{})
	return tokenstore.NewScoped(repo, "s1")
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == pathLogin:
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.com" || req.Password != "x" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: f.refreshCookie, HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"token": f.validToken})

	case r.URL.Path == pathRefresh:
		f.refreshCalls++
		if r.Header.Get("Authorization") != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "refresh takes no bearer"})
			return
		}
		ck, err := r.Cookie("refreshToken")
		if f.refreshFails || err != nil || ck.Value != f.refreshCookie {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "refresh denied"})
			return
		}
		f.validToken = f.refreshedToken
		f.refreshCookie = f.refreshCookie + "-rotated"
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: f.refreshCookie, HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": f.validToken})

	case strings.HasPrefix(r.URL.Path, pathTodos):
		f.todoCalls++
		auth := r.Header.Get("Authorization")
		f.authHeaders = append(f.authHeaders, auth)
		if f.rejectAll || auth != "Bearer "+f.validToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		if f.forbid && r.Method != http.MethodGet {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "VIP only"})
			return
		}
		if f.malformed {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{not json"))
			return
		}
		f.serveTodos(w, r)

	default:
		http.NotFound(w, r)
	}
}

// stats returns the call counters under the lock.
func (f *fakeAPI) stats() (todoCalls, refreshCalls int, authHeaders []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.todoCalls, f.refreshCalls, append([]string(nil), f.authHeaders...)
}

func (f *fakeAPI) serveTodos(w http.ResponseWriter, r *http.Request) {
	idPart := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, pathTodos), "/")

	if idPart == "" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, f.todos)
		case http.MethodPost:
			var req createTodoRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			todo := domain.Todo{ID: f.nextID, Title: req.Title}
			f.nextID++
			f.todos = append(f.todos, todo)
			writeJSON(w, http.StatusCreated, todo)
		}
		return
	}

	id, _ := strconv.ParseInt(idPart, 10, 64)
	for i, t := range f.todos {
		if t.ID != id {
			continue
		}
		switch r.Method {
		case http.MethodPut:
			var patch domain.TodoPatch
			_ = json.NewDecoder(r.Body).Decode(&patch)
			f.todos[i] = t.Apply(patch)
			writeJSON(w, http.StatusOK, f.todos[i])
		case http.MethodDelete:
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "todo not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
