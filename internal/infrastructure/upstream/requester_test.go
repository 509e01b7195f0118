package upstream

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/99minutos/todo-render/internal/core/domain"
)

func TestLogin_StoresTokenAndSendsBearer(t *testing.T) {
	api := &fakeAPI{validToken: "T", refreshCookie: "r1", todos: []domain.Todo{{ID: 1, Title: "buy milk"}}}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()

	creds, err := client.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if creds.AccessToken != "T" {
		t.Fatalf("expected token T, got %q", creds.AccessToken)
	}
	if len(creds.Cookies) != 1 || creds.Cookies[0].Value != "r1" {
		t.Fatalf("expected refresh cookie to be captured, got %+v", creds.Cookies)
	}
	if err := store.Set(ctx, creds); err != nil {
		t.Fatalf("set: %v", err)
	}

	todos, err := client.Todos(store).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "buy milk" {
		t.Fatalf("unexpected todos: %+v", todos)
	}
	if _, _, headers := api.stats(); headers[0] != "Bearer T" {
		t.Fatalf("expected Bearer T, got %q", headers[0])
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, client := newFakeAPI(t, &fakeAPI{validToken: "T"})

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRequester_RefreshesOnceAndRetries(t *testing.T) {
	api := &fakeAPI{validToken: "new", refreshedToken: "newer", refreshCookie: "r1"}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()

	_ = store.Set(ctx, domain.Credentials{
		AccessToken: "expired",
		Cookies:     []domain.Cookie{{Name: "refreshToken", Value: "r1"}},
	})

	resp, err := client.Session(store).Do(ctx, http.MethodGet, pathTodos, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	todoCalls, refreshCalls, headers := api.stats()
	if refreshCalls != 1 {
		t.Fatalf("expected exactly one refresh, got %d", refreshCalls)
	}
	if todoCalls != 2 {
		t.Fatalf("expected original call plus one retry, got %d", todoCalls)
	}
	if headers[1] != "Bearer newer" {
		t.Fatalf("retry should carry the refreshed token, got %q", headers[1])
	}

	creds, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if creds.AccessToken != "newer" {
		t.Fatalf("refreshed token not persisted, got %q", creds.AccessToken)
	}
	if len(creds.Cookies) != 1 || creds.Cookies[0].Value != "r1-rotated" {
		t.Fatalf("rotated refresh cookie not persisted, got %+v", creds.Cookies)
	}
}

func TestRequester_UnauthorizedAfterRefreshClearsStore(t *testing.T) {
	api := &fakeAPI{refreshedToken: "newer", refreshCookie: "r1", rejectAll: true}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()

	_ = store.Set(ctx, domain.Credentials{
		AccessToken: "expired",
		Cookies:     []domain.Cookie{{Name: "refreshToken", Value: "r1"}},
	})

	_, err := client.Session(store).Do(ctx, http.MethodGet, pathTodos, nil)
	if !errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	todoCalls, refreshCalls, _ := api.stats()
	if refreshCalls != 1 || todoCalls != 2 {
		t.Fatalf("expected one refresh and one retry, got %d refreshes and %d calls", refreshCalls, todoCalls)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected store to be cleared, got %v", err)
	}
}

func TestRequester_FailedRefreshClearsStore(t *testing.T) {
	api := &fakeAPI{validToken: "good", refreshCookie: "r1", refreshFails: true}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()

	_ = store.Set(ctx, domain.Credentials{
		AccessToken: "expired",
		Cookies:     []domain.Cookie{{Name: "refreshToken", Value: "r1"}},
	})

	_, err := client.Todos(store).List(ctx)
	if !errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if todoCalls, _, _ := api.stats(); todoCalls != 1 {
		t.Fatalf("expected no retry after a failed refresh, got %d calls", todoCalls)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected store to be cleared, got %v", err)
	}
}

func TestRequester_ForbiddenKeepsSession(t *testing.T) {
	api := &fakeAPI{validToken: "guest", forbid: true}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()
	_ = store.Set(ctx, domain.Credentials{AccessToken: "guest"})

	_, err := client.Todos(store).Create(ctx, "sneaky")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("forbidden must not be reported as a failed request")
	}
	if _, refreshCalls, _ := api.stats(); refreshCalls != 0 {
		t.Fatalf("403 must not trigger a refresh")
	}

	creds, err := store.Get(ctx)
	if err != nil || creds.AccessToken != "guest" {
		t.Fatalf("expected session to survive a 403, got %+v, %v", creds, err)
	}
}

func TestRequester_NoTokenSendsNothing(t *testing.T) {
	api := &fakeAPI{validToken: "T"}
	_, client := newFakeAPI(t, api)

	_, err := client.Todos(newStore()).List(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if todoCalls, refreshCalls, _ := api.stats(); todoCalls != 0 || refreshCalls != 0 {
		t.Fatalf("expected no network call, got %d todo and %d refresh calls", todoCalls, refreshCalls)
	}
}

func TestRequester_ServerErrorClearsStore(t *testing.T) {
	api := &fakeAPI{validToken: "T"}
	_, client := newFakeAPI(t, api)
	store := newStore()
	ctx := context.Background()
	_ = store.Set(ctx, domain.Credentials{AccessToken: "T"})

	// Unknown ids answer 404.
	_, err := client.Todos(store).Update(ctx, 99, domain.TodoPatch{})
	if !errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected store to be cleared, got %v", err)
	}
}
