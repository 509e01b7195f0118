// Command todoctl is a terminal client for the todo API. Credentials are kept
// in a file so that one login serves later invocations.
//
//	todoctl -cmd login -email a@b.com -password secret
//	todoctl -cmd list
//	todoctl -cmd add -title "buy milk"
//	todoctl -cmd toggle -id 3
//	todoctl -cmd rm -id 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/core/service"
	"github.com/99minutos/todo-render/internal/core/view"
	"github.com/99minutos/todo-render/internal/infrastructure/tokenstore"
	"github.com/99minutos/todo-render/internal/infrastructure/upstream"
	"github.com/99minutos/todo-render/internal/pkg/config"
	"github.com/99minutos/todo-render/pkg/logger"
)

type options struct {
	cmd      string
	api      string
	store    string
	email    string
	password string
	token    string
	title    string
	id       int64
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "list", "command: login, google, list, add, toggle, rm, whoami, logout")
	flag.StringVar(&opts.api, "api", "", "todo API base URL (default $API_BASE_URL)")
	flag.StringVar(&opts.store, "store", "", "credentials file (default in the user config dir)")
	flag.StringVar(&opts.email, "email", "", "login email")
	flag.StringVar(&opts.password, "password", "", "login password")
	flag.StringVar(&opts.token, "token", "", "Google identity token for -cmd google")
	flag.StringVar(&opts.title, "title", "", "todo title for -cmd add")
	flag.Int64Var(&opts.id, "id", 0, "todo id for -cmd toggle and -cmd rm")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging on stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "todoctl:", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Pretty: true, Service: "todoctl"})

	cfg, err := config.LoadFrom(ctx, envconfig.OsLookuper())
	if err != nil {
		return err
	}
	if opts.api != "" {
		cfg.API.BaseURL = opts.api
	}

	path := opts.store
	if path == "" {
		if path, err = tokenstore.DefaultFilePath(); err != nil {
			return err
		}
	}

	c := &cli{
		client: upstream.NewClient(upstream.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, logger.With("upstream")),
		tokens: tokenstore.NewFile(path),
		out:    out,
	}
	c.todos = service.NewTodoService(c.client, logger.With("todos"))

	switch opts.cmd {
	case "login":
		return c.login(ctx, func() (domain.Credentials, error) {
			return c.client.Login(ctx, opts.email, opts.password)
		})
	case "google":
		return c.login(ctx, func() (domain.Credentials, error) {
			return c.client.LoginWithGoogle(ctx, opts.token)
		})
	case "logout":
		if err := c.tokens.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged out")
		return nil
	case "whoami":
		return c.whoami(ctx)
	case "list":
		return c.list(ctx)
	case "add":
		return c.add(ctx, opts.title)
	case "toggle":
		return c.toggle(ctx, opts.id)
	case "rm":
		return c.remove(ctx, opts.id)
	default:
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
}

type cli struct {
	client *upstream.Client
	tokens ports.TokenStore
	todos  *service.TodoService
	out    io.Writer
}

func (c *cli) login(ctx context.Context, authenticate func() (domain.Credentials, error)) error {
	creds, err := authenticate()
	if err != nil {
		return err
	}
	if err := c.tokens.Set(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s\n", service.DecodeRole(creds.AccessToken))
	return nil
}

// session builds the session of the stored credentials.
func (c *cli) session(ctx context.Context) (*ports.Session, error) {
	creds, err := c.tokens.Get(ctx)
	if errors.Is(err, domain.ErrNoToken) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &ports.Session{ID: "cli", Role: service.DecodeRole(creds.AccessToken), Tokens: c.tokens}, nil
}

func (c *cli) whoami(ctx context.Context) error {
	sess, err := c.session(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "role: %s\n", sess.Role)
	return nil
}

// fetch loads the current list; every mutating command starts from it and
// prints the locally updated list afterwards.
func (c *cli) fetch(ctx context.Context) (*ports.Session, view.TodoList, error) {
	sess, err := c.session(ctx)
	if err != nil {
		return nil, view.TodoList{}, err
	}
	todos, err := c.todos.List(ctx, sess)
	if err != nil {
		return nil, view.TodoList{}, err
	}
	return sess, view.Build(todos, sess.Role), nil
}

func (c *cli) list(ctx context.Context) error {
	_, list, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	return c.print(list)
}

func (c *cli) add(ctx context.Context, title string) error {
	sess, list, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	todo, err := c.todos.Create(ctx, sess, title)
	if err != nil {
		return err
	}
	return c.print(list.Apply(*todo))
}

func (c *cli) toggle(ctx context.Context, id int64) error {
	sess, list, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	var current *domain.Todo
	for _, it := range list.Items {
		if it.ID == id {
			t := it.Todo
			current = &t
			break
		}
	}
	if current == nil {
		return fmt.Errorf("todo %d not found", id)
	}

	updated, err := c.todos.Toggle(ctx, sess, id, !current.Completed)
	if err != nil {
		return err
	}
	return c.print(list.Apply(*updated))
}

func (c *cli) remove(ctx context.Context, id int64) error {
	sess, list, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if err := c.todos.Delete(ctx, sess, id); err != nil {
		return err
	}
	return c.print(list.Remove(id))
}

func (c *cli) print(list view.TodoList) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTATUS\tTITLE\n")
	for _, it := range list.Items {
		status := "⏳"
		if it.Completed {
			status = "✅"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", it.ID, status, it.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n%d pending, role %s", list.Pending(), list.Role)
	if !list.CanCreate {
		fmt.Fprint(c.out, " (read-only)")
	}
	fmt.Fprintln(c.out)
	return nil
}

// describe turns the error taxonomy into terminal advice.
func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "not logged in, run: todoctl -cmd login -email ... -password ..."
	case errors.Is(err, domain.ErrForbidden):
		return "only VIP users can change todos"
	case errors.Is(err, domain.ErrRequestFailed):
		return "session ended, log in again (" + err.Error() + ")"
	default:
		return err.Error()
	}
}
