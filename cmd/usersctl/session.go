package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"usersadmin/internal/client"
	"usersadmin/internal/listview"
)

const sessionHelp = `commands:
  n | p | g <page>              next, previous, go to page
  sort <field> [asc|desc]       sort by one column (sort - clears)
  filter <field> <value>        add or replace a filter (filter - clears)
  add <name> <email> [role]     create a user
  set <id> <field> <value>      update one field
  rm <id>                       delete a user
  r                             reload
  q                             quit`

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Browse and edit users interactively",
	Long:  "Browse and edit users interactively.\n\n" + sessionHelp,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		s := newSession(apiClient, pageSize, os.Stdout, os.Stderr)
		return s.run(cmd.Context(), os.Stdin, interactive)
	},
}

// printNotifier writes coordinator notifications to w.
type printNotifier struct{ w io.Writer }

func (n printNotifier) Success(msg string) { fmt.Fprintln(n.w, "ok:", msg) }
func (n printNotifier) Error(err error)    { fmt.Fprintln(n.w, "error:", err) }
func (n printNotifier) FieldError(field, msg string) {
	fmt.Fprintf(n.w, "error: %s: %s\n", field, msg)
}

type session struct {
	coord   *listview.Coordinator
	filters map[string]string
	out     io.Writer
}

func newSession(c *client.HTTPClient, size int, out, errOut io.Writer) *session {
	view := listview.NewView(listview.NewQueryState(size), c)
	return &session{
		coord:   &listview.Coordinator{View: view, Mut: c, Notifier: printNotifier{w: errOut}},
		filters: map[string]string{},
		out:     out,
	}
}

func (s *session) run(ctx context.Context, in io.Reader, interactive bool) error {
	s.show(ctx)
	sc := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(s.out, "> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}
		if err := s.exec(ctx, line); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
}

func (s *session) exec(ctx context.Context, line string) error {
	f := strings.Fields(line)
	view := s.coord.View
	switch f[0] {
	case "n":
		view.SetPage(view.Page() + 1)
	case "p":
		view.SetPage(view.Page() - 1)
	case "g":
		if len(f) != 2 {
			return fmt.Errorf("usage: g <page>")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return fmt.Errorf("bad page %q", f[1])
		}
		view.SetPage(n)
	case "r":
		view.Cache().Invalidate(view.Variables())
	case "sort":
		if len(f) < 2 {
			return fmt.Errorf("usage: sort <field> [asc|desc]")
		}
		if f[1] == "-" {
			view.SetSort(nil)
			break
		}
		dir := listview.Asc
		if len(f) > 2 && strings.EqualFold(f[2], "desc") {
			dir = listview.Desc
		}
		view.SetSort([]listview.SortEntry{{Field: f[1], Direction: dir}})
	case "filter":
		if len(f) == 2 && f[1] == "-" {
			s.filters = map[string]string{}
		} else if len(f) >= 3 {
			s.filters[f[1]] = strings.Join(f[2:], " ")
		} else {
			return fmt.Errorf("usage: filter <field> <value>")
		}
		model := make([]listview.FilterEntry, 0, len(s.filters))
		for k, v := range s.filters {
			model = append(model, listview.FilterEntry{Field: k, Value: v})
		}
		view.SetFilter(model)
	case "add":
		if len(f) < 3 {
			return fmt.Errorf("usage: add <name> <email> [role]")
		}
		req := client.CreateUserRequest{Name: f[1], Email: f[2]}
		if len(f) > 3 {
			req.Role = f[3]
		}
		_, _ = s.coord.Create(ctx, req)
	case "set":
		if len(f) < 4 {
			return fmt.Errorf("usage: set <id> <field> <value>")
		}
		v := strings.Join(f[3:], " ")
		var req client.UpdateUserRequest
		switch f[2] {
		case "name":
			req.Name = &v
		case "email":
			req.Email = &v
		case "role":
			req.Role = &v
		case "status":
			req.Status = &v
		default:
			return fmt.Errorf("unknown field %q", f[2])
		}
		_, _ = s.coord.Update(ctx, f[1], req)
	case "rm":
		if len(f) != 2 {
			return fmt.Errorf("usage: rm <id>")
		}
		_, _ = s.coord.Delete(ctx, f[1])
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", f[0])
	}
	s.show(ctx)
	return nil
}

func (s *session) show(ctx context.Context) {
	res := s.coord.View.Reload(ctx)
	if res.Err != nil {
		fmt.Fprintln(s.out, "error:", res.Err)
		return
	}
	_ = writePage(s.out, res.Vars.Page, res.Response)
}
