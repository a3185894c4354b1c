package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errLoginRequired = errors.New("please login first")

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)
	afterCommand(ctx context.Context)

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Collections(ctx context.Context, args []string) error
	AddCollection(ctx context.Context, args []string) error
	EditCollection(ctx context.Context, args []string) error
	DeleteCollection(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Image(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
}

const helpLoggedOut = `Available commands:
  register                     create an account
  login                        authenticate (falls back to offline when the server is unreachable)
  help                         show this help
  exit | quit                  leave the program`

const helpLoggedIn = `Available commands:
  whoami                       show the current user
  collections                  list collections
  addcollection                create a collection
  editcollection <id|name>     change a collection
  delcollection <id|name>      delete a collection (members become uncategorized)
  (l)ist [filter tokens]       list collectibles with the current filter
  filter [tokens|clear]        show or change the current filter
                               tokens: q=<text> collection=<id|name> min=<n> max=<n>
                                       condition=<c,...> rating=<1..6> sort=name|price_asc|price_desc|recent
  add                          add a collectible
  edit <id>                    change a collectible
  delete <id>                  delete a collectible
  show <id>                    show a collectible
  image <id> [path]            upload an image, or print the image link
  refresh                      re-fetch lists from the server
  logout [--forget]            end the session (--forget also wipes offline data)
  exit | quit                  leave the program`

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. Lines are split with splitArgs, so arguments may be quoted.
// Handler errors are printed through a.report.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "gc %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts, perr := splitArgs(strings.TrimSpace(line))
		if perr != nil {
			a.report(perr)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		}

		handler := lookup(a, cmd)
		if handler == nil {
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}
		if cmd != "register" && cmd != "login" && !a.isLoggedIn() {
			a.report(errLoginRequired)
			continue
		}

		a.report(handler(ctx, args))
		a.afterCommand(ctx)
	}
}

func lookup(a execIface, cmd string) func(context.Context, []string) error {
	switch cmd {
	case "register":
		return a.Register
	case "login":
		return a.Login
	case "logout":
		return a.Logout
	case "whoami":
		return a.WhoAmI
	case "collections":
		return a.Collections
	case "addcollection":
		return a.AddCollection
	case "editcollection":
		return a.EditCollection
	case "delcollection":
		return a.DeleteCollection
	case "l", "list":
		return a.List
	case "filter":
		return a.Filter
	case "add":
		return a.Add
	case "edit":
		return a.Edit
	case "delete":
		return a.Delete
	case "show":
		return a.Show
	case "image":
		return a.Image
	case "refresh":
		return a.Refresh
	}
	return nil
}
