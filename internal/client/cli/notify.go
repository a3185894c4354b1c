package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcollect/internal/client/store"
)

// reportedError marks an error the store notifier already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reported wraps a store error so the REPL does not print it twice.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

func (a *App) notifier(kind string) store.Notifier {
	return store.NotifierFunc(func(op string, err error) {
		a.fail(fmt.Errorf("%s %s: %w", kind, op, err))
	})
}

func (a *App) ok(format string, args ...any) {
	fmt.Fprintln(a.out, a.style.ok.Render("[ok]"), fmt.Sprintf(format, args...))
}

func (a *App) fail(err error) {
	fmt.Fprintln(a.out, a.style.err.Render("[error]"), err.Error())
}

// report prints err unless it is nil or was already reported.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var r reportedError
	if errors.As(err, &r) {
		return
	}
	a.fail(err)
}
