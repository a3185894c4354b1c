package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
)

// Register prompts for email, display name and a repeated password and
// creates the account. Nothing is sent when the form is incomplete.
func (a *App) Register(ctx context.Context, args []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	displayName, err := GetSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeat, err := GetPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	if !bytes.Equal(password, repeat) {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}

	u, err := a.auth.Register(ctx, email, displayName, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	a.ok("registered %s, you can login now", u.Email)
	return nil
}

// Login authenticates online, falling back to the cached credentials when
// the server is unreachable.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login unsuccessful: %w", err)
	}

	if a.auth.Offline() {
		a.ok("logged in as %s (offline, read-only)", u.Name())
	} else {
		a.ok("logged in as %s", u.Name())
	}
	return nil
}

// Logout ends the session. With --forget the offline credentials and
// list snapshots are wiped as well.
func (a *App) Logout(ctx context.Context, args []string) error {
	forget := len(args) > 0 && (args[0] == "--forget" || args[0] == "-f")

	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if forget {
		if err := a.auth.ClearOfflineData(ctx); err != nil {
			return fmt.Errorf("clear offline data: %w", err)
		}
		a.ok("logged out, offline data removed")
		return nil
	}
	a.ok("logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, args []string) error {
	u, ok := a.auth.CurrentActor()
	if !ok {
		return errLoginRequired
	}

	session := "online"
	if a.auth.Offline() {
		session = "offline, read-only"
	}
	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\nsession: %s\n", name, u.Email, u.ID, session)
	return nil
}
