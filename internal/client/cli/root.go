// Package cli is the command line front end of the to-do client.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"todo_backend/internal/client/session"
)

var errNotLoggedIn = errors.New("not logged in, run `todo login` first")

// app bundles what every command handler needs.
type app struct {
	sess *session.Session
	in   *bufio.Reader
	out  io.Writer
}

// NewRootCmd builds the todo command tree. The stored session is loaded
// before any subcommand runs.
func NewRootCmd(sess *session.Session, in io.Reader, out io.Writer) *cobra.Command {
	a := &app{sess: sess, in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage your to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.sess.Load(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		a.authCmd("signup", "Create an account and log in", a.sess.Signup),
		a.authCmd("login", "Log in to an existing account", a.sess.Login),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.listCmd(),
		a.addCmd(),
		a.editCmd(),
		a.toggleCmd(),
		a.deleteCmd(),
	)
	return root
}

// failure turns the session's visible message into the command error.
func (a *app) failure(err error) error {
	msg := a.sess.Message()
	a.sess.DismissMessage()
	if msg == "" {
		return err
	}
	return errors.New(msg)
}

func (a *app) requireLogin() error {
	if a.sess.User() == nil {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
