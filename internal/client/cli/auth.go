package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func (a *app) authCmd(use, short string, run func(context.Context) error) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = promptLine(a.in, a.out, "Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(a.out); err != nil {
					return err
				}
			}

			a.sess.SetCredentials(email, password)
			if err := run(cmd.Context()); err != nil {
				return a.failure(err)
			}
			a.printf("Logged in as %s\n", a.sess.User().Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.sess.Logout(); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			u := a.sess.User()
			a.printf("%s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}
