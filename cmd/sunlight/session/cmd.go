// Package sessioncmd implements `sunlight login` and `sunlight logout`.
package sessioncmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/sunlight/cmd/sunlight/shared"
	"github.com/example/sunlight/internal/cartclient"
)

// Login implements `sunlight login`.
type Login struct {
	ctx *shared.Context
	cmd *cobra.Command

	email    string
	password string
}

// NewLogin creates the login command.
func NewLogin(ctx *shared.Context) *Login {
	c := &Login{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync the local cart with the server",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	f := c.cmd.Flags()
	f.StringVar(&c.email, "email", "", "Account email (required)")
	f.StringVar(&c.password, "password", "", "Account password (required)")
	_ = c.cmd.MarkFlagRequired("email")
	_ = c.cmd.MarkFlagRequired("password")
	return c
}

// Cmd returns the cobra command.
func (c *Login) Cmd() *cobra.Command { return c.cmd }

func (c *Login) run(cmd *cobra.Command, _ []string) error {
	session, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	res, err := session.Client.SignIn(cmd.Context(), c.email, c.password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	hadToken := session.Token() != ""
	if err := session.Storage.Set(cartclient.AuthTokenKey, res.Token); err != nil {
		return err
	}
	if hadToken {
		// Already signed in; reconcile explicitly under the new token.
		if err := session.Store.SyncWithServer(cmd.Context()); err != nil {
			return fmt.Errorf("sync cart: %w", err)
		}
	} else {
		session.Store.SetAuthenticated(true)
		session.Store.Wait()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Signed in as %s %s <%s>\n", res.User.FirstName, res.User.LastName, res.User.Email)
	fmt.Fprintf(out, "Cart: %d item(s), %s\n", session.Store.TotalItems(), session.Store.TotalPrice().StringFixed(2))
	return nil
}

// Logout implements `sunlight logout`.
type Logout struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// NewLogout creates the logout command.
func NewLogout(ctx *shared.Context) *Logout {
	c := &Logout{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token; the local cart is kept",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Logout) Cmd() *cobra.Command { return c.cmd }

func (c *Logout) run(cmd *cobra.Command, _ []string) error {
	storage, err := cartclient.OpenSQLiteStorage(c.ctx.StatePath)
	if err != nil {
		return err
	}
	defer storage.Close()

	if err := storage.Delete(cartclient.AuthTokenKey); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}
