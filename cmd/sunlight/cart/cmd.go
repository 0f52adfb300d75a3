// Package cartcmd implements the cart editing commands.
package cartcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sunlight/cmd/sunlight/shared"
	"github.com/example/sunlight/internal/cartclient"
	"github.com/example/sunlight/internal/models"
)

// withSession opens the local cart, runs fn, and prints the cart afterwards.
func withSession(ctx *shared.Context, cmd *cobra.Command, fn func(s *shared.Session) error) error {
	session, err := ctx.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := fn(session); err != nil {
		return err
	}
	session.Store.Wait()
	return printCart(cmd.OutOrStdout(), session.Store)
}

// Add implements `sunlight add`.
type Add struct {
	ctx *shared.Context
	cmd *cobra.Command

	id       string
	name     string
	price    float64
	image    string
	category string
}

// NewAdd creates the add command.
func NewAdd(ctx *shared.Context) *Add {
	c := &Add{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	f := c.cmd.Flags()
	f.StringVar(&c.id, "id", "", "Product id (required)")
	f.StringVar(&c.name, "name", "", "Product name (required)")
	f.Float64Var(&c.price, "price", 0, "Unit price (required)")
	f.StringVar(&c.image, "image", "", "Image URL")
	f.StringVar(&c.category, "category", models.DefaultCategory, "Product category")
	_ = c.cmd.MarkFlagRequired("id")
	_ = c.cmd.MarkFlagRequired("name")
	_ = c.cmd.MarkFlagRequired("price")
	return c
}

// Cmd returns the cobra command.
func (c *Add) Cmd() *cobra.Command { return c.cmd }

func (c *Add) run(cmd *cobra.Command, _ []string) error {
	id := models.ParseProductID(c.id)
	if id.IsZero() {
		return fmt.Errorf("--id must not be empty")
	}
	if c.price < 0 {
		return fmt.Errorf("--price must not be negative")
	}
	return withSession(c.ctx, cmd, func(s *shared.Session) error {
		s.Store.AddToCart(models.CartProduct{
			ID:       id,
			Name:     c.name,
			Price:    c.price,
			Image:    c.image,
			Category: c.category,
		})
		return nil
	})
}

// Remove implements `sunlight remove <id>`.
type Remove struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// NewRemove creates the remove command.
func NewRemove(ctx *shared.Context) *Remove {
	c := &Remove{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Remove) Cmd() *cobra.Command { return c.cmd }

func (c *Remove) run(cmd *cobra.Command, args []string) error {
	return withSession(c.ctx, cmd, func(s *shared.Session) error {
		s.Store.RemoveFromCart(models.ParseProductID(args[0]))
		return nil
	})
}

// Set implements `sunlight set <id> <qty>`.
type Set struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// NewSet creates the set command.
func NewSet(ctx *shared.Context) *Set {
	c := &Set{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "set <id> <qty>",
		Short: "Set the quantity of a product; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Set) Cmd() *cobra.Command { return c.cmd }

func (c *Set) run(cmd *cobra.Command, args []string) error {
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not a number", args[1])
	}
	return withSession(c.ctx, cmd, func(s *shared.Session) error {
		s.Store.UpdateQuantity(models.ParseProductID(args[0]), qty)
		return nil
	})
}

// Clear implements `sunlight clear`.
type Clear struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// NewClear creates the clear command.
func NewClear(ctx *shared.Context) *Clear {
	c := &Clear{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Clear) Cmd() *cobra.Command { return c.cmd }

func (c *Clear) run(cmd *cobra.Command, _ []string) error {
	return withSession(c.ctx, cmd, func(s *shared.Session) error {
		s.Store.ClearCart()
		return nil
	})
}

// Show implements `sunlight show`.
type Show struct {
	ctx *shared.Context
	cmd *cobra.Command

	asJSON bool
}

// NewShow creates the show command.
func NewShow(ctx *shared.Context) *Show {
	c := &Show{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.asJSON, "json", false, "Print the cart state as JSON")
	return c
}

// Cmd returns the cobra command.
func (c *Show) Cmd() *cobra.Command { return c.cmd }

func (c *Show) run(cmd *cobra.Command, _ []string) error {
	session, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	if c.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(session.Store.Snapshot())
	}
	return printCart(cmd.OutOrStdout(), session.Store)
}

// Sync implements `sunlight sync`.
type Sync struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// NewSync creates the sync command.
func NewSync(ctx *shared.Context) *Sync {
	c := &Sync{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local cart with the server",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Sync) Cmd() *cobra.Command { return c.cmd }

func (c *Sync) run(cmd *cobra.Command, _ []string) error {
	return withSession(c.ctx, cmd, func(s *shared.Session) error {
		return s.Store.SyncWithServer(cmd.Context())
	})
}

func printCart(w io.Writer, store *cartclient.Store) error {
	items := store.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", item.ID, item.Name, item.Quantity, item.Price)
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", store.TotalItems(), store.TotalPrice().StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	if last := store.LastSync(); last != nil {
		fmt.Fprintf(w, "Last sync: %s\n", last.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
