// Package rootcmd wires the root cobra.Command for the sunlight CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	cartcmd "github.com/example/sunlight/cmd/sunlight/cart"
	orderscmd "github.com/example/sunlight/cmd/sunlight/orders"
	sessioncmd "github.com/example/sunlight/cmd/sunlight/session"
	"github.com/example/sunlight/cmd/sunlight/shared"
	"github.com/example/sunlight/internal/cartclient"
)

// New creates and returns the root cobra.Command for the sunlight CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "sunlight",
		Short:         "SunLight cart from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ctx.APIURL, "api-url", cartclient.DefaultBaseURL, "SunLight API root")
	pf.StringVar(&ctx.StatePath, "state", shared.DefaultStatePath(), "Local state database")
	pf.BoolVarP(&ctx.Verbose, "verbose", "v", false, "Log sync activity")

	root.AddCommand(
		sessioncmd.NewLogin(ctx).Cmd(),
		sessioncmd.NewLogout(ctx).Cmd(),
		cartcmd.NewAdd(ctx).Cmd(),
		cartcmd.NewRemove(ctx).Cmd(),
		cartcmd.NewSet(ctx).Cmd(),
		cartcmd.NewClear(ctx).Cmd(),
		cartcmd.NewShow(ctx).Cmd(),
		cartcmd.NewSync(ctx).Cmd(),
		orderscmd.NewWatch(ctx).Cmd(),
	)

	return root
}
