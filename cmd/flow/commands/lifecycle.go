package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newSuspendCmd() *cobra.Command {
	return c.newSuspensionCmd("suspend ID", "Suspend a definition", true)
}

func (c *CLI) newActivateCmd() *cobra.Command {
	return c.newSuspensionCmd("activate ID", "Lift the suspension of a definition", false)
}

func (c *CLI) newSuspensionCmd(use, short string, suspend bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			if suspend {
				err = a.Suspend(cmd.Context(), args[0])
			} else {
				err = a.Activate(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			suspended, err := a.Suspended(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), suspensionView{ID: args[0], Suspended: suspended})
		},
	}
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "remove DEPLOYMENT_ID",
		Short: "Remove a deployment and its definitions",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			if err := a.Remove(cmd.Context(), args[0], cascade); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed deployment %s\n", args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also delete dependent metadata")
	return cmd
}
