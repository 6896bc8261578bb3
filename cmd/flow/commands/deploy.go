package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/flow/internal/app"
)

func (c *CLI) newDeployCmd() *cobra.Command {
	var req app.DeployRequest
	cmd := &cobra.Command{
		Use:   "deploy PATH...",
		Short: "Deploy process artifacts from files or directories",
		Args:  wrapArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			req.Paths = args
			res, err := a.Deploy(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), viewDeployResult(res))
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "Deployment name")
	cmd.Flags().StringVarP(&req.TenantID, "tenant", "t", "", "Tenant id")
	cmd.Flags().StringVar(&req.Category, "category", "", "Deployment category")
	cmd.Flags().BoolVar(&req.DuplicateFiltering, "filter-duplicates", false,
		"Skip the deploy when the latest deployment with the same name has identical content")
	return cmd
}
