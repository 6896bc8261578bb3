package commands

import (
	"maps"

	"github.com/spf13/cobra"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newGetCmd() *cobra.Command {
	var (
		key     string
		version int
		tenant  string
	)
	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Resolve a definition by id, or by key and version",
		Args:  wrapArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && key != "" {
				return zerr.Wrap(domain.ErrInvalidArgument, "pass either an id or --key")
			}
			if len(args) == 0 && key == "" {
				return zerr.Wrap(domain.ErrInvalidArgument, "an id or --key is required")
			}

			a, err := c.app(cmd)
			if err != nil {
				return err
			}

			var def domain.Definition
			switch {
			case len(args) == 1:
				def, err = a.Definition(cmd.Context(), args[0])
			case cmd.Flags().Changed("version"):
				def, err = a.Version(cmd.Context(), key, version, tenant)
			default:
				def, err = a.Latest(cmd.Context(), key, tenant)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), viewDefinition(def))
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Process key")
	cmd.Flags().IntVar(&version, "version", 0, "Definition version")
	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "Tenant id")
	return cmd
}

func (c *CLI) newLatestCmd() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "latest KEY",
		Short: "Resolve the latest version of a process key",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			def, err := a.Latest(cmd.Context(), args[0], tenant)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), viewDefinition(def))
		},
	}
	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "Tenant id")
	return cmd
}

func (c *CLI) newModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model ID",
		Short: "Print the parsed process model of a definition",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			m, err := a.Model(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), viewModel(m))
		},
	}
}

func (c *CLI) newMetadataCmd() *cobra.Command {
	var set map[string]string
	cmd := &cobra.Command{
		Use:   "metadata ID",
		Short: "Show or update the metadata of a definition",
		Long: "Show the metadata of a definition. With --set, store a new revision with the given " +
			"properties merged in; an empty value removes the property.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			info, err := a.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(set) > 0 {
				props := maps.Clone(info.Properties)
				if props == nil {
					props = make(map[string]string, len(set))
				}
				for k, v := range set {
					if v == "" {
						delete(props, k)
						continue
					}
					props[k] = v
				}
				info, err = a.UpdateMetadata(cmd.Context(), args[0], props)
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), viewMetadata(info))
		},
	}
	cmd.Flags().StringToStringVar(&set, "set", nil, "Set a property (key=value), repeatable")
	return cmd
}
