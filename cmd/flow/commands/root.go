// Package commands implements the CLI commands for flow.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/flow/internal/app"
	"go.trai.ch/flow/internal/build"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Factory builds the application components for a configuration file.
type Factory func(ctx context.Context, configPath string) (*app.Components, error)

// CLI represents the command line interface for flow.
type CLI struct {
	factory    Factory
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance. Components are built on first use, so commands that
// need no engine never touch the store.
func New(factory Factory) *CLI {
	rootCmd := &cobra.Command{
		Use:           "flow",
		Short:         "Deploy and resolve process definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "flow.yaml", "Path to configuration file")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return zerr.Wrap(domain.ErrInvalidArgument, err.Error())
	})

	c := &CLI{
		factory: factory,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newDeployCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newLatestCmd())
	rootCmd.AddCommand(c.newModelCmd())
	rootCmd.AddCommand(c.newMetadataCmd())
	rootCmd.AddCommand(c.newSuspendCmd())
	rootCmd.AddCommand(c.newActivateCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newMigrateCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context and releases the components
// afterwards.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.components == nil {
		return err
	}

	closeErr := c.components.Close()
	if closeErr == nil {
		return err
	}
	if err == nil {
		return zerr.Wrap(closeErr, "failed to close components")
	}
	c.components.Logger.Error(closeErr)
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// app returns the application, building the components on first use.
func (c *CLI) app(cmd *cobra.Command) (*app.App, error) {
	if c.components != nil {
		return c.components.App, nil
	}
	configPath, err := c.rootCmd.PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	components, err := c.factory(cmd.Context(), configPath)
	if err != nil {
		return nil, err
	}
	c.components = components
	return components.App, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return zerr.Wrap(domain.ErrInvalidArgument, err.Error())
		}
		return nil
	}
}

// SetOutput redirects command output and cobra's own messages.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
