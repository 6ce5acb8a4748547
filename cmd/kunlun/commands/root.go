// Package commands implements the CLI commands for the kunlun plugin tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kunlun/internal/app"
	"go.trai.ch/kunlun/internal/build"
	"go.trai.ch/kunlun/internal/core/domain"
)

// CLI represents the command line interface for kunlun.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Register(ctx context.Context) (string, error)
	ExportManifest() (domain.Manifest, error)
	SavedManifest() (*domain.Manifest, error)
	Operators() []domain.OperatorRecord
	ResolveModules() []app.ModuleStatus
	InferSchema(signature string, mutates []string, legacy bool) (string, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kunlun",
		Short:         "Kunlun accelerator plugin for the vLLM runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRegisterCmd())
	rootCmd.AddCommand(c.newOpsCmd())
	rootCmd.AddCommand(c.newManifestCmd())
	rootCmd.AddCommand(c.newModulesCmd())
	rootCmd.AddCommand(c.newSchemaCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
