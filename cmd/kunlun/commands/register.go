package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/kunlun/internal/core/domain"
)

func (c *CLI) newRegisterCmd() *cobra.Command {
	var writeManifest bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Activate the plugin and print the platform class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			class, err := c.app.Register(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), class)

			if writeManifest {
				if _, err := c.app.ExportManifest(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeManifest, "manifest", false, "Write the operator manifest after activation")
	return cmd
}

func (c *CLI) newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "Activate the plugin and list the registered operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.Register(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, op := range c.app.Operators() {
				_, _ = fmt.Fprintf(out, "%s%s  [%s]%s\n",
					op.QualifiedName(), op.Schema, joinKeys(op.DispatchKeys), fakeMarker(op.HasFake))
			}
			return nil
		},
	}
}

func (c *CLI) newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Show the last exported operator manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.app.SavedManifest()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if m == nil {
				_, _ = fmt.Fprintln(out, "no manifest written yet, run: kunlun register --manifest")
				return nil
			}
			_, _ = fmt.Fprintf(out, "platform %s (runtime %s)\n", m.Platform, m.RuntimeVersion)
			for _, e := range m.Operators {
				_, _ = fmt.Fprintf(out, "%s  %s%s\n", e.Fingerprint, e.Name, e.Schema)
			}
			return nil
		},
	}
}

func joinKeys(keys []domain.DispatchKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func fakeMarker(hasFake bool) string {
	if hasFake {
		return " fake"
	}
	return ""
}
