package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newModulesCmd() *cobra.Command {
	var activate bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Resolve every redirected module and show where it comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if activate {
				if _, err := c.app.Register(cmd.Context()); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			for _, st := range c.app.ResolveModules() {
				if st.Err != nil {
					_, _ = fmt.Fprintf(out, "%s -> %s  error: %v\n", st.Logical, st.Target, st.Err)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s -> %s  origin=%s shared=%t\n", st.Logical, st.Target, st.Origin, st.Shared)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&activate, "activate", true, "Activate the plugin before resolving")
	return cmd
}
