package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newSchemaCmd() *cobra.Command {
	var (
		mutates []string
		legacy  bool
	)

	cmd := &cobra.Command{
		Use:   `schema "x: Tensor, dim: int = -1 -> Tensor"`,
		Short: "Derive an operator schema from a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.InferSchema(args[0], mutates, legacy)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&mutates, "mutates", nil, "Parameters the operator writes in place")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use the legacy inferrer, which skips normalization")
	return cmd
}
