package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/pkg/diagram"
)

// convertCommand rewrites a document in another format.
func (c *CLI) convertCommand() *cobra.Command {
	var resolved bool

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a pool document between JSON and TOML",
		Long: `Convert a pool document between JSON and TOML. Formats are taken from
the file extensions.

With --resolved the output also records the defaults the pool was built
with, such as header and milestone strip sizes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, p, err := loadPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if resolved {
				doc = diagram.FromPool(p)
			}
			if err := diagram.WriteFile(args[1], doc); err != nil {
				return fmt.Errorf("convert: %w", err)
			}
			printSuccess("Converted %s", args[0])
			printFile(args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolved, "resolved", false, "write resolved defaults")
	return cmd
}
