package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/revert"
)

func addRevert(topLevel *cobra.Command) {
	var number int

	cmd := &cobra.Command{
		Use:   "revert <entry>",
		Short: "Restore an entry to the text it was loaded with.",
		Example: `
buttercsv revert 12
`,
		Args: func(cmd *cobra.Command, args []string) error {
			var err error
			number, err = oneEntryNumber(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}
			r := revert.Revert{
				Number:      number,
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
