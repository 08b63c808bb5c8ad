package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	var number int

	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Show the full text and issues of an entry.",
		Example: `
buttercsv show 12
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
			s := show.Show{
				Number:      number,
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
