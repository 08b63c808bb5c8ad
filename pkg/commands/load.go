package commands

import (
	"errors"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/load"
)

func addLoad(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "load <file.csv>",
		Short: base.Wrap80("Start a session from a location,source,target CSV. Edits of an earlier session are dropped."),
		Example: `
buttercsv load translations.csv
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one CSV file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}
			l := load.Load{
				Path:        args[0],
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}
			err = l.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
