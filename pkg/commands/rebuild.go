package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/rebuild"
)

func addRebuild(topLevel *cobra.Command) {
	ro := &options.RebuildOptions{}

	cmd := &cobra.Command{
		Use:   "rebuild -o <out.csv>",
		Short: base.Wrap80("Write the full table with every edit applied and re-wrapped to the line limit."),
		Example: `
buttercsv rebuild -o translations_edited.csv
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}
			r := rebuild.Rebuild{
				Destination: ro.Destination,
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddRebuildArgs(cmd, ro)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
