package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a page of entries, most shared first.",
		Example: `
buttercsv list
buttercsv list --page 3
buttercsv list --min-duplicates 5 --asc
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}
			l := list.List{
				Page:          lo.Page,
				MinDuplicates: lo.Filter(cmd),
				Ascending:     lo.Ascending,
				Config:        cfg,
				Persistence:   p,
				Output:        output.Format(),
				Out:           cmd.OutOrStdout(),
			}
			err = l.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddListArgs(cmd, lo)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
