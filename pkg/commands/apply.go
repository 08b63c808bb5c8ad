package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/apply"
	"tableflip.dev/buttercsv/pkg/snake"
)

func addApply(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "apply <pairs.csv>",
		Short: base.Wrap80("Apply a two-column key,value file, such as the autosave recovery file, as one transaction."),
		Long: `Apply every key,value row of a file as a single transaction.

If any key does not match an entry of the loaded table nothing is changed. The
autosave recovery file has this format, so apply restores a crashed session.`,
		Example: `
buttercsv apply _autosave_translation_cache.csv
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one key,value CSV file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}
			a := apply.Apply{
				Path:        args[0],
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}
			if i.Interactive {
				a.Confirm = func(count int) (bool, error) {
					return snake.PromptConfirm(cmd, fmt.Sprintf("Apply %d edits", count))
				}
			}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
