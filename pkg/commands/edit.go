package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/edit"
	"tableflip.dev/buttercsv/pkg/session"
	"tableflip.dev/buttercsv/pkg/snake"
)

func addEdit(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	var (
		number int
		text   string
	)

	cmd := &cobra.Command{
		Use:   "edit <entry> <text>",
		Short: base.Wrap80("Replace the text of an entry. Every row sharing the text is updated on rebuild."),
		Example: `
buttercsv edit 12 "Welcome back!"
buttercsv edit 12 -i
buttercsv edit -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				if len(args) == 0 {
					return nil
				}
				var err error
				number, err = entryNumber(args[0])
				return err
			}
			if len(args) < 2 {
				return errors.New("requires an entry number and the new text, or --interactive")
			}
			var err error
			if number, err = entryNumber(args[0]); err != nil {
				return err
			}
			text = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := persistence()
			if err != nil {
				return output.HandleError(err)
			}

			e := edit.Edit{
				Number:      number,
				Text:        text,
				Config:      cfg,
				Persistence: p,
				Output:      output.Format(),
				Out:         cmd.OutOrStdout(),
			}

			if i.Interactive {
				if e.Number == 0 {
					s, err := session.Open(cmd.Context(), cfg, p)
					if err != nil {
						return output.HandleError(err)
					}
					view, err := snake.PromptEntry(cmd, s.View())
					if err != nil {
						return output.HandleError(err)
					}
					e.Number = view.Number
				}
				e.Prompt = func(view session.EntryView) (string, error) {
					return snake.PromptText(cmd, view, cfg.Checker())
				}
			}

			err = e.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
