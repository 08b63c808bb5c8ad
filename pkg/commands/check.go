package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/runner/check"
)

func addCheck(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check [text]",
		Short: "Check text, or every entry, against the line and color tag rules.",
		Example: `
buttercsv check "‾C01Warning‾C00 do not turn off"
buttercsv check
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c := check.Check{
				Config: cfg,
				Output: output.Format(),
				Out:    cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				text := strings.Join(args, " ")
				c.Text = &text
			} else {
				p, err := persistence()
				if err != nil {
					return output.HandleError(err)
				}
				c.Persistence = p
			}
			err := c.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
