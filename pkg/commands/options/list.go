package options

import (
	"github.com/spf13/cobra"
)

// ListOptions
type ListOptions struct {
	Page          int
	MinDuplicates int
	Ascending     bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page to show, starting at 1.")
	cmd.Flags().IntVarP(&o.MinDuplicates, "min-duplicates", "m", 0,
		"Only show entries shared by at least this many rows. Defaults to the configured filter.")
	cmd.Flags().BoolVar(&o.Ascending, "asc", false,
		"Sort by share count, lowest first.")
}

// Filter is the --min-duplicates value when it was given on the command line.
func (o *ListOptions) Filter(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("min-duplicates") {
		return nil
	}
	min := o.MinDuplicates
	return &min
}
