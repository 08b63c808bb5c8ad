package options

import (
	"github.com/spf13/cobra"
)

// RebuildOptions
type RebuildOptions struct {
	Destination string
}

func AddRebuildArgs(cmd *cobra.Command, o *RebuildOptions) {
	cmd.Flags().StringVarP(&o.Destination, "output", "o", "",
		"Path of the rebuilt CSV.")
	_ = cmd.MarkFlagRequired("output")
}
