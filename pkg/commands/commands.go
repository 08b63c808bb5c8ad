package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/buttercsv/pkg/commands/options"
	"tableflip.dev/buttercsv/pkg/config"
	"tableflip.dev/buttercsv/pkg/logging"
	"tableflip.dev/buttercsv/pkg/store"
)

var (
	output = &options.OutputOptions{}
	cfg    = config.Default()
)

func New() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "buttercsv",
		Short: base.Wrap80("Edit deduplicated localization strings and rebuild the translation CSV."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			cfg = loaded
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				slog.Warn("ignoring unreadable config file", "err", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn or error.")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat,
		"Log format: text or json.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addLoad(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addEdit(topLevel)
	addRevert(topLevel)
	addApply(topLevel)
	addCheck(topLevel)
	addSave(topLevel)
	addRebuild(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

func persistence() (store.Persistence, error) {
	return store.Load(cfg.SessionPath)
}
