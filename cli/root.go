package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

func New(cliConfig *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "datahub <command> <subcommand> [flags]",
		Short:         "Dataset catalog search gateway",
		Long:          "OpenSearch gateway over the dataset catalog.",
		SilenceErrors: true,
		SilenceUsage:  false,
		Example: heredoc.Doc(`
		$ datahub server start
		$ datahub search "sea ice"
		$ datahub describe
		$ datahub schema diff ./schema.yaml
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'datahub <command> --help' for info about a command.
				Read the manual at https://github.com/goto/datahub
			`),
			"help:feedback": heredoc.Doc(`
				Open an issue here https://github.com/goto/datahub/issues
			`),
		},
	}

	if cliConfig.Client.ServerHeaderKeyUserUUID == "" {
		cliConfig.Client.ServerHeaderKeyUserUUID = cliConfig.Service.Identity.HeaderKeyUserUUID
	}

	rootCmd.AddCommand(
		serverCmd(cliConfig),
		configCommand(cliConfig),
		searchCommand(cliConfig),
		describeCommand(cliConfig),
		schemaCommand(cliConfig),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("datahub"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	rootCmd.AddCommand(cmdx.SetHelpTopicCmd("environment", envHelp))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
