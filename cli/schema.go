package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/datahub/internal/schema"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func schemaCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <command>",
		Short: "Inspect parameter schema files",
		Example: heredoc.Doc(`
			$ datahub schema check ./schema.toml
			$ datahub schema diff ./schema.yaml
			$ datahub schema diff ./old.json ./new.yaml
		`),
	}

	cmd.AddCommand(
		schemaCheckCommand(cfg),
		schemaDiffCommand(cfg),
	)

	return cmd
}

func schemaCheckCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a schema file, the configured one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaCfg := cfg.Schema
			if len(args) > 0 {
				schemaCfg.Path = args[0]
			}

			sch, err := schema.Load(schemaCfg)
			if err != nil {
				return err
			}

			report := [][]string{}
			report = append(report, []string{"SEARCH TYPE", "PARAMETERS"})
			for _, t := range sch.SearchTypes() {
				params, err := sch.Lookup(t)
				if err != nil {
					return err
				}
				report = append(report, []string{term.Bluef(t), fmt.Sprint(params.Len())})
			}
			printer.Table(os.Stdout, report)
			return nil
		},
	}
}

func schemaDiffCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <to> | <from> <to>",
		Short: "List what changes between two schema files",
		Long: heredoc.Doc(`
			Compares two schema files. With a single file, the configured
			schema (or the built-in one) is the starting point.
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromPath, toPath := cfg.Schema.Path, args[0]
			if len(args) == 2 {
				fromPath, toPath = args[0], args[1]
			}

			from, err := schema.ReadFile(fromPath)
			if err != nil {
				return err
			}
			to, err := schema.ReadFile(toPath)
			if err != nil {
				return err
			}

			changes, err := schema.Compare(from, to)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				fmt.Println(term.Greenf("no changes"))
				return nil
			}

			report := [][]string{}
			report = append(report, []string{"CHANGE", "PATH", "FROM", "TO"})
			for _, c := range changes {
				report = append(report, []string{c.Type, c.Path, fmt.Sprint(c.From), fmt.Sprint(c.To)})
			}
			printer.Table(os.Stdout, report)
			return nil
		},
	}
}
