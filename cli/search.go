package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/datahub/internal/client"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func searchCommand(cfg *Config) *cobra.Command {
	var params map[string]string
	var collections bool
	var rows, page int
	var output string
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "search the datasets of a running gateway",
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: cobra.MaximumNArgs(1),
		Example: heredoc.Doc(`
			$ datahub search "sea ice"
			$ datahub search ice --param bbox=-10,40,10,60 --param sort="metadata_modified desc"
			$ datahub search --collections --param platform=Sentinel-2
			$ datahub search ice -o xml
		`),

		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client)
			if err != nil {
				return err
			}

			res, err := clnt.Search(cmd.Context(), makeSearchParams(args, params, rows, page), collections)
			if err != nil {
				return err
			}

			spinner.Stop()
			if output == "xml" {
				fmt.Println(string(res))
				return nil
			}

			feed, err := client.ParseFeed(res)
			if err != nil {
				return err
			}
			report := [][]string{}
			report = append(report, []string{"TITLE", "ID", "UPDATED"})
			for _, e := range feed.Entries {
				report = append(report, []string{term.Bluef(e.Title), e.ID, e.Updated})
			}
			printer.Table(os.Stdout, report)

			fmt.Println(term.Greenf("Showing %d of %d results from %d", len(feed.Entries), feed.TotalResults, feed.StartIndex))
			fmt.Println(term.Cyanf("To view the Atom document, use flag `-o xml`"))
			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "extra search parameter, e.g. --param bbox=-10,40,10,60")
	cmd.Flags().BoolVar(&collections, "collections", false, "search collections instead of datasets")
	cmd.Flags().IntVarP(&rows, "rows", "r", 0, "number of results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number, starting from 1")
	cmd.Flags().StringVarP(&output, "out", "o", "table", "flag to control output viewing, for xml `-o xml`")
	return cmd
}

func makeSearchParams(args []string, extra map[string]string, rows, page int) url.Values {
	params := url.Values{}
	if len(args) > 0 && args[0] != "" {
		params.Set("q", args[0])
	}
	for k, v := range extra {
		params.Set(k, v)
	}
	if rows > 0 {
		params.Set("rows", strconv.Itoa(rows))
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func describeCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [search-type]",
		Short: "print the OpenSearch description document of a search type",
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: cobra.MaximumNArgs(1),
		Example: heredoc.Doc(`
			$ datahub describe
			$ datahub describe collection
			$ datahub describe SENTINEL-2
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client)
			if err != nil {
				return err
			}

			var searchType string
			if len(args) > 0 {
				searchType = args[0]
			}
			res, err := clnt.Describe(cmd.Context(), searchType)
			if err != nil {
				return err
			}

			spinner.Stop()
			fmt.Println(string(res))
			return nil
		},
	}
	return cmd
}
