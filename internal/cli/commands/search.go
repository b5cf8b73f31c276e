package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glossarium/dgc/pkg/dgc"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <keywords>",
		Short: "Search the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ClientFrom(cmd.Context())
			if err != nil {
				return err
			}
			page, err := client.Search.Search(cmd.Context(), dgc.SearchRequest{
				Keywords: args[0],
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			if ConfigFrom(cmd.Context()).OutputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), page.Results)
			}
			rows := make([]table.Row, 0, len(page.Results))
			for _, hit := range page.Results {
				rows = append(rows, table.Row{
					hit.Resource.ID, hit.Resource.Name, hit.Resource.ResourceType,
				})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Resource"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum results")
	return cmd
}
