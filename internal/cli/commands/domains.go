package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glossarium/dgc/pkg/dgc"
)

// NewDomainsCommand creates the domains command group.
func NewDomainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Browse catalog domains",
	}
	cmd.AddCommand(newDomainsListCommand())
	return cmd
}

func newDomainsListCommand() *cobra.Command {
	var (
		name        string
		communityID string
		limit       int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := ClientFrom(cmd.Context())
			if err != nil {
				return err
			}
			page, err := client.Domains.Find(cmd.Context(), dgc.FindDomainsOptions{
				Name:        name,
				CommunityID: communityID,
				Limit:       limit,
			})
			if err != nil {
				return err
			}

			if ConfigFrom(cmd.Context()).OutputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), page.Results)
			}
			rows := make([]table.Row, 0, len(page.Results))
			for _, d := range page.Results {
				community := ""
				if d.Community != nil {
					community = d.Community.Name
				}
				rows = append(rows, table.Row{d.ID, d.Name, community})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Community"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&communityID, "community-id", "", "Filter by community id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	return cmd
}
