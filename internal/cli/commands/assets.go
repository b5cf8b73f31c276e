package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glossarium/dgc/pkg/dgc"
)

// NewAssetsCommand creates the assets command group.
func NewAssetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Browse catalog assets",
	}
	cmd.AddCommand(newAssetsListCommand())
	cmd.AddCommand(newAssetsGetCommand())
	return cmd
}

func newAssetsListCommand() *cobra.Command {
	var (
		name     string
		match    string
		domainID string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := ClientFrom(cmd.Context())
			if err != nil {
				return err
			}
			page, err := client.Assets.Find(cmd.Context(), dgc.FindAssetsOptions{
				Name:      name,
				NameMatch: match,
				DomainID:  domainID,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if ConfigFrom(cmd.Context()).OutputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), page.Results)
			}
			rows := make([]table.Row, 0, len(page.Results))
			for _, a := range page.Results {
				typeName, status := "", ""
				if a.Type != nil {
					typeName = a.Type.Name
				}
				if a.Status != nil {
					status = a.Status.Name
				}
				rows = append(rows, table.Row{a.ID, a.Name, typeName, status})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Type", "Status"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&match, "match", "", "Name match mode (EXACT|START|END|ANYWHERE)")
	cmd.Flags().StringVar(&domainID, "domain-id", "", "Filter by domain id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	return cmd
}

func newAssetsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <asset-id>",
		Short: "Show one asset with its attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ClientFrom(cmd.Context())
			if err != nil {
				return err
			}
			asset, err := client.Assets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			attrs, err := client.Attributes.ForAsset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if ConfigFrom(cmd.Context()).OutputFormat == "json" {
				return renderJSON(cmd.OutOrStdout(), map[string]any{
					"asset":      asset,
					"attributes": attrs,
				})
			}
			rows := []table.Row{{"ID", asset.ID}, {"Name", asset.Name}}
			if asset.Type != nil {
				rows = append(rows, table.Row{"Type", asset.Type.Name})
			}
			if asset.Status != nil {
				rows = append(rows, table.Row{"Status", asset.Status.Name})
			}
			if asset.Domain != nil {
				rows = append(rows, table.Row{"Domain", asset.Domain.Name})
			}
			for _, attr := range attrs {
				if attr.Type != nil {
					rows = append(rows, table.Row{attr.Type.Name, attr.Value})
				}
			}
			renderTable(cmd.OutOrStdout(), table.Row{"Field", "Value"}, rows)
			return nil
		},
	}
	return cmd
}
