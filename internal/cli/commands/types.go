package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glossarium/dgc/pkg/dgc"
)

// NewTypesCommand creates the types command group.
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Browse catalog type resources",
	}
	cmd.AddCommand(newTypesListCommand())
	return cmd
}

func newTypesListCommand() *cobra.Command {
	var (
		kind string
		name string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List types of one kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := ClientFrom(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			opts := dgc.FindTypesOptions{Name: name}
			jsonOut := ConfigFrom(ctx).OutputFormat == "json"

			switch kind {
			case "asset":
				page, err := client.Types.AssetTypes(ctx, opts)
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), page.Results)
				}
				rows := make([]table.Row, 0, len(page.Results))
				for _, t := range page.Results {
					rows = append(rows, table.Row{t.ID, t.Name})
				}
				renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name"}, rows)
			case "relation":
				page, err := client.Types.RelationTypes(ctx, dgc.FindRelationTypesOptions{Role: name})
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), page.Results)
				}
				rows := make([]table.Row, 0, len(page.Results))
				for _, t := range page.Results {
					rows = append(rows, table.Row{t.ID, t.Role, t.CoRole})
				}
				renderTable(cmd.OutOrStdout(), table.Row{"ID", "Role", "CoRole"}, rows)
			case "status":
				page, err := client.Types.Statuses(ctx, opts)
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), page.Results)
				}
				rows := make([]table.Row, 0, len(page.Results))
				for _, t := range page.Results {
					rows = append(rows, table.Row{t.ID, t.Name})
				}
				renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name"}, rows)
			case "attribute":
				page, err := client.Types.AttributeTypes(ctx, opts)
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), page.Results)
				}
				rows := make([]table.Row, 0, len(page.Results))
				for _, t := range page.Results {
					rows = append(rows, table.Row{t.ID, t.Name, t.Kind})
				}
				renderTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Kind"}, rows)
			default:
				return fmt.Errorf("unknown type kind %q (want asset, relation, status, or attribute)", kind)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "asset", "Type kind (asset|relation|status|attribute)")
	cmd.Flags().StringVar(&name, "name", "", "Filter by name (role for relation types)")
	return cmd
}
