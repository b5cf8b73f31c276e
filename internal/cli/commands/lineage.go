package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/glossarium/dgc/pkg/lineage"
)

// NewLineageCommand creates the lineage command group.
func NewLineageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Work with lineage graphs",
	}
	cmd.AddCommand(newLineageShowCommand())
	cmd.AddCommand(newLineageCommitCommand())
	return cmd
}

func loadGraph(path string) (lineage.GraphDoc, error) {
	var doc lineage.GraphDoc
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read graph file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse graph file %s: %w", path, err)
	}
	return doc, nil
}

func newLineageShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <graph.yaml>",
		Short: "Render a lineage graph file as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			// Rendering needs no catalog access.
			b := lineage.NewBuilder(nil).FromStructured(doc)
			fmt.Fprint(cmd.OutOrStdout(), b.Visualize())
			return nil
		},
	}
}

func newLineageCommitCommand() *cobra.Command {
	var (
		domainID    string
		statusID    string
		dryRun      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "commit <graph.yaml>",
		Short: "Commit a lineage graph file to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			// Dry runs never touch the catalog, so they work without a URL.
			var catalog lineage.Catalog
			if !dryRun {
				client, err := ClientFrom(cmd.Context())
				if err != nil {
					return err
				}
				catalog = lineage.NewClientCatalog(client)
			}

			b := lineage.NewBuilder(
				catalog,
				lineage.WithLogger(LoggerFrom(cmd.Context())),
			).FromStructured(doc)

			opts := []lineage.CommitOption{}
			if statusID != "" {
				opts = append(opts, lineage.WithStatusID(statusID))
			}
			if dryRun {
				opts = append(opts, lineage.WithDryRun())
			}
			if concurrency > 1 {
				opts = append(opts, lineage.WithConcurrency(concurrency))
			}

			result := b.Commit(cmd.Context(), domainID, opts...)

			if ConfigFrom(cmd.Context()).OutputFormat == "json" {
				if err := renderJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Assets created:    %d\n", result.AssetsCreated)
				fmt.Fprintf(cmd.OutOrStdout(), "Relations created: %d\n", result.RelationsCreated)
				for _, msg := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", msg)
				}
			}
			if !result.Success {
				return fmt.Errorf("commit finished with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domainID, "domain-id", "", "Target domain id (required)")
	cmd.Flags().StringVar(&statusID, "status-id", "", "Status applied to created assets")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without creating anything")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Parallel catalog requests per phase")
	_ = cmd.MarkFlagRequired("domain-id")
	return cmd
}
