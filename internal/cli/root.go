// Package cli provides the command-line interface for dgc.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/glossarium/dgc/internal/cli/commands"
	"github.com/glossarium/dgc/internal/cli/config"
	"github.com/glossarium/dgc/pkg/dgc"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dgc",
		Short: "dgc - Data Governance Catalog client",
		Long: `dgc is a command-line client for a data governance catalog.

It browses assets, domains, and types, runs searches, and commits
lineage graphs described in YAML against the catalog's REST API.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)

			if cfg.URL != "" {
				opts := []dgc.Option{
					dgc.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
					dgc.WithLogger(logger),
				}
				if cfg.Username != "" || cfg.Password != "" {
					opts = append(opts, dgc.WithBasicAuth(cfg.Username, cfg.Password))
				}
				if cfg.Retries > 0 {
					opts = append(opts, dgc.WithRetry(uint64(cfg.Retries)))
				}
				if cfg.Verbose {
					opts = append(opts, dgc.WithTelemetry(dgc.NewLogRecorder(logger)))
				}
				client, err := dgc.New(cfg.URL, opts...)
				if err != nil {
					return err
				}
				ctx = commands.WithClient(ctx, client)
			}
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dgc.yaml)")
	rootCmd.PersistentFlags().String("url", "", "Catalog base URL")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Basic auth username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Basic auth password")
	rootCmd.PersistentFlags().Int("timeout", 0, "Request timeout in seconds")
	rootCmd.PersistentFlags().Int("retries", 0, "Retries for transient failures")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewAssetsCommand())
	rootCmd.AddCommand(commands.NewDomainsCommand())
	rootCmd.AddCommand(commands.NewTypesCommand())
	rootCmd.AddCommand(commands.NewSearchCommand())
	rootCmd.AddCommand(commands.NewLineageCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dgc.

To load completions:

Bash:
  $ source <(dgc completion bash)

Zsh:
  $ dgc completion zsh > "${fpath[1]}/_dgc"

Fish:
  $ dgc completion fish | source

PowerShell:
  PS> dgc completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
