// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"costeo/ingesta/internal/config"
)

// CommonFlags are the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Output string
	Tenant string
	Kind   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, populated in
	// PersistentPreRun before any subcommand runs.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ingesta",
		Short: "A CLI tool to ingest restaurant financial documents into canonical records.",
		Long: `ingesta ingests sales, expense and inventory extracts plus CFDI tax
invoices, normalizes them into canonical records, categorizes and
resolves invoice line items against the tenant catalog, and rejects
duplicate invoices.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ingesta!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg

			if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
				Log.SetLevel(level)
			}
			if cfg.Log.Format == "json" {
				Log.SetFormatter(&logrus.JSONFormatter{})
			} else {
				Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific categorize/resolve command flags
	Description string
	Code        string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory (overrides configuration)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Tenant, "tenant", "t", "default", "Tenant identifier")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Kind, "kind", "k", "auto", "Document kind (auto, sales, expense, inventory, invoice_xml, invoice_json)")
}
