// Package categorize handles the taxonomy lookup command
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"costeo/ingesta/cmd/root"
	"costeo/ingesta/internal/categorizer"
	"costeo/ingesta/internal/logging"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a line-item description",
	Long:  `Classify one free-text line-item description against the cost taxonomy.`,
	Run:   categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Line-item description to categorize")
	if err := Cmd.MarkFlagRequired("description"); err != nil {
		root.Log.Warnf("Failed to mark description flag required: %v", err)
	}
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	taxonomy := categorizer.DefaultTaxonomy()
	if root.Cfg.Categorizer.TaxonomyFile != "" {
		loaded, err := categorizer.LoadTaxonomy(root.Cfg.Categorizer.TaxonomyFile, logger)
		if err != nil {
			root.Log.Fatalf("Error loading taxonomy: %v", err)
		}
		taxonomy = loaded
	}

	category := categorizer.NewWithTaxonomy(taxonomy, logger).Categorize(root.Description)
	fmt.Printf("%s\n", category)
}
