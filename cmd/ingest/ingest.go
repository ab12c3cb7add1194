// Package ingest handles the single-document ingestion command
package ingest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"costeo/ingesta/cmd/common"
	"costeo/ingesta/cmd/root"
	ingestcore "costeo/ingesta/internal/ingest"
	"costeo/ingesta/internal/models"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a single document",
	Long:  `Ingest one sales, expense or inventory extract, or one CFDI invoice, into canonical records.`,
	Run:   ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input file given, use --input")
	}

	data, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading input file: %v", err)
	}

	pipeline, err := common.Build(root.Cfg, root.SharedFlags.Output, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}
	defer pipeline.Close()

	result := pipeline.Orchestrator.Ingest(context.Background(), ingestcore.Document{
		ID:       filepath.Base(root.SharedFlags.Input),
		TenantID: root.SharedFlags.Tenant,
		Kind:     models.DocumentKind(root.SharedFlags.Kind),
		Data:     data,
	})
	common.ReportResult(root.Log, result)

	if result.Status.Rejected() || result.Status == models.StatusFailed {
		os.Exit(1)
	}
}
