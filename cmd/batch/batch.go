// Package batch handles the directory ingestion command
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"costeo/ingesta/cmd/common"
	"costeo/ingesta/cmd/root"
	ingestcore "costeo/ingesta/internal/ingest"
	"costeo/ingesta/internal/models"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every document in a directory",
	Long: `Ingest all documents found in the input directory, one at a time in
name order, so duplicate checks and learned mappings from earlier
documents apply to later ones. One result is reported per document; a
rejected document never stops the batch.`,
	Run: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input directory given, use --input")
	}

	entries, err := os.ReadDir(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading input directory: %v", err)
	}

	var docs []ingestcore.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(root.SharedFlags.Input, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			root.Log.WithError(err).Errorf("Skipping unreadable file %s", path)
			continue
		}
		docs = append(docs, ingestcore.Document{
			ID:       entry.Name(),
			TenantID: root.SharedFlags.Tenant,
			Kind:     models.DocumentKind(root.SharedFlags.Kind),
			Data:     data,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	if len(docs) == 0 {
		root.Log.Warn("No documents found in input directory")
		return
	}

	pipeline, err := common.Build(root.Cfg, root.SharedFlags.Output, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}
	defer pipeline.Close()

	results := pipeline.Orchestrator.IngestBatch(context.Background(), docs)

	counts := map[models.IngestionStatus]int{}
	for _, result := range results {
		common.ReportResult(root.Log, result)
		counts[result.Status]++
	}
	root.Log.Infof("Batch finished: %d success, %d partial, %d duplicate, %d rejected, %d failed",
		counts[models.StatusSuccess], counts[models.StatusPartial],
		counts[models.StatusRejectedDuplicate], counts[models.StatusRejectedStructure],
		counts[models.StatusFailed])
}
