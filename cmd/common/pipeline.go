// Package common provides the shared pipeline wiring used by the ingest
// and batch commands.
package common

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"costeo/ingesta/internal/categorizer"
	"costeo/ingesta/internal/cfdi"
	"costeo/ingesta/internal/config"
	"costeo/ingesta/internal/ingest"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/resolver"
	"costeo/ingesta/internal/sink"
	"costeo/ingesta/internal/store"
)

// Pipeline bundles the wired orchestrator with the store it owns.
type Pipeline struct {
	Orchestrator *ingest.Orchestrator
	Store        store.Store
	Logger       logging.Logger
}

// Build wires the full pipeline from configuration. outputDir, when
// non-empty, overrides the configured output directory.
func Build(cfg *config.Config, outputDir string, log *logrus.Logger) (*Pipeline, error) {
	logger := logging.NewLogrusAdapterFromLogger(log)

	var st store.Store
	var err error
	switch cfg.Store.Backend {
	case "sqlite":
		st, err = store.OpenSQLite(context.Background(), cfg.Store.Path)
	default:
		st, err = store.NewFileStore(cfg.Store.Path, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", cfg.Store.Backend, err)
	}

	taxonomy := categorizer.DefaultTaxonomy()
	if cfg.Categorizer.TaxonomyFile != "" {
		taxonomy, err = categorizer.LoadTaxonomy(cfg.Categorizer.TaxonomyFile, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
	}
	classifier := categorizer.NewWithTaxonomy(taxonomy, logger)

	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}

	res := resolver.New(st, st, resolver.Config{
		MinScore:  cfg.Resolver.MinScore,
		AutoLearn: cfg.Resolver.AutoLearn,
	}, logger)
	orch := ingest.New(st, st, cfdi.NewParser(classifier, logger), res,
		sink.NewCSVSink(outputDir, cfg.Delimiter(), logger),
		ingest.Options{RejectMissingUID: cfg.Ingest.RejectMissingUID}, logger)

	return &Pipeline{Orchestrator: orch, Store: st, Logger: logger}, nil
}

// Close releases the store.
func (p *Pipeline) Close() {
	if err := p.Store.Close(); err != nil {
		p.Logger.WithError(err).Warn("Failed to close store")
	}
}

// ReportResult logs one document's outcome at the appropriate level.
func ReportResult(log *logrus.Logger, result models.IngestionResult) {
	entry := log.WithFields(logrus.Fields{
		"document": result.DocumentID,
		"kind":     string(result.Kind),
		"status":   string(result.Status),
		"records":  result.RecordsProcessed,
	})

	switch result.Status {
	case models.StatusSuccess:
		entry.Info("Document ingested")
	case models.StatusPartial:
		entry.WithFields(logrus.Fields{
			"row_errors": len(result.RowErrors),
			"unmatched":  len(result.UnmatchedItems),
		}).Warn("Document ingested with problems")
	default:
		entry.WithField("error", result.Error).Error("Document not ingested")
	}

	for _, re := range result.RowErrors {
		log.WithFields(logrus.Fields{
			"document": result.DocumentID,
			"row":      re.RowNumber,
			"field":    re.Field,
		}).Warn(re.Message)
	}
	for _, item := range result.UnmatchedItems {
		log.WithFields(logrus.Fields{
			"document": result.DocumentID,
			"item":     item,
		}).Warn("Line item left unresolved, manual mapping needed")
	}
}
