// Package resolver maps canonical invoice line items to tenant catalog
// entries using a chain of scored matching strategies, backed by a
// persisted learned-mapping cache that short-circuits future documents.
package resolver

import (
	"context"
	"sort"
	"strings"

	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/store"
	"costeo/ingesta/internal/textutils"
)

// DefaultMinScore is the acceptance threshold: the best-scoring entry is
// only taken when its score reaches it.
const DefaultMinScore = 0.60

// Strategy scores, in priority order. The highest-scoring strategy per
// catalog entry wins, so these also encode how much each signal is
// trusted.
const (
	scoreCodeExact       = 1.00
	scoreCodeSubstring   = 0.90
	scoreNameExact       = 0.85
	scoreDescHasName     = 0.70
	scoreNameHasDesc     = 0.65
	scoreTokenBase       = 0.50
	scoreTokenSpan       = 0.30
	minSubstringNameLen  = 3
	tokenMinLen          = 3
)

// Match is a resolved line item: the catalog entry, the score that won,
// and which signal produced it.
type Match struct {
	Entry  models.CatalogEntry
	Score  float64
	Source string
}

// Config tunes the engine.
type Config struct {
	// MinScore is the acceptance threshold; zero means DefaultMinScore.
	MinScore float64
	// AutoLearn controls whether accepted matches are persisted to the
	// mapping store.
	AutoLearn bool
}

// Engine resolves line items for one or more tenants. It is safe to
// reuse across documents of the same batch; the sequential batch order
// guarantees that mappings learned from document N are visible to N+1.
type Engine struct {
	catalog  store.CatalogReader
	mappings store.MappingStore
	cfg      Config
	logger   logging.Logger
}

// New builds a resolution engine over the catalog and mapping
// collaborators.
func New(catalog store.CatalogReader, mappings store.MappingStore, cfg Config, logger logging.Logger) *Engine {
	if cfg.MinScore == 0 {
		cfg.MinScore = DefaultMinScore
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{catalog: catalog, mappings: mappings, cfg: cfg, logger: logger}
}

// Resolve maps one line item to at most one catalog entry. A nil match
// means the item stays unresolved and is surfaced for manual mapping; an
// empty catalog resolves nothing and raises no error.
func (e *Engine) Resolve(ctx context.Context, tenantID string, item models.CanonicalLineItem) (*Match, error) {
	entries, err := e.catalog.ListEntries(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return e.ResolveAgainst(ctx, tenantID, item, entries)
}

// ResolveAgainst is Resolve with a pre-fetched catalog, so the
// orchestrator can list the catalog once per document instead of once
// per line item.
func (e *Engine) ResolveAgainst(ctx context.Context, tenantID string, item models.CanonicalLineItem, entries []models.CatalogEntry) (*Match, error) {
	code := strings.TrimSpace(item.SKUOrCode)

	// Learned mappings short-circuit the strategy chain entirely.
	if code != "" {
		learned, err := e.mappings.Get(ctx, tenantID, code)
		if err != nil {
			return nil, err
		}
		if learned != nil {
			if entry, ok := entryByID(entries, learned.CatalogEntryID); ok {
				return &Match{Entry: entry, Score: learned.ConfidenceScore, Source: "learned"}, nil
			}
			e.logger.Warn("learned mapping points at a catalog entry that no longer exists",
				logging.Field{Key: logging.FieldTenant, Value: tenantID},
				logging.Field{Key: "source_code", Value: code},
				logging.Field{Key: logging.FieldEntry, Value: learned.CatalogEntryID})
		}
	}

	best := e.scoreAll(item, entries)
	if best == nil || best.Score < e.cfg.MinScore {
		return nil, nil
	}

	if e.cfg.AutoLearn && code != "" {
		written, err := e.mappings.PutIfAbsent(ctx, models.LearnedMapping{
			TenantID:          tenantID,
			SourceCode:        code,
			SourceDescription: item.Description,
			CatalogEntryID:    best.Entry.ID,
			ConfidenceScore:   best.Score,
		})
		if err != nil {
			return nil, err
		}
		if written {
			e.logger.Debug("learned new mapping",
				logging.Field{Key: logging.FieldTenant, Value: tenantID},
				logging.Field{Key: "source_code", Value: code},
				logging.Field{Key: logging.FieldEntry, Value: best.Entry.ID},
				logging.Field{Key: logging.FieldScore, Value: best.Score})
		}
	}

	return best, nil
}

// scoreAll scores the item against every entry and keeps the single
// best. Equal scores break lexicographically by catalog entry ID, which
// keeps resolution deterministic regardless of catalog iteration order.
func (e *Engine) scoreAll(item models.CanonicalLineItem, entries []models.CatalogEntry) *Match {
	sorted := append([]models.CatalogEntry{}, entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var best *Match
	for _, entry := range sorted {
		score, source := scoreEntry(item, entry)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Entry: entry, Score: score, Source: source}
		}
	}
	return best
}

// scoreEntry returns the highest-scoring strategy for one catalog entry.
// The code and exact-name strategies outrank everything a lower strategy
// can produce, so they return directly; the substring strategies compete
// with token overlap, which can reach 0.80, so the maximum of the two is
// taken.
func scoreEntry(item models.CanonicalLineItem, entry models.CatalogEntry) (float64, string) {
	code := strings.ToUpper(strings.TrimSpace(item.SKUOrCode))
	entryCode := strings.ToUpper(strings.TrimSpace(entry.Code))
	desc := textutils.NormalizeText(item.Description)
	name := textutils.NormalizeText(entry.Name)

	if code != "" && entryCode != "" {
		if code == entryCode {
			return scoreCodeExact, "code_exact"
		}
		if strings.Contains(code, entryCode) || strings.Contains(entryCode, code) {
			return scoreCodeSubstring, "code_substring"
		}
	}

	var best float64
	var source string
	if desc != "" && name != "" {
		if desc == name {
			return scoreNameExact, "name_exact"
		}
		if len(name) > minSubstringNameLen && strings.Contains(desc, name) {
			best, source = scoreDescHasName, "description_contains_name"
		} else if len(desc) > minSubstringNameLen && strings.Contains(name, desc) {
			best, source = scoreNameHasDesc, "name_contains_description"
		}
	}

	if score := tokenOverlapScore(desc, name); score > best {
		best, source = score, "token_overlap"
	}
	return best, source
}

// tokenOverlapScore counts shared tokens longer than tokenMinLen runes:
// 0.50 + (overlap / max(token counts)) * 0.30, or zero when nothing
// overlaps.
func tokenOverlapScore(desc, name string) float64 {
	descTokens := textutils.Tokenize(desc, tokenMinLen)
	nameTokens := textutils.Tokenize(name, tokenMinLen)
	if len(descTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	nameSet := make(map[string]bool, len(nameTokens))
	for _, tok := range nameTokens {
		nameSet[tok] = true
	}
	overlap := 0
	for _, tok := range descTokens {
		if nameSet[tok] {
			overlap++
			delete(nameSet, tok)
		}
	}
	if overlap == 0 {
		return 0
	}

	maxCount := len(descTokens)
	if len(nameTokens) > maxCount {
		maxCount = len(nameTokens)
	}
	return scoreTokenBase + float64(overlap)/float64(maxCount)*scoreTokenSpan
}

func entryByID(entries []models.CatalogEntry, id string) (models.CatalogEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.CatalogEntry{}, false
}
