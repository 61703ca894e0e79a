package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/resolve"
)

// DefaultCandidates is the number of fuzzy candidates a lookup reports
// when the caller does not ask for a specific count.
const DefaultCandidates = 5

// Lookup answers a single-name resolution query against a caller's catalog.
type Lookup struct {
	Name        string              `json:"name"`
	Found       bool                `json:"found"`
	Match       *resolve.Match      `json:"match,omitempty"`
	Candidates  []resolve.Candidate `json:"candidates"`
	CatalogSize int                 `json:"catalogSize"`
}

// Catalog fetches the caller's catalog with the same rules as a run: an
// empty catalog is ErrEmptyCatalog, a partial one is returned with partial
// set and the cause logged.
func (p *Planner) Catalog(ctx context.Context, apiKey string) (entries []models.CatalogEntry, partial bool, err error) {
	return p.fetchCatalog(ctx, p.log, p.hevy(apiKey))
}

// Lookup resolves name against the caller's catalog and lists up to limit
// fuzzy candidates. A non-positive limit uses DefaultCandidates.
func (p *Planner) Lookup(ctx context.Context, apiKey, name string, limit int) (*Lookup, error) {
	if limit <= 0 {
		limit = DefaultCandidates
	}

	catalog, _, err := p.Catalog(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	l := &Lookup{
		Name:        name,
		Candidates:  resolve.Candidates(name, catalog, limit),
		CatalogSize: len(catalog),
	}
	if l.Candidates == nil {
		l.Candidates = []resolve.Candidate{}
	}
	if m, ok := resolve.Resolve(name, catalog); ok {
		l.Found = true
		l.Match = &m
	}
	return l, nil
}

func (p *Planner) fetchCatalog(ctx context.Context, log *slog.Logger, client Hevy) ([]models.CatalogEntry, bool, error) {
	catalog, err := client.FetchCatalog(ctx, p.opts.PageSize)
	switch {
	case len(catalog) == 0 && err != nil:
		return nil, false, fmt.Errorf("%w: %w", ErrEmptyCatalog, err)
	case len(catalog) == 0:
		return nil, false, ErrEmptyCatalog
	case err != nil:
		log.Warn("catalog fetch incomplete, continuing with partial catalog", "entries", len(catalog), "error", err)
		return catalog, true, nil
	}
	log.Info("catalog fetched", "entries", len(catalog))
	return catalog, false, nil
}
