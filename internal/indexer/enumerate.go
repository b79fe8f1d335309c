package indexer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/listing/query"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

// pathPrefix roots every generated listing URL.
const pathPrefix = "/nursing-jobs"

// EnumStore is the store surface page enumeration needs.
type EnumStore interface {
	Count(ctx context.Context, f query.FilterContext) (int, error)
	GroupedCount(ctx context.Context, field string, f query.FilterContext) ([]model.RawCount, error)
	EmployerCounts(ctx context.Context, f query.FilterContext, limit int) ([]model.EmployerCount, error)
	DistinctLocations(ctx context.Context) ([]model.Location, error)
	StateSpecialtyCounts(ctx context.Context) ([]model.StatePairCount, error)
}

// Enumerator walks taxonomy tables and store grouped counts to produce the
// full set of generated listing pages with their change-detection metadata.
type Enumerator struct {
	store   EnumStore
	reg     *taxonomy.Registry
	baseURL string
}

// NewEnumerator builds an Enumerator. baseURL is the site origin, without a
// trailing slash.
func NewEnumerator(store EnumStore, reg *taxonomy.Registry, baseURL string) *Enumerator {
	return &Enumerator{
		store:   store,
		reg:     reg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (e *Enumerator) url(segments ...string) string {
	if len(segments) == 0 {
		return e.baseURL + pathPrefix
	}
	return e.baseURL + pathPrefix + "/" + strings.Join(segments, "/")
}

// Pages enumerates every generated listing page. Only pages with at least one
// active job are emitted: a page that loses its last job drops out of the set
// and gets a deletion notice from the tracker.
func (e *Enumerator) Pages(ctx context.Context) ([]Page, error) {
	var pages []Page

	stateRows, err := e.store.GroupedCount(ctx, "state", query.FilterContext{})
	if err != nil {
		return nil, fmt.Errorf("enumerate states: %w", err)
	}

	var totalJobs int
	var newestOverall time.Time
	for _, row := range stateRows {
		totalJobs += row.Count
		if row.Newest.After(newestOverall) {
			newestOverall = row.Newest
		}
		state, ok := taxonomy.StateByCode(row.Value)
		if !ok {
			continue
		}
		pages = append(pages, Page{
			URL:      e.url(state.Slug),
			Kind:     PageState,
			JobCount: row.Count,
			Newest:   row.Newest,
		})
	}
	pages = append(pages, Page{
		URL:      e.url(),
		Kind:     PageHome,
		JobCount: totalJobs,
		Newest:   newestOverall,
	})

	locations, err := e.store.DistinctLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate cities: %w", err)
	}
	for _, loc := range locations {
		state, ok := taxonomy.StateByCode(loc.State)
		if !ok {
			continue
		}
		pages = append(pages, Page{
			URL:      e.url(state.Slug, taxonomy.Slugify(loc.City)),
			Kind:     PageCity,
			JobCount: loc.Count,
			Newest:   loc.Newest,
		})
	}

	for _, dp := range []struct {
		dim   *taxonomy.Dimension
		field string
		kind  PageKind
	}{
		{e.reg.Specialties, taxonomy.DimSpecialty, PageSpecialty},
		{e.reg.JobTypes, taxonomy.DimJobType, PageJobType},
		{e.reg.Shifts, taxonomy.DimShiftType, PageShift},
		{e.reg.ExperienceLevels, taxonomy.DimExperienceLevel, PageExperience},
	} {
		rows, err := e.store.GroupedCount(ctx, dp.field, query.FilterContext{})
		if err != nil {
			return nil, fmt.Errorf("enumerate %s pages: %w", dp.field, err)
		}
		for _, merged := range foldRows(dp.dim, rows) {
			pages = append(pages, Page{
				URL:      e.url(merged.slug),
				Kind:     dp.kind,
				JobCount: merged.count,
				Newest:   merged.newest,
			})
		}
	}

	pairRows, err := e.store.StateSpecialtyCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate state specialty pages: %w", err)
	}
	type pairKey struct{ stateSlug, specialtySlug string }
	pairs := make(map[pairKey]*Page)
	var pairOrder []pairKey
	for _, row := range pairRows {
		state, ok := taxonomy.StateByCode(row.State)
		if !ok {
			continue
		}
		display := e.reg.Specialties.Normalize(row.Value)
		slug, ok := e.reg.Specialties.Slug(display)
		if !ok {
			continue
		}
		key := pairKey{state.Slug, slug}
		if p, seen := pairs[key]; seen {
			p.JobCount += row.Count
			if row.Newest.After(p.Newest) {
				p.Newest = row.Newest
			}
			continue
		}
		pairs[key] = &Page{
			URL:      e.url(state.Slug, slug),
			Kind:     PageStateSpecialty,
			JobCount: row.Count,
			Newest:   row.Newest,
		}
		pairOrder = append(pairOrder, key)
	}
	for _, key := range pairOrder {
		pages = append(pages, *pairs[key])
	}

	employers, err := e.store.EmployerCounts(ctx, query.FilterContext{}, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerate employer pages: %w", err)
	}
	for _, emp := range employers {
		pages = append(pages, Page{
			URL:      e.url("employer", emp.Slug),
			Kind:     PageEmployer,
			JobCount: emp.Count,
			Newest:   emp.Newest,
		})
	}

	bonusCount, err := e.store.Count(ctx, query.FilterContext{SignOnBonus: true})
	if err != nil {
		return nil, fmt.Errorf("enumerate sign-on-bonus page: %w", err)
	}
	if bonusCount > 0 {
		pages = append(pages, Page{
			URL:      e.url("sign-on-bonus"),
			Kind:     PageSignOnBonus,
			JobCount: bonusCount,
		})
	}

	return pages, nil
}

type foldedRow struct {
	slug   string
	count  int
	newest time.Time
}

// foldRows merges raw variant rows into canonical slugs, summing counts.
// Raw values outside the vocabulary have no URL and are skipped here; the
// facet aggregator is where they surface for review.
func foldRows(dim *taxonomy.Dimension, rows []model.RawCount) []foldedRow {
	merged := make(map[string]*foldedRow)
	var order []string
	for _, row := range rows {
		display := dim.Normalize(row.Value)
		slug, ok := dim.Slug(display)
		if !ok {
			continue
		}
		if f, seen := merged[slug]; seen {
			f.count += row.Count
			if row.Newest.After(f.newest) {
				f.newest = row.Newest
			}
			continue
		}
		merged[slug] = &foldedRow{slug: slug, count: row.Count, newest: row.Newest}
		order = append(order, slug)
	}
	out := make([]foldedRow, 0, len(order))
	for _, slug := range order {
		out = append(out, *merged[slug])
	}
	return out
}
