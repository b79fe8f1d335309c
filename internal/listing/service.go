// Package listing composes listing-page results: one paged job fetch plus the
// facet and aggregate sub-queries that power the page's navigation blocks.
package listing

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nursenav/listings-be/internal/listing/facet"
	"github.com/nursenav/listings-be/internal/listing/interleave"
	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/listing/query"
	"github.com/nursenav/listings-be/internal/listing/storage"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

// Store is the job store surface the page service needs. The sqlx store
// satisfies it; tests swap in fakes.
type Store interface {
	FilteredFetch(ctx context.Context, f query.FilterContext, offset, limit int) ([]model.Job, error)
	Count(ctx context.Context, f query.FilterContext) (int, error)
	GroupedCount(ctx context.Context, field string, f query.FilterContext) ([]model.RawCount, error)
	Aggregate(ctx context.Context, f query.FilterContext, metric storage.Metric) (float64, error)
	EmployerCounts(ctx context.Context, f query.FilterContext, limit int) ([]model.EmployerCount, error)
}

// Pagination is the page metadata block of a PageResult.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Stats holds the per-dimension facet buckets for one page.
type Stats struct {
	Specialties      []facet.Bucket
	JobTypes         []facet.Bucket
	Shifts           []facet.Bucket
	ExperienceLevels []facet.Bucket
	Employers        []facet.Bucket
	Cities           []facet.Bucket
	States           []facet.Bucket
}

// PageResult is everything the rendering layer needs for one listing page.
type PageResult struct {
	Jobs          []model.Job
	Pagination    Pagination
	Stats         Stats
	MaxHourlyRate float64
}

// Config tunes page composition.
type Config struct {
	// WindowSize bounds the recency window fetched for employer
	// interleaving. Pages past the window fall back to plain recency order.
	WindowSize int
	// TopEmployers / TopCities / TopStates cap those facet lists; 0 means
	// unbounded.
	TopEmployers int
	TopCities    int
	TopStates    int
}

// Service builds PageResults for resolved filter contexts.
type Service struct {
	store  Store
	reg    *taxonomy.Registry
	agg    *facet.Aggregator
	cfg    Config
	logger *slog.Logger
}

// NewService wires the page service.
func NewService(store Store, reg *taxonomy.Registry, agg *facet.Aggregator, cfg Config, logger *slog.Logger) *Service {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 600
	}
	return &Service{
		store:  store,
		reg:    reg,
		agg:    agg,
		cfg:    cfg,
		logger: logger,
	}
}

// policyFor picks the facet caps for the page shape. State-scoped pages emit
// every city for link breadth; national pages cap cities. Taxonomy dimension
// facets are always unbounded (the vocabularies are small and every non-zero
// bucket is an internal link).
func (s *Service) policyFor(f query.FilterContext) facet.Policy {
	p := facet.Policy{
		Employers: s.cfg.TopEmployers,
		Cities:    s.cfg.TopCities,
		States:    s.cfg.TopStates,
	}
	if f.StateCode != "" {
		p.Cities = 0
	}
	return p
}

// BuildPage runs the paged fetch and all facet/aggregate sub-queries for a
// filter context concurrently, then assembles the PageResult. The sub-queries
// have no data dependency on each other; the first store error cancels the
// rest and propagates to the caller untouched.
func (s *Service) BuildPage(ctx context.Context, f query.FilterContext) (*PageResult, error) {
	pol := s.policyFor(f)

	var (
		jobs      []model.Job
		total     int
		maxHourly float64
		stats     Stats
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		jobs, err = s.fetchPage(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		maxHourly, err = s.store.Aggregate(gctx, f, storage.MetricMaxHourlyRate)
		return err
	})

	// Facets for a dimension are computed with that dimension's own
	// constraint lifted, so a pinned page still gets its "browse other X"
	// block; the pinned bucket itself is dropped during folding.
	type dimFacet struct {
		dim  *taxonomy.Dimension
		dest *[]facet.Bucket
	}
	for _, df := range []dimFacet{
		{s.reg.Specialties, &stats.Specialties},
		{s.reg.JobTypes, &stats.JobTypes},
		{s.reg.Shifts, &stats.Shifts},
		{s.reg.ExperienceLevels, &stats.ExperienceLevels},
	} {
		df := df
		g.Go(func() error {
			name := df.dim.Name()
			rows, err := s.store.GroupedCount(gctx, name, contextWithout(f, name))
			if err != nil {
				return err
			}
			*df.dest = s.agg.Fold(df.dim, rows, f.Selected(name), pol.Cap(name))
			return nil
		})
	}

	g.Go(func() error {
		rows, err := s.store.EmployerCounts(gctx, contextWithout(f, "employer"), pol.Employers)
		if err != nil {
			return err
		}
		stats.Employers = s.agg.FoldEmployers(rows, f.EmployerSlug, pol.Employers)
		return nil
	})

	if f.StateCode != "" {
		g.Go(func() error {
			rows, err := s.store.GroupedCount(gctx, "city", contextWithout(f, "city"))
			if err != nil {
				return err
			}
			stats.Cities = s.agg.FoldCities(rows, f.City, pol.Cities)
			return nil
		})
	}

	g.Go(func() error {
		rows, err := s.store.GroupedCount(gctx, "state", contextWithout(f, "state"))
		if err != nil {
			return err
		}
		stats.States = s.agg.FoldStates(rows, f.StateCode, pol.States)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &PageResult{
		Jobs:          jobs,
		Pagination:    paginate(f, total),
		Stats:         stats,
		MaxHourlyRate: maxHourly,
	}

	s.logger.Debug("Listing page built",
		slog.Int("jobs", len(jobs)),
		slog.Int("total", total),
		slog.Int("page", f.Page),
	)

	return result, nil
}

// fetchPage fetches the interleaving window, diversifies it, and slices out
// the requested page. Requests addressing rows past the window skip
// interleaving and page straight off the recency order.
func (s *Service) fetchPage(ctx context.Context, f query.FilterContext) ([]model.Job, error) {
	offset := f.Offset()
	if offset+f.Limit > s.cfg.WindowSize {
		return s.store.FilteredFetch(ctx, f, offset, f.Limit)
	}

	window, err := s.store.FilteredFetch(ctx, f, 0, s.cfg.WindowSize)
	if err != nil {
		return nil, err
	}
	ordered := interleave.ByEmployer(window)

	if offset >= len(ordered) {
		return []model.Job{}, nil
	}
	end := offset + f.Limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}

// contextWithout lifts one constraint from the filter context. Pagination is
// irrelevant for the sub-queries that use this.
func contextWithout(f query.FilterContext, dimension string) query.FilterContext {
	switch dimension {
	case taxonomy.DimSpecialty:
		f.Specialty = ""
	case taxonomy.DimJobType:
		f.JobType = ""
	case taxonomy.DimShiftType:
		f.ShiftType = ""
	case taxonomy.DimExperienceLevel:
		f.ExperienceLevel = ""
	case "employer":
		f.EmployerID = 0
		f.EmployerSlug = ""
	case "city":
		f.City = ""
	case "state":
		f.StateCode = ""
		f.City = ""
	}
	return f
}

func paginate(f query.FilterContext, total int) Pagination {
	totalPages := 0
	if f.Limit > 0 {
		totalPages = (total + f.Limit - 1) / f.Limit
	}
	return Pagination{
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    f.Page < totalPages,
		HasPrev:    f.Page > 1 && total > 0,
	}
}
