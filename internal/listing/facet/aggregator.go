package facet

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

// Bucket is one "browse by X" navigation entry: a canonical value with the
// number of matching jobs carrying it (raw variants already merged).
type Bucket struct {
	Display string
	Slug    string
	Count   int
}

// Policy carries the per-dimension bucket caps for one page type. 0 means
// unbounded (emit every non-zero bucket); this is a content-shape decision
// made per page type, not an engine limit.
type Policy struct {
	Specialties      int
	JobTypes         int
	Shifts           int
	ExperienceLevels int
	Employers        int
	Cities           int
	States           int
}

// Cap returns the policy cap for a dimension name.
func (p Policy) Cap(dimension string) int {
	switch dimension {
	case taxonomy.DimSpecialty:
		return p.Specialties
	case taxonomy.DimJobType:
		return p.JobTypes
	case taxonomy.DimShiftType:
		return p.Shifts
	case taxonomy.DimExperienceLevel:
		return p.ExperienceLevels
	default:
		return 0
	}
}

// Aggregator folds raw grouped-count rows into canonical facet buckets.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an Aggregator. The logger records raw values that
// escape the closed vocabulary so the alias tables can be reviewed.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Fold merges raw grouped-count rows into canonical buckets for one
// dimension. Counts for raw variants of the same canonical value are summed
// before any ordering, so one canonical value never fragments into several
// rows. The bucket matching selected (the value pinned by the current filter
// context) is dropped. Buckets are ordered count desc, then display asc for
// deterministic ties. cap 0 means unbounded.
func (a *Aggregator) Fold(dim *taxonomy.Dimension, rows []model.RawCount, selected string, cap int) []Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		display := dim.Normalize(row.Value)
		if _, ok := dim.Slug(display); !ok && a.logger != nil {
			// Pass-through kept deliberately: unknown raw values surface as
			// their own bucket instead of vanishing, but they signal an alias
			// table gap worth fixing upstream.
			a.logger.Warn("Unmatched raw taxonomy value",
				slog.String("dimension", dim.Name()),
				slog.String("raw_value", row.Value),
				slog.Int("count", row.Count),
			)
		}
		counts[display] += row.Count
	}

	buckets := make([]Bucket, 0, len(counts))
	for display, count := range counts {
		if display == selected || count == 0 {
			continue
		}
		slug, ok := dim.Slug(display)
		if !ok {
			slug = taxonomy.Slugify(display)
		}
		buckets = append(buckets, Bucket{Display: display, Slug: slug, Count: count})
	}

	SortBuckets(buckets)
	return Truncate(buckets, cap)
}

// FoldStates maps raw state-code rows onto state buckets (name as display,
// state slug for links). The code pinned by the context is dropped.
func (a *Aggregator) FoldStates(rows []model.RawCount, selectedCode string, cap int) []Bucket {
	buckets := make([]Bucket, 0, len(rows))
	for _, row := range rows {
		if row.Value == selectedCode || row.Count == 0 {
			continue
		}
		state, ok := taxonomy.StateByCode(row.Value)
		if !ok {
			if a.logger != nil {
				a.logger.Warn("Job row with unknown state code",
					slog.String("state", row.Value),
					slog.Int("count", row.Count),
				)
			}
			continue
		}
		buckets = append(buckets, Bucket{Display: state.Name, Slug: state.Slug, Count: row.Count})
	}
	SortBuckets(buckets)
	return Truncate(buckets, cap)
}

// FoldCities maps raw city rows onto buckets with slugified links. Cities are
// open vocabulary, so the store value is taken as the display form. City
// matching is case-insensitive everywhere in the store, so rows are merged on
// the folded name before bucketing and the pinned city is dropped the same
// way, whatever casing ingestion wrote.
func (a *Aggregator) FoldCities(rows []model.RawCount, selectedCity string, cap int) []Bucket {
	type cityCount struct {
		display string
		count   int
	}
	merged := make(map[string]*cityCount)
	var order []string
	for _, row := range rows {
		key := strings.ToLower(row.Value)
		if c, seen := merged[key]; seen {
			c.count += row.Count
			continue
		}
		merged[key] = &cityCount{display: row.Value, count: row.Count}
		order = append(order, key)
	}

	buckets := make([]Bucket, 0, len(merged))
	for _, key := range order {
		c := merged[key]
		if strings.EqualFold(c.display, selectedCity) || c.count == 0 {
			continue
		}
		buckets = append(buckets, Bucket{
			Display: c.display,
			Slug:    taxonomy.Slugify(c.display),
			Count:   c.count,
		})
	}
	SortBuckets(buckets)
	return Truncate(buckets, cap)
}

// FoldEmployers maps employer-count rows onto buckets.
func (a *Aggregator) FoldEmployers(rows []model.EmployerCount, selectedSlug string, cap int) []Bucket {
	buckets := make([]Bucket, 0, len(rows))
	for _, row := range rows {
		if row.Slug == selectedSlug || row.Count == 0 {
			continue
		}
		buckets = append(buckets, Bucket{Display: row.Name, Slug: row.Slug, Count: row.Count})
	}
	SortBuckets(buckets)
	return Truncate(buckets, cap)
}

// SortBuckets orders buckets count desc, ties broken by display asc. The
// store's tie order is unspecified, so ordering lives here where it is
// testable.
func SortBuckets(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Display < buckets[j].Display
	})
}

// Truncate applies a bucket cap; 0 means unbounded.
func Truncate(buckets []Bucket, cap int) []Bucket {
	if cap > 0 && len(buckets) > cap {
		return buckets[:cap]
	}
	return buckets
}
