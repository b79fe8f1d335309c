package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/listing/query"
	"github.com/nursenav/listings-be/internal/taxonomy"
	"github.com/nursenav/listings-be/shared/postgresql"
)

// Metric names a scalar aggregate over the filtered job set.
type Metric string

const (
	// MetricMaxHourlyRate is the maximum salary_max_hourly over matching jobs.
	MetricMaxHourlyRate Metric = "max_hourly_rate"
)

// groupColumns whitelists the columns GroupedCount may group by.
var groupColumns = map[string]string{
	taxonomy.DimSpecialty:       "j.specialty",
	taxonomy.DimJobType:         "j.job_type",
	taxonomy.DimShiftType:       "j.shift_type",
	taxonomy.DimExperienceLevel: "j.experience_level",
	"state":                     "j.state",
	"city":                      "j.city",
}

const jobColumns = `
	j.id, j.slug, j.title, j.state, j.city,
	j.specialty, j.job_type, j.shift_type, j.experience_level,
	j.employer_id, e.name AS employer_name, e.slug AS employer_slug,
	j.is_active, j.has_sign_on_bonus,
	j.salary_min_hourly, j.salary_max_hourly, j.salary_min_annual, j.salary_max_annual,
	j.posted_date, j.scraped_at`

// Store is the read-side job store accessor backed by PostgreSQL. Canonical
// filter values are expanded to their raw store variant sets here, so every
// fetch, count, and grouped count sees the same predicate.
type Store struct {
	db     *sqlx.DB
	reg    *taxonomy.Registry
	logger *slog.Logger
}

// NewStore creates a Store on top of the shared PostgreSQL client.
func NewStore(pg *postgresql.Client, reg *taxonomy.Registry, logger *slog.Logger) *Store {
	return &Store{
		db:     pg.GetDB(),
		reg:    reg,
		logger: logger,
	}
}

// whereClause renders the filter into SQL starting after "WHERE j.is_active".
// Inactive jobs are excluded from every query this store runs.
func (s *Store) whereClause(f query.FilterContext) (string, []interface{}) {
	clause := " WHERE j.is_active = TRUE"
	args := []interface{}{}
	argIdx := 1

	add := func(cond string, vals ...interface{}) {
		clause += " AND " + cond
		args = append(args, vals...)
		argIdx += len(vals)
	}

	if f.StateCode != "" {
		add(fmt.Sprintf("j.state = $%d", argIdx), f.StateCode)
	}
	if f.City != "" {
		add(fmt.Sprintf("LOWER(j.city) = LOWER($%d)", argIdx), f.City)
	}
	if f.Specialty != "" {
		add(fmt.Sprintf("j.specialty = ANY($%d)", argIdx), pq.Array(s.reg.Specialties.DBValues(f.Specialty)))
	}
	if f.JobType != "" {
		add(fmt.Sprintf("LOWER(j.job_type) = ANY($%d)", argIdx), pq.Array(lowerAll(s.reg.JobTypes.DBValues(f.JobType))))
	}
	if f.ShiftType != "" {
		add(fmt.Sprintf("LOWER(j.shift_type) = ANY($%d)", argIdx), pq.Array(lowerAll(s.reg.Shifts.DBValues(f.ShiftType))))
	}
	if f.ExperienceLevel != "" {
		add(fmt.Sprintf("LOWER(j.experience_level) = ANY($%d)", argIdx), pq.Array(lowerAll(s.reg.ExperienceLevels.DBValues(f.ExperienceLevel))))
	}
	if f.EmployerID != 0 {
		add(fmt.Sprintf("j.employer_id = $%d", argIdx), f.EmployerID)
	}
	if f.SignOnBonus {
		clause += " AND j.has_sign_on_bonus = TRUE"
	}

	return clause, args
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// FilteredFetch returns matching jobs ordered by recency (posted date desc,
// id desc as the tie-breaker for a stable order).
func (s *Store) FilteredFetch(ctx context.Context, f query.FilterContext, offset, limit int) ([]model.Job, error) {
	where, args := s.whereClause(f)
	q := "SELECT " + jobColumns + `
		FROM jobs j
		JOIN employers e ON e.id = j.employer_id` +
		where +
		fmt.Sprintf(" ORDER BY j.posted_date DESC, j.id DESC OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, q, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return jobs, nil
}

// Count returns the number of matching jobs.
func (s *Store) Count(ctx context.Context, f query.FilterContext) (int, error) {
	where, args := s.whereClause(f)
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM jobs j"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// GroupedCount groups matching jobs by one raw store column. Rows where the
// column is NULL or empty are excluded, matching the facet contract: jobs
// missing a dimension stay in the list but never appear in that dimension's
// buckets. Variant merging into canonical buckets happens in the aggregator,
// not here.
func (s *Store) GroupedCount(ctx context.Context, field string, f query.FilterContext) ([]model.RawCount, error) {
	col, ok := groupColumns[field]
	if !ok {
		return nil, fmt.Errorf("grouped count not supported for field %q", field)
	}

	where, args := s.whereClause(f)
	q := fmt.Sprintf(`
		SELECT %[1]s AS value, COUNT(*) AS count, MAX(j.posted_date) AS newest
		FROM jobs j%[2]s AND %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s`, col, where)

	rows := []model.RawCount{}
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to group jobs by %s: %w", field, err)
	}
	return rows, nil
}

// Aggregate computes a scalar metric over the matching jobs. An empty match
// set yields zero, not an error.
func (s *Store) Aggregate(ctx context.Context, f query.FilterContext, metric Metric) (float64, error) {
	var expr string
	switch metric {
	case MetricMaxHourlyRate:
		expr = "COALESCE(MAX(j.salary_max_hourly), 0)"
	default:
		return 0, fmt.Errorf("unknown aggregate metric %q", metric)
	}

	where, args := s.whereClause(f)
	var value float64
	if err := s.db.GetContext(ctx, &value, "SELECT "+expr+" FROM jobs j"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to aggregate %s: %w", metric, err)
	}
	return value, nil
}

// EmployerCounts returns the employers with matching jobs, ordered by count
// desc then name asc. limit 0 means unbounded.
func (s *Store) EmployerCounts(ctx context.Context, f query.FilterContext, limit int) ([]model.EmployerCount, error) {
	where, args := s.whereClause(f)
	q := `
		SELECT e.id, e.name, e.slug, COUNT(*) AS count, MAX(j.posted_date) AS newest
		FROM jobs j
		JOIN employers e ON e.id = j.employer_id` +
		where + `
		GROUP BY e.id, e.name, e.slug
		ORDER BY count DESC, e.name ASC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows := []model.EmployerCount{}
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to count jobs by employer: %w", err)
	}
	return rows, nil
}

// EmployerBySlug returns the employer with the given slug, or
// model.ErrEmployerNotFound.
func (s *Store) EmployerBySlug(ctx context.Context, slug string) (*model.Employer, error) {
	var emp model.Employer
	err := s.db.GetContext(ctx, &emp, "SELECT id, name, slug FROM employers WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}
	return &emp, nil
}

// LocationExists reports whether any job row, active or not, has ever been
// recorded for the (state, city) pair. This is the existence probe that
// separates a real-but-quiet city from a slug that parses to nothing.
func (s *Store) LocationExists(ctx context.Context, stateCode, city string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM jobs WHERE state = $1 AND LOWER(city) = LOWER($2))",
		stateCode, city)
	if err != nil {
		return false, fmt.Errorf("failed to probe location: %w", err)
	}
	return exists, nil
}

// DistinctLocations returns every (state, city) pair with active jobs, for
// page enumeration.
func (s *Store) DistinctLocations(ctx context.Context) ([]model.Location, error) {
	rows := []model.Location{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT state, city, COUNT(*) AS count, MAX(posted_date) AS newest
		FROM jobs
		WHERE is_active = TRUE AND city <> ''
		GROUP BY state, city
		ORDER BY state ASC, city ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return rows, nil
}

// StateSpecialtyCounts returns active-job counts grouped by (state, raw
// specialty), for enumerating state × specialty pages in one query.
func (s *Store) StateSpecialtyCounts(ctx context.Context) ([]model.StatePairCount, error) {
	rows := []model.StatePairCount{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT state, specialty AS value, COUNT(*) AS count, MAX(posted_date) AS newest
		FROM jobs
		WHERE is_active = TRUE AND specialty IS NOT NULL AND specialty <> ''
		GROUP BY state, specialty
		ORDER BY state ASC, specialty ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count state specialties: %w", err)
	}
	return rows, nil
}
