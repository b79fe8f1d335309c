package model

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrEmployerNotFound is returned when no employer matches a slug.
	ErrEmployerNotFound = errors.New("employer not found")
)

// Job is a job posting row, read-only for this service. Taxonomy columns
// hold raw store values; ingestion owns the write path.
type Job struct {
	ID              int64           `db:"id"`
	Slug            string          `db:"slug"`
	Title           string          `db:"title"`
	State           string          `db:"state"`
	City            string          `db:"city"`
	Specialty       sql.NullString  `db:"specialty"`
	JobType         sql.NullString  `db:"job_type"`
	ShiftType       sql.NullString  `db:"shift_type"`
	ExperienceLevel sql.NullString  `db:"experience_level"`
	EmployerID      int64           `db:"employer_id"`
	EmployerName    string          `db:"employer_name"`
	EmployerSlug    string          `db:"employer_slug"`
	IsActive        bool            `db:"is_active"`
	HasSignOnBonus  bool            `db:"has_sign_on_bonus"`
	SalaryMinHourly sql.NullFloat64 `db:"salary_min_hourly"`
	SalaryMaxHourly sql.NullFloat64 `db:"salary_max_hourly"`
	SalaryMinAnnual sql.NullFloat64 `db:"salary_min_annual"`
	SalaryMaxAnnual sql.NullFloat64 `db:"salary_max_annual"`
	PostedDate      time.Time       `db:"posted_date"`
	ScrapedAt       time.Time       `db:"scraped_at"`
}

// Employer is an employer row referenced by Job.EmployerID.
type Employer struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// RawCount is one grouped-count row: a raw store value with its active-job
// count and the newest posted date in the group.
type RawCount struct {
	Value  string    `db:"value"`
	Count  int       `db:"count"`
	Newest time.Time `db:"newest"`
}

// EmployerCount is a grouped count joined to the employers table.
type EmployerCount struct {
	ID     int64     `db:"id"`
	Name   string    `db:"name"`
	Slug   string    `db:"slug"`
	Count  int       `db:"count"`
	Newest time.Time `db:"newest"`
}

// Location is a distinct (state, city) pair with its active-job count.
type Location struct {
	State  string    `db:"state"`
	City   string    `db:"city"`
	Count  int       `db:"count"`
	Newest time.Time `db:"newest"`
}

// StatePairCount is a grouped count over (state, raw value) pairs, used by
// the indexer to enumerate state-scoped taxonomy pages.
type StatePairCount struct {
	State  string    `db:"state"`
	Value  string    `db:"value"`
	Count  int       `db:"count"`
	Newest time.Time `db:"newest"`
}
