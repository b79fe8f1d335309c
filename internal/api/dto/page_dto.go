package dto

import (
	"time"

	"github.com/nursenav/listings-be/internal/listing"
	"github.com/nursenav/listings-be/internal/listing/facet"
	"github.com/nursenav/listings-be/internal/listing/model"
)

// JobDTO is the JSON shape of one job row on a listing page.
type JobDTO struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	State           string   `json:"state"`
	City            string   `json:"city"`
	Specialty       string   `json:"specialty,omitempty"`
	JobType         string   `json:"jobType,omitempty"`
	ShiftType       string   `json:"shiftType,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Employer        Employer `json:"employer"`
	HasSignOnBonus  bool     `json:"hasSignOnBonus"`
	SalaryMinHourly *float64 `json:"salaryMinHourly,omitempty"`
	SalaryMaxHourly *float64 `json:"salaryMaxHourly,omitempty"`
	SalaryMinAnnual *float64 `json:"salaryMinAnnual,omitempty"`
	SalaryMaxAnnual *float64 `json:"salaryMaxAnnual,omitempty"`
	PostedDate      string   `json:"postedDate"`
}

// Employer is the employer block embedded in a JobDTO.
type Employer struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FacetBucketDTO is one navigation count entry.
type FacetBucketDTO struct {
	Value string `json:"value"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// PaginationDTO is the pagination metadata block.
type PaginationDTO struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// StatsDTO groups the facet lists by dimension.
type StatsDTO struct {
	Specialties      []FacetBucketDTO `json:"specialties"`
	JobTypes         []FacetBucketDTO `json:"jobTypes"`
	Shifts           []FacetBucketDTO `json:"shifts"`
	ExperienceLevels []FacetBucketDTO `json:"experienceLevels"`
	Employers        []FacetBucketDTO `json:"employers"`
	Cities           []FacetBucketDTO `json:"cities"`
	States           []FacetBucketDTO `json:"states"`
}

// PageResponse is the full listing-page payload consumed by the rendering
// layer.
type PageResponse struct {
	Jobs          []JobDTO      `json:"jobs"`
	Pagination    PaginationDTO `json:"pagination"`
	Stats         StatsDTO      `json:"stats"`
	MaxHourlyRate float64       `json:"maxHourlyRate"`
}

// FromPageResult maps a listing.PageResult into its JSON shape.
func FromPageResult(result *listing.PageResult) PageResponse {
	jobs := make([]JobDTO, len(result.Jobs))
	for i, job := range result.Jobs {
		jobs[i] = fromJob(job)
	}
	return PageResponse{
		Jobs: jobs,
		Pagination: PaginationDTO{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
			HasNext:    result.Pagination.HasNext,
			HasPrev:    result.Pagination.HasPrev,
		},
		Stats: StatsDTO{
			Specialties:      fromBuckets(result.Stats.Specialties),
			JobTypes:         fromBuckets(result.Stats.JobTypes),
			Shifts:           fromBuckets(result.Stats.Shifts),
			ExperienceLevels: fromBuckets(result.Stats.ExperienceLevels),
			Employers:        fromBuckets(result.Stats.Employers),
			Cities:           fromBuckets(result.Stats.Cities),
			States:           fromBuckets(result.Stats.States),
		},
		MaxHourlyRate: result.MaxHourlyRate,
	}
}

func fromJob(job model.Job) JobDTO {
	dto := JobDTO{
		ID:             job.ID,
		Slug:           job.Slug,
		Title:          job.Title,
		State:          job.State,
		City:           job.City,
		HasSignOnBonus: job.HasSignOnBonus,
		Employer: Employer{
			Name: job.EmployerName,
			Slug: job.EmployerSlug,
		},
		PostedDate: job.PostedDate.Format(time.RFC3339),
	}
	if job.Specialty.Valid {
		dto.Specialty = job.Specialty.String
	}
	if job.JobType.Valid {
		dto.JobType = job.JobType.String
	}
	if job.ShiftType.Valid {
		dto.ShiftType = job.ShiftType.String
	}
	if job.ExperienceLevel.Valid {
		dto.ExperienceLevel = job.ExperienceLevel.String
	}
	if job.SalaryMinHourly.Valid {
		v := job.SalaryMinHourly.Float64
		dto.SalaryMinHourly = &v
	}
	if job.SalaryMaxHourly.Valid {
		v := job.SalaryMaxHourly.Float64
		dto.SalaryMaxHourly = &v
	}
	if job.SalaryMinAnnual.Valid {
		v := job.SalaryMinAnnual.Float64
		dto.SalaryMinAnnual = &v
	}
	if job.SalaryMaxAnnual.Valid {
		v := job.SalaryMaxAnnual.Float64
		dto.SalaryMaxAnnual = &v
	}
	return dto
}

func fromBuckets(buckets []facet.Bucket) []FacetBucketDTO {
	out := make([]FacetBucketDTO, len(buckets))
	for i, b := range buckets {
		out[i] = FacetBucketDTO{Value: b.Display, Slug: b.Slug, Count: b.Count}
	}
	return out
}
