package dto

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursenav/listings-be/internal/listing"
	"github.com/nursenav/listings-be/internal/listing/facet"
	"github.com/nursenav/listings-be/internal/listing/model"
)

func TestFromPageResult(t *testing.T) {
	posted := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	result := &listing.PageResult{
		Jobs: []model.Job{
			{
				ID:              42,
				Slug:            "icu-rn-charlotte",
				Title:           "ICU RN",
				State:           "NC",
				City:            "Charlotte",
				Specialty:       sql.NullString{String: "ICU", Valid: true},
				JobType:         sql.NullString{String: "travel nurse", Valid: true},
				EmployerName:    "Mercy Health",
				EmployerSlug:    "mercy-health",
				HasSignOnBonus:  true,
				SalaryMaxHourly: sql.NullFloat64{Float64: 85.5, Valid: true},
				PostedDate:      posted,
			},
			{
				ID:         43,
				Title:      "Staff Nurse",
				State:      "NC",
				City:       "Raleigh",
				PostedDate: posted,
			},
		},
		Pagination: listing.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1},
		Stats: listing.Stats{
			Specialties: []facet.Bucket{{Display: "Oncology", Slug: "oncology", Count: 3}},
		},
		MaxHourlyRate: 85.5,
	}

	resp := FromPageResult(result)

	require.Len(t, resp.Jobs, 2)

	first := resp.Jobs[0]
	assert.Equal(t, int64(42), first.ID)
	assert.Equal(t, "ICU", first.Specialty)
	assert.Equal(t, "travel nurse", first.JobType)
	assert.Equal(t, Employer{Name: "Mercy Health", Slug: "mercy-health"}, first.Employer)
	assert.True(t, first.HasSignOnBonus)
	require.NotNil(t, first.SalaryMaxHourly)
	assert.Equal(t, 85.5, *first.SalaryMaxHourly)
	assert.Nil(t, first.SalaryMinHourly)
	assert.Equal(t, "2026-08-10T09:00:00Z", first.PostedDate)

	// NULL taxonomy columns map to empty strings, not "null" text.
	second := resp.Jobs[1]
	assert.Empty(t, second.Specialty)
	assert.Empty(t, second.JobType)
	assert.Nil(t, second.SalaryMaxHourly)

	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 2, resp.Pagination.Total)

	require.Len(t, resp.Stats.Specialties, 1)
	assert.Equal(t, FacetBucketDTO{Value: "Oncology", Slug: "oncology", Count: 3}, resp.Stats.Specialties[0])
	assert.Empty(t, resp.Stats.JobTypes)

	assert.Equal(t, 85.5, resp.MaxHourlyRate)
}

func TestFromPageResult_EmptyPage(t *testing.T) {
	resp := FromPageResult(&listing.PageResult{
		Pagination: listing.Pagination{Page: 1, Limit: 20},
	})

	// Empty slices, not nulls, so the JSON always carries arrays.
	assert.NotNil(t, resp.Jobs)
	assert.Empty(t, resp.Jobs)
	assert.Zero(t, resp.MaxHourlyRate)
}
