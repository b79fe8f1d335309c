package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/listing/query"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

type fakeEnumStore struct {
	grouped    map[string][]model.RawCount
	employers  []model.EmployerCount
	locations  []model.Location
	statePairs []model.StatePairCount
	bonusCount int
}

func (s *fakeEnumStore) Count(_ context.Context, f query.FilterContext) (int, error) {
	if f.SignOnBonus {
		return s.bonusCount, nil
	}
	return 0, nil
}

func (s *fakeEnumStore) GroupedCount(_ context.Context, field string, _ query.FilterContext) ([]model.RawCount, error) {
	return s.grouped[field], nil
}

func (s *fakeEnumStore) EmployerCounts(_ context.Context, _ query.FilterContext, _ int) ([]model.EmployerCount, error) {
	return s.employers, nil
}

func (s *fakeEnumStore) DistinctLocations(_ context.Context) ([]model.Location, error) {
	return s.locations, nil
}

func (s *fakeEnumStore) StateSpecialtyCounts(_ context.Context) ([]model.StatePairCount, error) {
	return s.statePairs, nil
}

func pagesByURL(pages []Page) map[string]Page {
	m := make(map[string]Page, len(pages))
	for _, p := range pages {
		m[p.URL] = p
	}
	return m
}

func TestEnumerator_Pages(t *testing.T) {
	reg, err := taxonomy.Default()
	require.NoError(t, err)

	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	store := &fakeEnumStore{
		grouped: map[string][]model.RawCount{
			"state": {
				{Value: "NC", Count: 10, Newest: t2},
				{Value: "TX", Count: 5, Newest: t1},
			},
			taxonomy.DimSpecialty: {
				{Value: "ICU", Count: 8, Newest: t2},
				{Value: "Wound Care", Count: 2, Newest: t1}, // outside vocabulary, no page
			},
			taxonomy.DimJobType: {
				{Value: "travel nurse", Count: 4, Newest: t1},
				{Value: "traveler", Count: 3, Newest: t2},
			},
		},
		locations: []model.Location{
			{State: "NC", City: "Charlotte", Count: 6, Newest: t2},
			{State: "XX", City: "Nowhere", Count: 1, Newest: t1}, // bad state skipped
		},
		statePairs: []model.StatePairCount{
			{State: "NC", Value: "ICU", Count: 5, Newest: t1},
			{State: "NC", Value: "intensive care", Count: 2, Newest: t2}, // merges into icu
		},
		employers: []model.EmployerCount{
			{ID: 1, Name: "Mercy Health", Slug: "mercy-health", Count: 9, Newest: t2},
		},
		bonusCount: 3,
	}

	enum := NewEnumerator(store, reg, "https://www.nursenav.com/")
	pages, err := enum.Pages(context.Background())
	require.NoError(t, err)

	byURL := pagesByURL(pages)
	require.Len(t, byURL, len(pages), "duplicate URLs emitted")

	home := byURL["https://www.nursenav.com/nursing-jobs"]
	assert.Equal(t, PageHome, home.Kind)
	assert.Equal(t, 15, home.JobCount)
	assert.Equal(t, t2, home.Newest)

	nc := byURL["https://www.nursenav.com/nursing-jobs/north-carolina"]
	assert.Equal(t, PageState, nc.Kind)
	assert.Equal(t, 10, nc.JobCount)

	city := byURL["https://www.nursenav.com/nursing-jobs/north-carolina/charlotte"]
	assert.Equal(t, PageCity, city.Kind)
	assert.Equal(t, 6, city.JobCount)
	assert.NotContains(t, byURL, "https://www.nursenav.com/nursing-jobs/xx/nowhere")

	icu := byURL["https://www.nursenav.com/nursing-jobs/icu"]
	assert.Equal(t, PageSpecialty, icu.Kind)
	assert.Equal(t, 8, icu.JobCount)
	assert.NotContains(t, byURL, "https://www.nursenav.com/nursing-jobs/wound-care")

	// Variant rows collapse into one canonical page with summed count.
	travel := byURL["https://www.nursenav.com/nursing-jobs/travel"]
	assert.Equal(t, PageJobType, travel.Kind)
	assert.Equal(t, 7, travel.JobCount)
	assert.Equal(t, t2, travel.Newest)

	// State x specialty pairs merge variants the same way.
	pair := byURL["https://www.nursenav.com/nursing-jobs/north-carolina/icu"]
	assert.Equal(t, PageStateSpecialty, pair.Kind)
	assert.Equal(t, 7, pair.JobCount)
	assert.Equal(t, t2, pair.Newest)

	emp := byURL["https://www.nursenav.com/nursing-jobs/employer/mercy-health"]
	assert.Equal(t, PageEmployer, emp.Kind)
	assert.Equal(t, 9, emp.JobCount)

	bonus := byURL["https://www.nursenav.com/nursing-jobs/sign-on-bonus"]
	assert.Equal(t, PageSignOnBonus, bonus.Kind)
	assert.Equal(t, 3, bonus.JobCount)
}

func TestEnumerator_Pages_NoBonusPageWithoutSupply(t *testing.T) {
	reg, err := taxonomy.Default()
	require.NoError(t, err)

	enum := NewEnumerator(&fakeEnumStore{}, reg, "https://www.nursenav.com")
	pages, err := enum.Pages(context.Background())
	require.NoError(t, err)

	byURL := pagesByURL(pages)
	assert.NotContains(t, byURL, "https://www.nursenav.com/nursing-jobs/sign-on-bonus")

	// The home page is always emitted, even for an empty store.
	assert.Contains(t, byURL, "https://www.nursenav.com/nursing-jobs")
}
