package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
)

type fakeSearchRepo struct {
	lastFilter     repositories.ProviderFilter
	lastTextFilter repositories.TextSearchFilter
	results        []*entities.ProviderResult
	err            error

	lastQuery   string
	lastParams  map[string]interface{}
	execResults []map[string]interface{}
	execErr     error
}

func (f *fakeSearchRepo) SearchProviders(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.ProviderResult, error) {
	f.lastFilter = filter
	return f.results, f.err
}

func (f *fakeSearchRepo) SearchByText(ctx context.Context, filter repositories.TextSearchFilter) ([]*entities.ProviderResult, error) {
	f.lastTextFilter = filter
	return f.results, f.err
}

func (f *fakeSearchRepo) ExecuteReadQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	f.lastQuery = query
	f.lastParams = params
	return f.execResults, f.execErr
}

func intPtr(v int) *int { return &v }

func TestSearchProvidersFilterMapping(t *testing.T) {
	repo := &fakeSearchRepo{}
	service := NewProviderService(repo)

	_, err := service.SearchProviders(context.Background(), ProviderSearchParams{
		DRG:      intPtr(470),
		ZipCode:  "10001",
		RadiusKM: intPtr(40),
		SortBy:   "rating",
	})
	require.NoError(t, err)

	assert.Equal(t, "470", repo.lastFilter.DRGCode)
	assert.Equal(t, "100", repo.lastFilter.ZipPrefix)
	assert.Equal(t, repositories.SortByRating, repo.lastFilter.SortBy)
}

func TestSearchProvidersDefaults(t *testing.T) {
	repo := &fakeSearchRepo{}
	service := NewProviderService(repo)

	_, err := service.SearchProviders(context.Background(), ProviderSearchParams{})
	require.NoError(t, err)

	assert.Empty(t, repo.lastFilter.DRGCode)
	assert.Empty(t, repo.lastFilter.ZipPrefix)
	assert.Equal(t, repositories.SortByCost, repo.lastFilter.SortBy)
}

func TestSearchProvidersZipWithoutRadius(t *testing.T) {
	repo := &fakeSearchRepo{}
	service := NewProviderService(repo)

	// a zip alone does not constrain the search geographically
	_, err := service.SearchProviders(context.Background(), ProviderSearchParams{
		ZipCode: "10001",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.ZipPrefix)
}

func TestSearchProvidersValidation(t *testing.T) {
	tests := []struct {
		name   string
		params ProviderSearchParams
	}{
		{
			name:   "unknown sort order",
			params: ProviderSearchParams{SortBy: "price"},
		},
		{
			name:   "radius without zip",
			params: ProviderSearchParams{RadiusKM: intPtr(40)},
		},
		{
			name:   "non-positive radius",
			params: ProviderSearchParams{ZipCode: "10001", RadiusKM: intPtr(0)},
		},
	}

	service := NewProviderService(&fakeSearchRepo{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SearchProviders(context.Background(), tt.params)
			assert.Error(t, err)
		})
	}
}

func TestSearchByText(t *testing.T) {
	repo := &fakeSearchRepo{}
	service := NewProviderService(repo)

	_, err := service.SearchByText(context.Background(), TextSearchParams{
		SearchText: "heart",
		ZipCode:    "11211",
		RadiusKM:   intPtr(25),
	})
	require.NoError(t, err)

	assert.Equal(t, "heart", repo.lastTextFilter.SearchText)
	assert.Equal(t, "112", repo.lastTextFilter.ZipPrefix)
}

func TestSearchByTextRequiresText(t *testing.T) {
	service := NewProviderService(&fakeSearchRepo{})

	_, err := service.SearchByText(context.Background(), TextSearchParams{})
	assert.Error(t, err)
}

func TestHaversineKm(t *testing.T) {
	// Manhattan to Brooklyn, roughly 5 km
	d := haversineKm(40.7505, -73.9934, 40.6943, -73.9866)
	assert.InDelta(t, 6.3, d, 0.5)

	assert.Zero(t, haversineKm(40.75, -73.99, 40.75, -73.99))
}

func TestLookupZipCoordinates(t *testing.T) {
	lat, lon, ok := lookupZipCoordinates("10001")
	require.True(t, ok)
	assert.InDelta(t, 40.7505, lat, 0.0001)
	assert.InDelta(t, -73.9934, lon, 0.0001)

	_, _, ok = lookupZipCoordinates("99999")
	assert.False(t, ok)
}
