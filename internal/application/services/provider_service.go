package services

import (
	"context"
	"strconv"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

// ProviderSearchParams holds the validated inputs of a structured search.
type ProviderSearchParams struct {
	DRG      *int
	ZipCode  string
	RadiusKM *int
	SortBy   string
}

// TextSearchParams holds the inputs of a free-text search.
type TextSearchParams struct {
	SearchText string
	ZipCode    string
	RadiusKM   *int
}

// ProviderService owns the geographic filtering policy: a radius request is
// approximated by matching the first three digits of the ZIP code, which
// groups hospitals into the same sectional center.
type ProviderService struct {
	repo repositories.ProviderSearchRepository
}

// NewProviderService creates a new provider service
func NewProviderService(repo repositories.ProviderSearchRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

// SearchProviders searches hospitals by DRG code, location and sort order.
func (s *ProviderService) SearchProviders(ctx context.Context, params ProviderSearchParams) ([]*entities.ProviderResult, error) {
	sortBy := params.SortBy
	switch sortBy {
	case "":
		sortBy = repositories.SortByCost
	case repositories.SortByCost, repositories.SortByRating:
	default:
		return nil, apperrors.NewValidationError("sort_by must be 'cost' or 'rating'")
	}

	if params.RadiusKM != nil {
		if params.ZipCode == "" {
			return nil, apperrors.NewValidationError("radius_km requires a zip code")
		}
		if *params.RadiusKM <= 0 {
			return nil, apperrors.NewValidationError("radius_km must be positive")
		}
	}

	filter := repositories.ProviderFilter{
		ZipPrefix: zipPrefix(params.ZipCode, params.RadiusKM),
		SortBy:    sortBy,
	}
	if params.DRG != nil {
		filter.DRGCode = strconv.Itoa(*params.DRG)
	}

	return s.repo.SearchProviders(ctx, filter)
}

// SearchByText searches hospitals by a fragment of the procedure definition
// or the hospital name.
func (s *ProviderService) SearchByText(ctx context.Context, params TextSearchParams) ([]*entities.ProviderResult, error) {
	if params.SearchText == "" {
		return nil, apperrors.NewValidationError("search_text is required")
	}

	if params.RadiusKM != nil {
		if params.ZipCode == "" {
			return nil, apperrors.NewValidationError("radius_km requires a zip code")
		}
		if *params.RadiusKM <= 0 {
			return nil, apperrors.NewValidationError("radius_km must be positive")
		}
	}

	return s.repo.SearchByText(ctx, repositories.TextSearchFilter{
		SearchText: params.SearchText,
		ZipPrefix:  zipPrefix(params.ZipCode, params.RadiusKM),
	})
}

// zipPrefix reduces a (zip, radius) pair to the 3-digit prefix used for
// filtering. Both must be present, a zip without a radius matches nothing
// geographically.
func zipPrefix(zipCode string, radiusKM *int) string {
	if zipCode == "" || radiusKM == nil {
		return ""
	}
	if len(zipCode) > 3 {
		return zipCode[:3]
	}
	return zipCode
}
