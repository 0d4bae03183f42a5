package repositories

import (
	"context"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
)

// Sort orders accepted by ProviderFilter.
const (
	SortByCost   = "cost"
	SortByRating = "rating"
)

// ProviderFilter narrows the structured provider search. Empty fields are
// ignored. ZipPrefix, when set, matches hospitals whose ZIP code starts with
// the prefix.
type ProviderFilter struct {
	DRGCode   string
	ZipPrefix string
	SortBy    string
}

// TextSearchFilter narrows the free-text search. SearchText is matched as a
// case-insensitive substring of the procedure definition or hospital name.
type TextSearchFilter struct {
	SearchText string
	ZipPrefix  string
}

// ProviderSearchRepository defines the read operations over the pricing tables.
type ProviderSearchRepository interface {
	// SearchProviders returns flattened (hospital, procedure) rows matching
	// the filter, with the mean provider rating attached.
	SearchProviders(ctx context.Context, filter ProviderFilter) ([]*entities.ProviderResult, error)

	// SearchByText returns rows whose procedure definition or hospital name
	// contains the search text, sorted by ascending covered charges.
	SearchByText(ctx context.Context, filter TextSearchFilter) ([]*entities.ProviderResult, error)

	// ExecuteReadQuery runs a read-only statement with :name placeholders
	// bound from params, returning generic rows. Used by the assistant
	// pipeline for model-generated statements.
	ExecuteReadQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error)
}

// IngestionRepository defines the write operations used by the ETL run.
type IngestionRepository interface {
	// EnsureSchema creates the three pricing tables and their indexes.
	EnsureSchema(ctx context.Context) error

	// InsertHospitals inserts hospital records, ignoring provider IDs that
	// already exist.
	InsertHospitals(ctx context.Context, hospitals []*entities.Hospital) error

	// InsertProcedures inserts procedure pricing records.
	InsertProcedures(ctx context.Context, procedures []*entities.Procedure) error

	// InsertRatings inserts rating records.
	InsertRatings(ctx context.Context, ratings []*entities.Rating) error
}
