package database

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/clients/postgres"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/observability"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

// ProviderSearchAdapter implements ProviderSearchRepository
type ProviderSearchAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewProviderSearchAdapter creates a new provider search adapter. metrics may
// be nil.
func NewProviderSearchAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.ProviderSearchRepository {
	return &ProviderSearchAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

var resultColumns = []interface{}{
	goqu.I("h.provider_id"),
	goqu.I("h.provider_name"),
	goqu.I("h.provider_city"),
	goqu.I("h.provider_state"),
	goqu.I("h.provider_zip_code"),
	goqu.I("p.ms_drg_code"),
	goqu.I("p.ms_drg_definition"),
	goqu.I("p.total_discharges"),
	goqu.I("p.average_covered_charges"),
	goqu.I("p.average_total_payments"),
	goqu.I("p.average_medicare_payments"),
	goqu.AVG(goqu.I("r.rating")).As("average_rating"),
}

// baseResultDataset joins hospitals to procedures (inner, rows without a
// procedure are excluded) and ratings (outer), grouping so AVG(rating) is
// computed per (hospital, procedure) row.
func (a *ProviderSearchAdapter) baseResultDataset() *goqu.SelectDataset {
	return a.db.Select(resultColumns...).
		From(goqu.T("hospitals").As("h")).
		Join(
			goqu.T("procedures").As("p"),
			goqu.On(goqu.I("h.provider_id").Eq(goqu.I("p.provider_id"))),
		).
		LeftJoin(
			goqu.T("ratings").As("r"),
			goqu.On(goqu.I("h.provider_id").Eq(goqu.I("r.provider_id"))),
		).
		GroupBy(
			goqu.I("h.provider_id"),
			goqu.I("h.provider_name"),
			goqu.I("h.provider_city"),
			goqu.I("h.provider_state"),
			goqu.I("h.provider_zip_code"),
			goqu.I("p.id"),
			goqu.I("p.ms_drg_code"),
			goqu.I("p.ms_drg_definition"),
			goqu.I("p.total_discharges"),
			goqu.I("p.average_covered_charges"),
			goqu.I("p.average_total_payments"),
			goqu.I("p.average_medicare_payments"),
		)
}

// SearchProviders returns flattened (hospital, procedure) rows matching the filter.
func (a *ProviderSearchAdapter) SearchProviders(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.ProviderResult, error) {
	ds := a.baseResultDataset()

	if filter.DRGCode != "" {
		ds = ds.Where(goqu.I("p.ms_drg_code").Eq(filter.DRGCode))
	}
	if filter.ZipPrefix != "" {
		ds = ds.Where(goqu.I("h.provider_zip_code").Like(filter.ZipPrefix + "%"))
	}

	switch filter.SortBy {
	case repositories.SortByRating:
		ds = ds.Order(goqu.AVG(goqu.I("r.rating")).Desc())
	default:
		// cost ascending, also the fallback for any unvalidated value
		ds = ds.Order(goqu.I("p.average_covered_charges").Asc())
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryResults(ctx, "search_providers", query, args...)
}

// SearchByText returns rows whose procedure definition or hospital name
// contains the search text, sorted by ascending covered charges.
func (a *ProviderSearchAdapter) SearchByText(ctx context.Context, filter repositories.TextSearchFilter) ([]*entities.ProviderResult, error) {
	pattern := "%" + filter.SearchText + "%"

	ds := a.baseResultDataset().
		Where(goqu.Or(
			goqu.I("p.ms_drg_definition").ILike(pattern),
			goqu.I("h.provider_name").ILike(pattern),
		))

	if filter.ZipPrefix != "" {
		ds = ds.Where(goqu.I("h.provider_zip_code").Like(filter.ZipPrefix + "%"))
	}

	ds = ds.Order(goqu.I("p.average_covered_charges").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build text search query", err)
	}

	return a.queryResults(ctx, "search_by_text", query, args...)
}

// queryResults executes a result query inside a transaction; any failure
// rolls back before the error propagates.
func (a *ProviderSearchAdapter) queryResults(ctx context.Context, operation, query string, args ...interface{}) ([]*entities.ProviderResult, error) {
	start := time.Now()

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to begin transaction", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		return nil, apperrors.NewInternalError("failed to execute search query", err)
	}

	var results []*entities.ProviderResult
	for rows.Next() {
		result := &entities.ProviderResult{}
		var avgRating sql.NullFloat64

		err := rows.Scan(
			&result.ProviderID,
			&result.ProviderName,
			&result.ProviderCity,
			&result.ProviderState,
			&result.ProviderZipCode,
			&result.MSDRGCode,
			&result.MSDRGDefinition,
			&result.TotalDischarges,
			&result.AverageCoveredCharges,
			&result.AverageTotalPayments,
			&result.AverageMedicarePayments,
			&avgRating,
		)
		if err != nil {
			rows.Close()
			tx.Rollback()
			return nil, apperrors.NewInternalError("failed to scan search result", err)
		}

		if avgRating.Valid {
			rounded := math.Round(avgRating.Float64*10) / 10
			result.AverageRating = &rounded
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return nil, apperrors.NewInternalError("error iterating search results", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("failed to commit read transaction", err)
	}

	if a.metrics != nil {
		observability.RecordDBMetric(ctx, a.metrics, operation, time.Since(start))
	}

	return results, nil
}

// ExecuteReadQuery runs a statement containing :name placeholders with the
// values bound as real positional parameters, never textual substitution.
// Rows come back as generic maps because model-generated statements select
// arbitrary columns.
func (a *ProviderSearchAdapter) ExecuteReadQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	bound, args, err := bindNamedParams(query, params)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	start := time.Now()

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to begin transaction", err)
	}

	rows, err := tx.QueryContext(ctx, bound, args...)
	if err != nil {
		tx.Rollback()
		return nil, apperrors.NewInternalError("failed to execute query", err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		tx.Rollback()
		return nil, apperrors.NewInternalError("failed to read result columns", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, apperrors.NewInternalError("failed to scan row", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			value := values[i]
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row[col] = value
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return nil, apperrors.NewInternalError("error iterating rows", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("failed to commit read transaction", err)
	}

	if a.metrics != nil {
		observability.RecordDBMetric(ctx, a.metrics, "execute_read_query", time.Since(start))
	}

	return results, nil
}
