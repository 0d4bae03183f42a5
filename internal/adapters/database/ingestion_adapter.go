package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/clients/postgres"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS hospitals (
	provider_id VARCHAR(20) PRIMARY KEY,
	provider_name VARCHAR(255) NOT NULL,
	provider_city VARCHAR(100) NOT NULL,
	provider_state VARCHAR(2) NOT NULL,
	provider_zip_code VARCHAR(10) NOT NULL
);

CREATE TABLE IF NOT EXISTS procedures (
	id SERIAL PRIMARY KEY,
	provider_id VARCHAR(20) NOT NULL REFERENCES hospitals(provider_id),
	ms_drg_code VARCHAR(10) NOT NULL,
	ms_drg_definition TEXT NOT NULL,
	total_discharges INTEGER NOT NULL,
	average_covered_charges DOUBLE PRECISION NOT NULL,
	average_total_payments DOUBLE PRECISION NOT NULL,
	average_medicare_payments DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS ratings (
	id SERIAL PRIMARY KEY,
	provider_id VARCHAR(20) NOT NULL REFERENCES hospitals(provider_id),
	rating DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_hospitals_zip ON hospitals(provider_zip_code);
CREATE INDEX IF NOT EXISTS idx_procedures_provider ON procedures(provider_id);
CREATE INDEX IF NOT EXISTS idx_procedures_drg ON procedures(ms_drg_code);
CREATE INDEX IF NOT EXISTS idx_ratings_provider ON ratings(provider_id);
`

// IngestionAdapter implements IngestionRepository
type IngestionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIngestionAdapter creates a new ingestion adapter
func NewIngestionAdapter(client *postgres.Client) repositories.IngestionRepository {
	return &IngestionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (a *IngestionAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, schemaDDL); err != nil {
		return apperrors.NewInternalError("failed to create schema", err)
	}
	return nil
}

// InsertHospitals inserts hospitals, skipping provider IDs already present.
func (a *IngestionAdapter) InsertHospitals(ctx context.Context, hospitals []*entities.Hospital) error {
	if len(hospitals) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(hospitals))
	for _, h := range hospitals {
		records = append(records, goqu.Record{
			"provider_id":       h.ProviderID,
			"provider_name":     h.ProviderName,
			"provider_city":     h.ProviderCity,
			"provider_state":    h.ProviderState,
			"provider_zip_code": h.ProviderZipCode,
		})
	}

	query, args, err := a.db.Insert("hospitals").
		Rows(records...).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build hospital insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert hospitals", err)
	}
	return nil
}

// InsertProcedures inserts procedure rows.
func (a *IngestionAdapter) InsertProcedures(ctx context.Context, procedures []*entities.Procedure) error {
	if len(procedures) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(procedures))
	for _, p := range procedures {
		records = append(records, goqu.Record{
			"provider_id":               p.ProviderID,
			"ms_drg_code":               p.MSDRGCode,
			"ms_drg_definition":         p.MSDRGDefinition,
			"total_discharges":          p.TotalDischarges,
			"average_covered_charges":   p.AverageCoveredCharges,
			"average_total_payments":    p.AverageTotalPayments,
			"average_medicare_payments": p.AverageMedicarePayments,
		})
	}

	query, args, err := a.db.Insert("procedures").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build procedure insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert procedures", err)
	}
	return nil
}

// InsertRatings inserts rating rows.
func (a *IngestionAdapter) InsertRatings(ctx context.Context, ratings []*entities.Rating) error {
	if len(ratings) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(ratings))
	for _, r := range ratings {
		records = append(records, goqu.Record{
			"provider_id": r.ProviderID,
			"rating":      r.Rating,
		})
	}

	query, args, err := a.db.Insert("ratings").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert ratings", err)
	}
	return nil
}
