package services

import (
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

var (
	drgDefinitionPattern = regexp.MustCompile(`^(\d+)\s*[–-]\s*(.+)`)
	drgLeadingPattern    = regexp.MustCompile(`^(\d{3})`)
)

// priceRecord is one flattened CSV row before it is split into entities.
type priceRecord struct {
	ProviderID              string
	ProviderName            string
	ProviderCity            string
	ProviderState           string
	ProviderZipCode         string
	MSDRGCode               string
	MSDRGDefinition         string
	TotalDischarges         int
	AverageCoveredCharges   float64
	AverageTotalPayments    float64
	AverageMedicarePayments float64
}

// IngestionStats reports what a load produced.
type IngestionStats struct {
	Records    int
	Hospitals  int
	Procedures int
	Ratings    int
	UsedSample bool
}

// IngestionService loads the CMS pricing CSV into the database. Ratings have
// no public source, each provider gets one synthetic rating skewed toward the
// high end.
type IngestionService struct {
	repo repositories.IngestionRepository
	rng  *rand.Rand
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(repo repositories.IngestionRepository, rng *rand.Rand) *IngestionService {
	return &IngestionService{repo: repo, rng: rng}
}

// Run creates the schema and loads csvPath. A missing or empty file falls
// back to a built-in sample dataset so the service stays usable.
func (s *IngestionService) Run(ctx context.Context, csvPath string) (*IngestionStats, error) {
	logger := zerolog.Ctx(ctx)

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	records, err := loadCSV(csvPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", csvPath).Msg("could not read CSV")
	}

	stats := &IngestionStats{}
	if len(records) == 0 {
		logger.Info().Msg("no CSV data found, loading sample data")
		records = sampleRecords()
		stats.UsedSample = true
	}
	stats.Records = len(records)

	hospitals, procedures := splitRecords(records)
	stats.Hospitals = len(hospitals)
	stats.Procedures = len(procedures)

	if err := s.repo.InsertHospitals(ctx, hospitals); err != nil {
		return nil, err
	}
	if err := s.repo.InsertProcedures(ctx, procedures); err != nil {
		return nil, err
	}

	ratings := make([]*entities.Rating, 0, len(hospitals))
	for _, h := range hospitals {
		ratings = append(ratings, &entities.Rating{
			ProviderID: h.ProviderID,
			Rating:     s.randomRating(),
		})
	}
	if err := s.repo.InsertRatings(ctx, ratings); err != nil {
		return nil, err
	}
	stats.Ratings = len(ratings)

	return stats, nil
}

// ratingWeights skew synthetic ratings toward the high end of the 1-10 scale.
var ratingWeights = []int{1, 1, 2, 3, 4, 5, 6, 7, 8, 9}

func (s *IngestionService) randomRating() float64 {
	total := 0
	for _, w := range ratingWeights {
		total += w
	}

	pick := s.rng.Intn(total)
	for i, w := range ratingWeights {
		pick -= w
		if pick < 0 {
			return float64(i + 1)
		}
	}
	return float64(len(ratingWeights))
}

// loadCSV parses a CMS inpatient charge file. Rows without a resolvable DRG
// code or provider CCN are skipped.
func loadCSV(path string) ([]priceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open CSV file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read CSV header", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []priceRecord
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}

		definition := cleanString(field(row, "DRG_Desc"))
		code := cleanString(field(row, "DRG_Cd"))
		if code == "" {
			code = ExtractDRGCode(definition)
		}
		providerID := cleanString(field(row, "Rndrng_Prvdr_CCN"))
		if code == "" || providerID == "" {
			continue
		}

		records = append(records, priceRecord{
			ProviderID:              providerID,
			ProviderName:            cleanString(field(row, "Rndrng_Prvdr_Org_Name")),
			ProviderCity:            cleanString(field(row, "Rndrng_Prvdr_City")),
			ProviderState:           cleanString(field(row, "Rndrng_Prvdr_State_Abrvtn")),
			ProviderZipCode:         cleanString(field(row, "Rndrng_Prvdr_Zip5")),
			MSDRGCode:               code,
			MSDRGDefinition:         definition,
			TotalDischarges:         parseInt(field(row, "Tot_Dschrgs")),
			AverageCoveredCharges:   parseFloat(field(row, "Avg_Submtd_Cvrd_Chrg")),
			AverageTotalPayments:    parseFloat(field(row, "Avg_Tot_Pymt_Amt")),
			AverageMedicarePayments: parseFloat(field(row, "Avg_Mdcr_Pymt_Amt")),
		})
	}

	return records, nil
}

// splitRecords turns flattened rows into unique hospitals and their
// procedures. The first row wins when a provider appears more than once.
func splitRecords(records []priceRecord) ([]*entities.Hospital, []*entities.Procedure) {
	seen := make(map[string]bool)
	var hospitals []*entities.Hospital
	procedures := make([]*entities.Procedure, 0, len(records))

	for _, r := range records {
		if !seen[r.ProviderID] {
			seen[r.ProviderID] = true
			hospitals = append(hospitals, &entities.Hospital{
				ProviderID:      r.ProviderID,
				ProviderName:    r.ProviderName,
				ProviderCity:    r.ProviderCity,
				ProviderState:   r.ProviderState,
				ProviderZipCode: r.ProviderZipCode,
			})
		}

		procedures = append(procedures, &entities.Procedure{
			ProviderID:              r.ProviderID,
			MSDRGCode:               r.MSDRGCode,
			MSDRGDefinition:         r.MSDRGDefinition,
			TotalDischarges:         r.TotalDischarges,
			AverageCoveredCharges:   r.AverageCoveredCharges,
			AverageTotalPayments:    r.AverageTotalPayments,
			AverageMedicarePayments: r.AverageMedicarePayments,
		})
	}

	return hospitals, procedures
}

// ExtractDRGCode pulls the numeric DRG code out of a definition string like
// "470 – MAJOR JOINT REPLACEMENT W/O MCC".
func ExtractDRGCode(definition string) string {
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return ""
	}
	if m := drgDefinitionPattern.FindStringSubmatch(definition); m != nil {
		return m[1]
	}
	if m := drgLeadingPattern.FindStringSubmatch(definition); m != nil {
		return m[1]
	}
	return ""
}

func cleanString(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func parseFloat(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(value string) int {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// sampleRecords is the fallback dataset used when no CSV is present.
func sampleRecords() []priceRecord {
	return []priceRecord{
		{
			ProviderID: "330123", ProviderName: "MOUNT SINAI HOSPITAL",
			ProviderCity: "NEW YORK", ProviderState: "NY", ProviderZipCode: "10029",
			MSDRGCode: "470", MSDRGDefinition: "470 – MAJOR JOINT REPLACEMENT W/O MCC",
			TotalDischarges: 150, AverageCoveredCharges: 85000,
			AverageTotalPayments: 25000, AverageMedicarePayments: 20000,
		},
		{
			ProviderID: "330124", ProviderName: "NYU LANGONE HOSPITAL",
			ProviderCity: "NEW YORK", ProviderState: "NY", ProviderZipCode: "10016",
			MSDRGCode: "470", MSDRGDefinition: "470 – MAJOR JOINT REPLACEMENT W/O MCC",
			TotalDischarges: 120, AverageCoveredCharges: 92000,
			AverageTotalPayments: 28000, AverageMedicarePayments: 22000,
		},
		{
			ProviderID: "330125", ProviderName: "LENOX HILL HOSPITAL",
			ProviderCity: "NEW YORK", ProviderState: "NY", ProviderZipCode: "10021",
			MSDRGCode: "470", MSDRGDefinition: "470 – MAJOR JOINT REPLACEMENT W/O MCC",
			TotalDischarges: 80, AverageCoveredCharges: 78000,
			AverageTotalPayments: 22000, AverageMedicarePayments: 18000,
		},
		{
			ProviderID: "330126", ProviderName: "BROOKLYN HOSPITAL CENTER",
			ProviderCity: "BROOKLYN", ProviderState: "NY", ProviderZipCode: "11201",
			MSDRGCode: "470", MSDRGDefinition: "470 – MAJOR JOINT REPLACEMENT W/O MCC",
			TotalDischarges: 60, AverageCoveredCharges: 65000,
			AverageTotalPayments: 18000, AverageMedicarePayments: 15000,
		},
		{
			ProviderID: "330127", ProviderName: "MONTEFIORE MEDICAL CENTER",
			ProviderCity: "BRONX", ProviderState: "NY", ProviderZipCode: "10467",
			MSDRGCode: "470", MSDRGDefinition: "470 – MAJOR JOINT REPLACEMENT W/O MCC",
			TotalDischarges: 90, AverageCoveredCharges: 72000,
			AverageTotalPayments: 20000, AverageMedicarePayments: 17000,
		},
		{
			ProviderID: "330123", ProviderName: "MOUNT SINAI HOSPITAL",
			ProviderCity: "NEW YORK", ProviderState: "NY", ProviderZipCode: "10029",
			MSDRGCode: "291", MSDRGDefinition: "291 – HEART FAILURE AND SHOCK W/O MCC",
			TotalDischarges: 200, AverageCoveredCharges: 45000,
			AverageTotalPayments: 15000, AverageMedicarePayments: 12000,
		},
		{
			ProviderID: "330124", ProviderName: "NYU LANGONE HOSPITAL",
			ProviderCity: "NEW YORK", ProviderState: "NY", ProviderZipCode: "10016",
			MSDRGCode: "291", MSDRGDefinition: "291 – HEART FAILURE AND SHOCK W/O MCC",
			TotalDischarges: 180, AverageCoveredCharges: 48000,
			AverageTotalPayments: 16000, AverageMedicarePayments: 13000,
		},
	}
}
