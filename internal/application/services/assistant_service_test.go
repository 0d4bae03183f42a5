package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/providers"
)

type fakeLanguageModel struct {
	sql        string
	sqlErr     error
	summary    string
	summaryErr error

	lastQuestion string
	lastResults  []map[string]interface{}
}

func (f *fakeLanguageModel) GenerateSQL(ctx context.Context, question string) (string, error) {
	f.lastQuestion = question
	return f.sql, f.sqlErr
}

func (f *fakeLanguageModel) Summarize(ctx context.Context, question string, results []map[string]interface{}) (string, error) {
	f.lastResults = results
	return f.summary, f.summaryErr
}

func newAssistant(repo *fakeSearchRepo, model providers.LanguageModel) *AssistantService {
	return NewAssistantService(repo, model, NewProviderService(repo))
}

func sampleResult() *entities.ProviderResult {
	rating := 8.5
	return &entities.ProviderResult{
		ProviderID:            "330123",
		ProviderName:          "NEW YORK GENERAL",
		ProviderCity:          "NEW YORK",
		ProviderState:         "NY",
		ProviderZipCode:       "10001",
		MSDRGCode:             "470",
		MSDRGDefinition:       "470 - MAJOR HIP AND KNEE JOINT REPLACEMENT",
		TotalDischarges:       120,
		AverageCoveredCharges: 54500.75,
		AverageRating:         &rating,
	}
}

func TestAskOutOfScope(t *testing.T) {
	service := newAssistant(&fakeSearchRepo{}, providers.NewDisabledLanguageModel())

	resp, err := service.Ask(context.Background(), "What is the weather in Paris?")
	require.NoError(t, err)

	assert.True(t, resp.OutOfScope)
	assert.Equal(t, outOfScopeAnswer, resp.Answer)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.SQLQuery)
}

func TestAskEmptyQuestion(t *testing.T) {
	service := newAssistant(&fakeSearchRepo{}, providers.NewDisabledLanguageModel())

	_, err := service.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAskGeneratedQuery(t *testing.T) {
	repo := &fakeSearchRepo{
		execResults: []map[string]interface{}{
			{"provider_name": "NEW YORK GENERAL", "average_covered_charges": 54500.75},
		},
	}
	model := &fakeLanguageModel{
		sql:     "SELECT provider_name FROM hospitals WHERE provider_zip_code LIKE :zip_code",
		summary: "NEW YORK GENERAL is the cheapest option.",
	}
	service := newAssistant(repo, model)

	resp, err := service.Ask(context.Background(), "Who is cheapest for DRG 470 near 10001?")
	require.NoError(t, err)

	assert.Equal(t, model.sql, resp.SQLQuery)
	assert.Equal(t, "NEW YORK GENERAL is the cheapest option.", resp.Answer)
	assert.Empty(t, resp.Error)
	assert.False(t, resp.OutOfScope)
	assert.Equal(t, "10001", repo.lastParams["zip_code"])
	assert.Equal(t, "470", repo.lastParams["drg"])
}

func TestAskDangerousQueryFallsBack(t *testing.T) {
	repo := &fakeSearchRepo{results: []*entities.ProviderResult{sampleResult()}}
	model := &fakeLanguageModel{
		sql:        "DROP TABLE hospitals",
		summaryErr: providers.ErrLanguageModelDisabled,
	}
	service := newAssistant(repo, model)

	resp, err := service.Ask(context.Background(), "cheapest hospital for knee replacement")
	require.NoError(t, err)

	assert.Empty(t, resp.SQLQuery)
	assert.NotEmpty(t, resp.Error)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "NEW YORK GENERAL", resp.Results[0]["provider_name"])
}

func TestAskExecutionErrorFallsBack(t *testing.T) {
	repo := &fakeSearchRepo{
		execErr: errors.New("relation does not exist"),
		results: []*entities.ProviderResult{sampleResult()},
	}
	model := &fakeLanguageModel{
		sql:        "SELECT * FROM hospitls",
		summaryErr: providers.ErrLanguageModelDisabled,
	}
	service := newAssistant(repo, model)

	resp, err := service.Ask(context.Background(), "cheapest hospital for knee replacement")
	require.NoError(t, err)

	// the statement is still reported even though its execution failed
	assert.Equal(t, "SELECT * FROM hospitls", resp.SQLQuery)
	assert.Contains(t, resp.Error, "relation does not exist")
	require.Len(t, resp.Results, 1)
}

func TestAskDisabledModelUsesTemplatedAnswer(t *testing.T) {
	repo := &fakeSearchRepo{results: []*entities.ProviderResult{sampleResult()}}
	service := newAssistant(repo, providers.NewDisabledLanguageModel())

	resp, err := service.Ask(context.Background(), "cheapest hospital for drg 470")
	require.NoError(t, err)

	assert.Empty(t, resp.Error)
	assert.Equal(t,
		"I found NEW YORK GENERAL in NEW YORK, NY. The average covered charges for 470 - MAJOR HIP AND KNEE JOINT REPLACEMENT is $54,500.75.",
		resp.Answer)
}

func TestAskMultipleResultsTemplatedAnswer(t *testing.T) {
	second := sampleResult()
	second.ProviderName = "BROOKLYN MEDICAL CENTER"
	second.AverageCoveredCharges = 61000

	repo := &fakeSearchRepo{results: []*entities.ProviderResult{sampleResult(), second}}
	service := newAssistant(repo, providers.NewDisabledLanguageModel())

	resp, err := service.Ask(context.Background(), "cheapest hospital for drg 470")
	require.NoError(t, err)

	assert.Equal(t,
		"I found 2 hospitals. The most affordable option is NEW YORK GENERAL in NEW YORK with average charges of $54,500.75.",
		resp.Answer)
}

func TestAskNoResults(t *testing.T) {
	repo := &fakeSearchRepo{}
	service := newAssistant(repo, providers.NewDisabledLanguageModel())

	resp, err := service.Ask(context.Background(), "cheapest hospital for drg 999")
	require.NoError(t, err)

	assert.Equal(t, noMatchAnswer, resp.Answer)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestAskSummarizeLimitsToFiveRows(t *testing.T) {
	var results []*entities.ProviderResult
	for i := 0; i < 8; i++ {
		results = append(results, sampleResult())
	}
	repo := &fakeSearchRepo{results: results}
	model := &fakeLanguageModel{
		sqlErr:  providers.ErrLanguageModelDisabled,
		summary: "Eight hospitals match.",
	}
	service := newAssistant(repo, model)

	resp, err := service.Ask(context.Background(), "hospital prices near 10001 within 20 km")
	require.NoError(t, err)

	assert.Len(t, resp.Results, 8)
	assert.Len(t, model.lastResults, 5)
}

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		wantDRG    *int
		wantZip    string
		wantRadius *int
		wantSort   string
	}{
		{
			name:       "full question with miles",
			question:   "Who is cheapest for DRG 470 within 25 miles of 10001?",
			wantDRG:    intPtr(470),
			wantZip:    "10001",
			wantRadius: intPtr(40),
			wantSort:   "cost",
		},
		{
			name:       "km needs no conversion",
			question:   "hospitals within 30 km of 11211",
			wantZip:    "11211",
			wantRadius: intPtr(30),
		},
		{
			name:     "rating preference",
			question: "best rating for heart surgery",
			wantSort: "rating",
		},
		{
			name:     "six digit number is not a zip",
			question: "hospital account 123456",
		},
		{
			name:     "nothing extractable",
			question: "tell me about hospitals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := extractParams(tt.question)
			assert.Equal(t, tt.wantDRG, params.DRG)
			assert.Equal(t, tt.wantZip, params.ZipCode)
			assert.Equal(t, tt.wantRadius, params.RadiusKM)
			assert.Equal(t, tt.wantSort, params.SortBy)
		})
	}
}

func TestIsHealthcareRelated(t *testing.T) {
	assert.True(t, isHealthcareRelated("Which hospital is cheapest?"))
	assert.True(t, isHealthcareRelated("KNEE replacement options"))
	assert.False(t, isHealthcareRelated("What is the capital of France?"))
}

func TestValidateGeneratedSQL(t *testing.T) {
	assert.NoError(t, validateGeneratedSQL("SELECT * FROM hospitals"))
	assert.Error(t, validateGeneratedSQL("select * from t; drop table hospitals"))
	assert.Error(t, validateGeneratedSQL("UPDATE hospitals SET provider_name = 'x'"))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "54,500.75", formatUSD(54500.75))
	assert.Equal(t, "1,234,567.89", formatUSD(1234567.891))
	assert.Equal(t, "999.50", formatUSD(999.5))
	assert.Equal(t, "0.00", formatUSD(0))
	assert.Equal(t, "-1,000.00", formatUSD(-1000))
}
