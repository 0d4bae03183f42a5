package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/providers"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/repositories"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

const (
	outOfScopeAnswer = "I can only help with hospital pricing and quality information. Please ask about medical procedures, costs, or hospital ratings."
	noMatchAnswer    = "I couldn't find any hospitals matching your criteria. Please try different search terms or a broader location."

	milesPerKm = 1.60934
)

// healthcareKeywords gates the pipeline. A question containing none of these
// is refused before any model call or database access.
var healthcareKeywords = []string{
	"hospital", "doctor", "medical", "procedure", "surgery",
	"cost", "price", "drg", "rating", "quality",
	"cheapest", "best", "near", "zip", "miles",
	"knee", "heart", "joint", "replacement", "bypass",
	"cardiac", "orthopedic",
}

// dangerousKeywords rejects model output that mutates data. Substring match
// on purpose, a coarse safety net rather than a SQL parser.
var dangerousKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "CREATE", "ALTER", "EXEC", "EXECUTE",
}

var (
	drgPattern    = regexp.MustCompile(`drg\s+(\d+)`)
	zipPattern    = regexp.MustCompile(`\b(\d{5})\b`)
	radiusPattern = regexp.MustCompile(`(\d+)\s*(miles?|km)`)
)

// questionParams holds what regex extraction could recover from a question.
type questionParams struct {
	DRG      *int
	ZipCode  string
	RadiusKM *int
	SortBy   string
}

// bindValues returns the named-placeholder values offered to a generated
// statement.
func (p questionParams) bindValues() map[string]interface{} {
	values := make(map[string]interface{})
	if p.DRG != nil {
		values["drg"] = strconv.Itoa(*p.DRG)
	}
	if p.ZipCode != "" {
		values["zip_code"] = p.ZipCode
	}
	if p.RadiusKM != nil {
		values["radius_km"] = *p.RadiusKM
	}
	if p.SortBy != "" {
		values["sort_by"] = p.SortBy
	}
	return values
}

// AssistantService answers natural language questions about hospital pricing.
// The language model path is best effort, every failure drops down to the
// deterministic search built from the extracted parameters.
type AssistantService struct {
	repo     repositories.ProviderSearchRepository
	model    providers.LanguageModel
	provider *ProviderService
}

// NewAssistantService creates a new assistant service
func NewAssistantService(repo repositories.ProviderSearchRepository, model providers.LanguageModel, provider *ProviderService) *AssistantService {
	return &AssistantService{
		repo:     repo,
		model:    model,
		provider: provider,
	}
}

// Ask processes a natural language question. The returned response always has
// a non-nil Results slice. An error is returned only when the deterministic
// fallback itself fails.
func (s *AssistantService) Ask(ctx context.Context, question string) (*entities.AssistantResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.NewValidationError("question must not be empty")
	}

	logger := zerolog.Ctx(ctx)

	if !isHealthcareRelated(question) {
		return &entities.AssistantResponse{
			Answer:     outOfScopeAnswer,
			Results:    []map[string]interface{}{},
			OutOfScope: true,
		}, nil
	}

	params := extractParams(question)

	var (
		results   []map[string]interface{}
		sqlQuery  string
		stageErr  error
		generated bool
	)

	sqlQuery, genErr := s.generateSQL(ctx, question)
	switch {
	case genErr == nil:
		generated = true
		results, stageErr = s.repo.ExecuteReadQuery(ctx, sqlQuery, params.bindValues())
		if stageErr != nil {
			logger.Warn().Err(stageErr).Msg("generated query failed, using fallback search")
		}
	case errors.Is(genErr, providers.ErrLanguageModelDisabled):
		// expected without an API key, not an error worth reporting
	default:
		stageErr = genErr
		logger.Warn().Err(genErr).Msg("query generation failed, using fallback search")
	}

	if !generated || stageErr != nil {
		fallbackResults, err := s.fallbackSearch(ctx, params)
		if err != nil {
			return nil, err
		}
		results = fallbackResults
	}
	if results == nil {
		results = []map[string]interface{}{}
	}

	answer, answerErr := s.composeAnswer(ctx, question, results)
	if answerErr != nil {
		logger.Warn().Err(answerErr).Msg("answer generation failed, using templated answer")
		if stageErr == nil {
			stageErr = answerErr
		}
	}

	response := &entities.AssistantResponse{
		Answer:  answer,
		Results: results,
	}
	if generated {
		response.SQLQuery = sqlQuery
	}
	if stageErr != nil {
		response.Error = stageErr.Error()
	}
	return response, nil
}

// generateSQL asks the model for a statement and rejects anything that could
// mutate data.
func (s *AssistantService) generateSQL(ctx context.Context, question string) (string, error) {
	query, err := s.model.GenerateSQL(ctx, question)
	if err != nil {
		return "", err
	}
	if err := validateGeneratedSQL(query); err != nil {
		return "", err
	}
	return query, nil
}

func validateGeneratedSQL(query string) error {
	upper := strings.ToUpper(query)
	for _, keyword := range dangerousKeywords {
		if strings.Contains(upper, keyword) {
			return apperrors.NewValidationError("generated SQL contains dangerous operations")
		}
	}
	return nil
}

// fallbackSearch runs the structured search with whatever the regexes
// recovered from the question. A radius without a usable zip is dropped
// rather than rejected, questions are best effort.
func (s *AssistantService) fallbackSearch(ctx context.Context, params questionParams) ([]map[string]interface{}, error) {
	radius := params.RadiusKM
	if params.ZipCode == "" || (radius != nil && *radius <= 0) {
		radius = nil
	}

	searchResults, err := s.provider.SearchProviders(ctx, ProviderSearchParams{
		DRG:      params.DRG,
		ZipCode:  params.ZipCode,
		RadiusKM: radius,
		SortBy:   params.SortBy,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(searchResults))
	for _, r := range searchResults {
		rows = append(rows, r.AsRow())
	}
	return rows, nil
}

// composeAnswer turns result rows into prose. The model summarizes the top
// five rows when available, otherwise a fixed template names the most
// affordable hospital.
func (s *AssistantService) composeAnswer(ctx context.Context, question string, results []map[string]interface{}) (string, error) {
	if len(results) == 0 {
		return noMatchAnswer, nil
	}

	top := results
	if len(top) > 5 {
		top = top[:5]
	}

	answer, err := s.model.Summarize(ctx, question, top)
	if err == nil {
		return answer, nil
	}
	if errors.Is(err, providers.ErrLanguageModelDisabled) {
		return templatedAnswer(results), nil
	}
	return templatedAnswer(results), err
}

func templatedAnswer(results []map[string]interface{}) string {
	top := results[0]
	name := asString(top["provider_name"])
	city := asString(top["provider_city"])

	if len(results) == 1 {
		return fmt.Sprintf(
			"I found %s in %s, %s. The average covered charges for %s is $%s.",
			name, city, asString(top["provider_state"]),
			asString(top["ms_drg_definition"]),
			formatUSD(asFloat(top["average_covered_charges"])),
		)
	}
	return fmt.Sprintf(
		"I found %d hospitals. The most affordable option is %s in %s with average charges of $%s.",
		len(results), name, city,
		formatUSD(asFloat(top["average_covered_charges"])),
	)
}

func isHealthcareRelated(question string) bool {
	lower := strings.ToLower(question)
	for _, keyword := range healthcareKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// extractParams pattern-matches the raw question. Extraction is best effort,
// unmatched fields stay zero.
func extractParams(question string) questionParams {
	var params questionParams
	lower := strings.ToLower(question)

	if m := drgPattern.FindStringSubmatch(lower); m != nil {
		if drg, err := strconv.Atoi(m[1]); err == nil {
			params.DRG = &drg
		}
	}

	if m := zipPattern.FindStringSubmatch(question); m != nil {
		params.ZipCode = m[1]
	}

	if m := radiusPattern.FindStringSubmatch(lower); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil {
			if strings.HasPrefix(m[2], "mile") {
				value = int(float64(value) * milesPerKm)
			}
			params.RadiusKM = &value
		}
	}

	switch {
	case strings.Contains(lower, "cheapest"), strings.Contains(lower, "lowest cost"):
		params.SortBy = repositories.SortByCost
	case strings.Contains(lower, "best rating"), strings.Contains(lower, "highest rating"):
		params.SortBy = repositories.SortByRating
	}

	return params
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// formatUSD renders an amount with thousands separators and two decimals.
func formatUSD(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var sb strings.Builder
	sb.WriteString(sign)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	sb.WriteString(frac)
	return sb.String()
}
