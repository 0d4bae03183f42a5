package providers

import (
	"context"
	"errors"
)

// ErrLanguageModelDisabled is returned by the disabled language model variant.
// The assistant pipeline treats it as the signal to take the deterministic
// fallback path rather than as a failure.
var ErrLanguageModelDisabled = errors.New("language model not configured")

// LanguageModel defines the text-completion capability used by the assistant
// pipeline. The variant (configured client or DisabledLanguageModel) is
// chosen once at construction in main.
type LanguageModel interface {
	// GenerateSQL synthesizes a single read-only SQL statement for the
	// question, using :name placeholders and capped at 10 rows.
	GenerateSQL(ctx context.Context, question string) (string, error)

	// Summarize produces a conversational answer from the question and up to
	// a handful of result rows.
	Summarize(ctx context.Context, question string, results []map[string]interface{}) (string, error)
}

// DisabledLanguageModel is the not-configured variant of LanguageModel. Every
// call reports ErrLanguageModelDisabled.
type DisabledLanguageModel struct{}

// NewDisabledLanguageModel creates the not-configured language model variant.
func NewDisabledLanguageModel() LanguageModel {
	return &DisabledLanguageModel{}
}

// GenerateSQL always reports that no model is configured.
func (DisabledLanguageModel) GenerateSQL(ctx context.Context, question string) (string, error) {
	return "", ErrLanguageModelDisabled
}

// Summarize always reports that no model is configured.
func (DisabledLanguageModel) Summarize(ctx context.Context, question string, results []map[string]interface{}) (string, error) {
	return "", ErrLanguageModelDisabled
}
