package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/costnav/healthcare-cost-navigator/pkg/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_DefaultsModel(t *testing.T) {
	client, err := NewClient(&config.OpenAIConfig{APIKey: "sk-test"})
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.model)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "SELECT 1", "SELECT 1"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"trailing fence only", "SELECT 1\n```", "SELECT 1"},
		{"surrounding whitespace", "  SELECT 1  ", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}

func TestSerializeResults(t *testing.T) {
	rows := []map[string]interface{}{
		{"provider_name": "MOUNT SINAI HOSPITAL"},
		{"provider_name": "NYU LANGONE HOSPITAL"},
	}

	out := serializeResults(rows)
	assert.Contains(t, out, `"provider_name":"MOUNT SINAI HOSPITAL"`)
	assert.Contains(t, out, `"provider_name":"NYU LANGONE HOSPITAL"`)
}
