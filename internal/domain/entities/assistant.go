package entities

// AssistantResponse is the outcome of one natural-language question.
// SQLQuery is set whenever a statement was synthesized, even if execution
// later fell back to the deterministic search. Error carries any downstream
// failure that was suppressed by the fallback path; it never represents a
// hard request failure.
type AssistantResponse struct {
	Answer     string                   `json:"answer"`
	Results    []map[string]interface{} `json:"results"`
	OutOfScope bool                     `json:"out_of_scope"`
	SQLQuery   string                   `json:"sql_query,omitempty"`
	Error      string                   `json:"error,omitempty"`
}
