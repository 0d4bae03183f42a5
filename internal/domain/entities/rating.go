package entities

// Rating is one opaque quality score (1-10 scale) for a provider. A hospital
// may have zero, one, or many ratings; search aggregates them by mean at
// query time.
type Rating struct {
	ID         int64   `json:"id" db:"id"`
	ProviderID string  `json:"provider_id" db:"provider_id"`
	Rating     float64 `json:"rating" db:"rating"`
}
