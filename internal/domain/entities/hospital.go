package entities

// Hospital represents one Medicare provider. The provider ID (CMS CCN) is the
// stable primary key; hospitals are written once per ingestion run and never
// updated in place.
type Hospital struct {
	ProviderID      string `json:"provider_id" db:"provider_id"`
	ProviderName    string `json:"provider_name" db:"provider_name"`
	ProviderCity    string `json:"provider_city" db:"provider_city"`
	ProviderState   string `json:"provider_state" db:"provider_state"`
	ProviderZipCode string `json:"provider_zip_code" db:"provider_zip_code"`
}
