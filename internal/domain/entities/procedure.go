package entities

// Procedure is one (provider, MS-DRG) pricing record. DRG codes are strings
// because codes may carry leading zeros. Duplicate (provider, DRG) pairs are
// possible and readers must tolerate them.
type Procedure struct {
	ID                      int64   `json:"id" db:"id"`
	ProviderID              string  `json:"provider_id" db:"provider_id"`
	MSDRGCode               string  `json:"ms_drg_code" db:"ms_drg_code"`
	MSDRGDefinition         string  `json:"ms_drg_definition" db:"ms_drg_definition"`
	TotalDischarges         int     `json:"total_discharges" db:"total_discharges"`
	AverageCoveredCharges   float64 `json:"average_covered_charges" db:"average_covered_charges"`
	AverageTotalPayments    float64 `json:"average_total_payments" db:"average_total_payments"`
	AverageMedicarePayments float64 `json:"average_medicare_payments" db:"average_medicare_payments"`
}
