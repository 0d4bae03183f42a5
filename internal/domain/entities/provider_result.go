package entities

// ProviderResult is one flattened (hospital, procedure) row returned by the
// search endpoints. AverageRating is the mean provider rating rounded to one
// decimal, nil when the provider has no ratings.
type ProviderResult struct {
	ProviderID              string   `json:"provider_id"`
	ProviderName            string   `json:"provider_name"`
	ProviderCity            string   `json:"provider_city"`
	ProviderState           string   `json:"provider_state"`
	ProviderZipCode         string   `json:"provider_zip_code"`
	MSDRGCode               string   `json:"ms_drg_code"`
	MSDRGDefinition         string   `json:"ms_drg_definition"`
	TotalDischarges         int      `json:"total_discharges"`
	AverageCoveredCharges   float64  `json:"average_covered_charges"`
	AverageTotalPayments    float64  `json:"average_total_payments"`
	AverageMedicarePayments float64  `json:"average_medicare_payments"`
	AverageRating           *float64 `json:"average_rating"`
}

// AsRow flattens the result into the generic row shape used by the assistant
// pipeline, whose model-generated queries return arbitrary columns.
func (r *ProviderResult) AsRow() map[string]interface{} {
	row := map[string]interface{}{
		"provider_id":               r.ProviderID,
		"provider_name":             r.ProviderName,
		"provider_city":             r.ProviderCity,
		"provider_state":            r.ProviderState,
		"provider_zip_code":         r.ProviderZipCode,
		"ms_drg_code":               r.MSDRGCode,
		"ms_drg_definition":         r.MSDRGDefinition,
		"total_discharges":          r.TotalDischarges,
		"average_covered_charges":   r.AverageCoveredCharges,
		"average_total_payments":    r.AverageTotalPayments,
		"average_medicare_payments": r.AverageMedicarePayments,
	}
	if r.AverageRating != nil {
		row["average_rating"] = *r.AverageRating
	} else {
		row["average_rating"] = nil
	}
	return row
}
