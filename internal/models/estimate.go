package models

// MemberEstimate is one row of the estimate rollup. The unassigned bucket
// uses an empty UserID and IsUnassigned=true.
type MemberEstimate struct {
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	HourlyRate    float64 `json:"hourlyRate"`
	AssignedHours float64 `json:"assignedHours"`
	EstimatedCost float64 `json:"estimatedCost"`
	IsUnassigned  bool    `json:"isUnassigned"`
}

// EstimateSummary is derived on demand and never persisted. Totals are
// rounded again after summing the already-rounded member values.
type EstimateSummary struct {
	TotalHours float64          `json:"totalHours"`
	TotalCost  float64          `json:"totalCost"`
	Members    []MemberEstimate `json:"members"`
}
