// internal/inventory/stats.go
package inventory

// Stats is the reconciled dashboard summary across both status models.
// LegacyReserved is what a 3-state consumer counts as "reserved"; it always
// equals Reserved+Negotiating, and the four canonical counters always sum to
// Total, whatever the input.
type Stats struct {
	Available      int `json:"available"`
	Reserved       int `json:"reserved"`
	Negotiating    int `json:"negotiating"`
	Sold           int `json:"sold"`
	Total          int `json:"total"`
	LegacyReserved int `json:"legacy_reserved"`
}

// CalculateStats counts vehicles per canonical status in a single pass.
// Pure and order-independent; the empty input yields all zeros.
func CalculateStats(vehicles []Vehicle) Stats {
	var s Stats
	for _, v := range vehicles {
		switch v.status {
		case StatusAvailable:
			s.Available++
		case StatusReserved:
			s.Reserved++
		case StatusNegotiating:
			s.Negotiating++
		case StatusSold:
			s.Sold++
		}
	}
	s.Total = s.Available + s.Reserved + s.Negotiating + s.Sold
	s.LegacyReserved = s.Reserved + s.Negotiating
	return s
}
