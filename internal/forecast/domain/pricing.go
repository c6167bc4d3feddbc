package domain

// Surcharge rule: rows forecasting more than the threshold quantity carry a
// 10% premium on their value. The boundary is strictly greater-than.
const (
	SurchargeThresholdQty int64   = 500
	SurchargeRate         float64 = 1.1
)

// RowValue computes the surcharge-adjusted value of a single forecast row.
func RowValue(qty int64, unitPrice float64) float64 {
	value := float64(qty) * unitPrice
	if qty > SurchargeThresholdQty {
		value *= SurchargeRate
	}
	return value
}
