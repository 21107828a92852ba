package extract

import "math"

const (
	criticalSignals = 5
	scoreFloor      = 0.5
)

// Confidence computes a completeness score in [0.5, 1.0] for a deterministic
// candidate. Each missing critical signal (BL number, shipper, consignee,
// carrier, container list) costs an equal share of half the base score. The
// floor reflects that even a poor deterministic pass carries some information.
func Confidence(r *Result) float64 {
	missing := 0
	if r.BLNumber == nil {
		missing++
	}
	if r.ShipperName == nil {
		missing++
	}
	if r.ConsigneeName == nil {
		missing++
	}
	if r.CarrierName == nil {
		missing++
	}
	if len(r.Containers) == 0 {
		missing++
	}

	score := 1.0 - scoreFloor*(float64(missing)/criticalSignals)
	if score < scoreFloor {
		score = scoreFloor
	}
	return math.Round(score*100) / 100
}
