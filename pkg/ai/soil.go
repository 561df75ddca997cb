package ai

import (
	"math"

	"fraatlas/entities"
	"fraatlas/pkg/synth"
)

// baseRange is drawn in declaration order; changing the order changes every
// generated record.
var baseRanges = [17][2]float64{
	{50, 150},   // N
	{10, 50},    // P
	{100, 300},  // K
	{5.5, 8.0},  // pH
	{0.2, 2.0},  // EC
	{0.5, 3.5},  // OM
	{0, 10},     // CaCO3
	{20, 60},    // Sand
	{10, 40},    // Silt
	{10, 40},    // Clay
	{20, 35},    // Temperature
	{40, 90},    // Humidity
	{600, 1600}, // Rainfall
	{50, 250},   // Mg
	{2, 12},     // Fe
	{0.3, 2.5},  // Zn
	{1, 10},     // Mn
}

func drawSoil(rng *synth.RNG, soil entities.SoilType, water entities.WaterAvailability) entities.SoilComposition {
	var v [17]float64
	for i, r := range baseRanges {
		v[i] = rng.Between(r[0], r[1])
	}
	s := entities.SoilComposition{
		N: v[0], P: v[1], K: v[2], PH: v[3], EC: v[4], OM: v[5], CaCO3: v[6],
		Sand: v[7], Silt: v[8], Clay: v[9],
		Temperature: v[10], Humidity: v[11], Rainfall: v[12],
		Mg: v[13], Fe: v[14], Zn: v[15], Mn: v[16],
	}

	switch soil {
	case entities.SoilAlluvial:
		s.N *= 1.2
		s.P *= 1.2
		s.K *= 1.15
		s.Silt *= 1.3
		s.PH = 6.5 + (s.PH-5.5)/2.5
	case entities.SoilClay:
		s.Clay *= 1.8
		s.K *= 1.1
		s.OM += 0.3
		s.EC *= 1.1
	case entities.SoilLoamy:
		s.N *= 1.1
		s.OM += 0.5
		s.Silt *= 1.2
	case entities.SoilLaterite:
		s.N *= 0.7
		s.P *= 0.6
		s.K *= 0.8
		s.Fe *= 1.8
		s.Sand *= 1.3
		s.PH = math.Max(4.5, s.PH-1.0)
	}

	switch water {
	case entities.WaterLow:
		s.Humidity *= 0.75
		s.Rainfall *= 0.6
		s.EC *= 1.4
	case entities.WaterHigh:
		s.Humidity = math.Min(100, s.Humidity*1.15)
		s.Rainfall *= 1.4
		s.EC *= 0.8
	}

	total := s.Sand + s.Silt + s.Clay
	s.Sand = round2(s.Sand / total * 100)
	s.Silt = round2(s.Silt / total * 100)
	s.Clay = round2(100 - s.Sand - s.Silt)

	s.N, s.P, s.K = round2(s.N), round2(s.P), round2(s.K)
	s.PH, s.EC, s.OM, s.CaCO3 = round2(s.PH), round2(s.EC), round2(s.OM), round2(s.CaCO3)
	s.Temperature, s.Humidity, s.Rainfall = round2(s.Temperature), round2(s.Humidity), round2(s.Rainfall)
	s.Mg, s.Fe, s.Zn, s.Mn = round2(s.Mg), round2(s.Fe), round2(s.Zn), round2(s.Mn)
	return s
}

// HealthScore weighs organic matter (40), pH closeness to 6.5 (30) and
// nitrogen (30). The result is always within [0,100].
func HealthScore(s entities.SoilComposition) int {
	om := math.Min(s.OM/2.5, 1) * 40
	ph := math.Max(0, 1-math.Abs(6.5-s.PH)/2.5) * 30
	n := math.Min(s.N/120, 1) * 30
	total := om + ph + n
	if math.IsNaN(total) || total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return int(math.Round(total))
}

// HealthStatus: >75 Good, >50 Moderate, otherwise Poor.
func HealthStatus(score int) string {
	switch {
	case score > 75:
		return "Good"
	case score > 50:
		return "Moderate"
	default:
		return "Poor"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
