package ai

import (
	"math"

	"fraatlas/entities"
)

type cropCandidate struct {
	crop, season, reason string
	fits                 func(s entities.SoilComposition) bool
}

var cropCandidates = map[entities.SoilType][]cropCandidate{
	entities.SoilAlluvial: {
		{"Rice", "Kharif", "High humidity or rainfall supports paddy", func(s entities.SoilComposition) bool { return s.Humidity > 60 || s.Rainfall > 1000 }},
		{"Wheat", "Rabi", "Near-neutral pH suits wheat", func(s entities.SoilComposition) bool { return s.PH >= 6 && s.PH <= 7.5 }},
		{"Sugarcane", "Perennial", "Nitrogen and rainfall sustain cane", func(s entities.SoilComposition) bool { return s.N > 80 && s.Rainfall > 900 }},
		{"Mustard", "Rabi", "Slightly alkaline soil favours mustard", func(s entities.SoilComposition) bool { return s.PH > 6.8 }},
	},
	entities.SoilClay: {
		{"Soybean", "Kharif", "Clay content above 20% holds moisture", func(s entities.SoilComposition) bool { return s.Clay > 20 }},
		{"Cotton", "Kharif", "Potassium-rich clay supports cotton", func(s entities.SoilComposition) bool { return s.K > 150 }},
		{"Rice", "Kharif", "Heavy clay with good rainfall ponds water", func(s entities.SoilComposition) bool { return s.Clay > 30 && s.Rainfall > 900 }},
		{"Chickpea", "Rabi", "Residual moisture and pH above 6", func(s entities.SoilComposition) bool { return s.PH > 6 }},
	},
	entities.SoilLoamy: {
		{"Maize", "Kharif", "Adequate nitrogen for maize", func(s entities.SoilComposition) bool { return s.N > 70 }},
		{"Vegetables", "Rabi", "Organic matter above 1.5% supports vegetables", func(s entities.SoilComposition) bool { return s.OM > 1.5 }},
		{"Groundnut", "Kharif", "Sandy fraction drains well for pods", func(s entities.SoilComposition) bool { return s.Sand > 30 }},
		{"Wheat", "Rabi", "Near-neutral pH suits wheat", func(s entities.SoilComposition) bool { return s.PH >= 6 && s.PH <= 7.5 }},
	},
	entities.SoilLaterite: {
		{"Cashew", "Perennial", "Acidic laterite suits cashew", func(s entities.SoilComposition) bool { return s.PH < 6.5 }},
		{"Tapioca", "Perennial", "Tolerates low fertility with rainfall above 800 mm", func(s entities.SoilComposition) bool { return s.Rainfall > 800 }},
		{"Finger Millet (Ragi)", "Kharif", "Hardy on low-nitrogen soils", func(s entities.SoilComposition) bool { return s.N < 100 }},
		{"Pineapple", "Perennial", "Prefers pH below 6", func(s entities.SoilComposition) bool { return s.PH < 6 }},
	},
	entities.SoilUnknown: {
		{"Pulses", "Rabi", "Fix their own nitrogen on untested soil", func(s entities.SoilComposition) bool { return s.PH > 5.5 }},
		{"Sorghum (Jowar)", "Kharif", "Reliable with rainfall above 500 mm", func(s entities.SoilComposition) bool { return s.Rainfall > 500 }},
	},
}

var fallbackCrop = entities.CropRecommendation{
	Crop:   "Pearl Millet (Bajra)",
	Season: "Kharif",
	Reason: "Hardy default when no candidate fits the soil profile",
}

func recommendCrops(soil entities.SoilType, s entities.SoilComposition) []entities.CropRecommendation {
	cands, ok := cropCandidates[soil]
	if !ok {
		cands = cropCandidates[entities.SoilUnknown]
	}
	out := make([]entities.CropRecommendation, 0, len(cands))
	for _, c := range cands {
		if c.fits(s) {
			out = append(out, entities.CropRecommendation{Crop: c.crop, Season: c.season, Reason: c.reason})
		}
	}
	if len(out) == 0 {
		out = append(out, fallbackCrop)
	}
	return out
}

type waterProfile struct {
	score            int
	label            string
	gwBase, gwSpan   float64
	depthLo, depthHi float64
	recommendations  []string
}

var waterTable = map[entities.WaterAvailability]waterProfile{
	entities.WaterHigh: {85, "Abundant", 60, 30, 3, 8, []string{
		"Integrate fish ponds with paddy in low-lying plots",
		"Maintain field bunds to control runoff",
		"Test water quality before stocking ponds",
	}},
	entities.WaterMedium: {60, "Adequate", 40, 30, 8, 18, []string{
		"Use drip irrigation for vegetables",
		"Build farm ponds to store monsoon runoff",
		"Schedule irrigation by crop stage",
	}},
	entities.WaterLow: {30, "Scarce", 15, 30, 18, 40, []string{
		"Prioritise drought-tolerant millets and pulses",
		"Construct check dams and percolation tanks",
		"Mulch to conserve soil moisture",
		"Apply for micro-irrigation support under PMKSY",
	}},
	entities.WaterUnknown: {50, "Unassessed", 30, 30, 5, 30, []string{
		"Commission a groundwater survey for this parcel",
	}},
}

// analyseWater reads the category table and draws the groundwater figures
// from gw, the generator seeded with id+"gw".
func analyseWater(water entities.WaterAvailability, gw interface{ Float64() float64 }) entities.WaterAnalysis {
	p, ok := waterTable[water]
	if !ok {
		p = waterTable[entities.WaterUnknown]
	}
	recs := make([]string, len(p.recommendations))
	copy(recs, p.recommendations)
	return entities.WaterAnalysis{
		Score:             p.score,
		Label:             p.label,
		GroundwaterIndex:  round2(p.gwBase + gw.Float64()*p.gwSpan),
		GroundwaterDepthM: round2(p.depthLo + gw.Float64()*(p.depthHi-p.depthLo)),
		Recommendations:   recs,
	}
}

func economicOpportunities(in Input) []entities.EconomicOpportunity {
	out := make([]entities.EconomicOpportunity, 0, 4)
	if in.Water == entities.WaterHigh {
		out = append(out, entities.EconomicOpportunity{
			Title:                 "Integrated aquaculture",
			Description:           "Perennial water supports fish and prawn culture in farm ponds",
			EstimatedAnnualIncome: 60000,
		})
	}
	if in.Area > 5 {
		out = append(out, entities.EconomicOpportunity{
			Title:                 "Community eco-tourism",
			Description:           "Parcel size allows homestays and guided forest walks",
			EstimatedAnnualIncome: 30000 + int64(math.Round(in.Area*1500)),
		})
	}
	premium := int64(12000)
	if in.CropValue > 0 {
		premium = int64(math.Round(float64(in.CropValue) * 0.15))
	}
	out = append(out,
		entities.EconomicOpportunity{
			Title:                 "Minor forest produce value addition",
			Description:           "Process tendu, mahua and lac through a Van Dhan kendra",
			EstimatedAnnualIncome: 25000,
		},
		entities.EconomicOpportunity{
			Title:                 "Organic certification",
			Description:           "Certified produce earns a premium on the current crop value",
			EstimatedAnnualIncome: premium,
		},
	)
	return out
}

func schemeEligibility(in Input, score int, crops []entities.CropRecommendation) []entities.SchemeEligibility {
	approved := in.Status == entities.StatusApproved
	waterStressed := in.Water != entities.WaterHigh
	return []entities.SchemeEligibility{
		scheme("PM-KISAN", "Agriculture & Farmers Welfare", approved, "Title granted under FRA", "Claim title not yet granted"),
		scheme("MGNREGA", "Rural Development", true, "Open to all rural households", ""),
		scheme("PMKSY (Per Drop More Crop)", "Jal Shakti", waterStressed, "Parcel is not water-abundant", "Water availability already high"),
		scheme("Soil Health Card", "Agriculture & Farmers Welfare", score < 60, "Soil health score below 60", "Soil health adequate"),
		scheme("PM Fasal Bima Yojana", "Agriculture & Farmers Welfare", len(crops) > 0, "Insurable crop recommended for parcel", "No insurable crop recommended"),
		scheme("Van Dhan Vikas Yojana", "Tribal Affairs", approved, "Recognised forest rights holder", "Forest rights not yet recognised"),
		scheme("Jal Jeevan Mission", "Jal Shakti", in.Water == entities.WaterLow, "Water-scarce parcel", "Not a priority water-scarce parcel"),
	}
}

func scheme(name, ministry string, eligible bool, yes, no string) entities.SchemeEligibility {
	r := no
	if eligible {
		r = yes
	}
	return entities.SchemeEligibility{Scheme: name, Ministry: ministry, Eligible: eligible, Reason: r}
}
