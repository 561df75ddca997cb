package entities

// AnalysisRecord is the synthetic "AI analysis" for one claim. It is derived
// data and is never the source of truth.
type AnalysisRecord struct {
	ClaimID               string                `json:"claimId"`
	GeneratorVersion      string                `json:"generatorVersion"`
	SoilComposition       SoilComposition       `json:"soilComposition"`
	SoilHealth            SoilHealth            `json:"soilHealth"`
	CropRecommendations   []CropRecommendation  `json:"cropRecommendations"`
	WaterAnalysis         WaterAnalysis         `json:"waterAnalysis"`
	EconomicOpportunities []EconomicOpportunity `json:"economicOpportunities"`
	SchemeEligibility     []SchemeEligibility   `json:"schemeEligibility"`
}

type SoilComposition struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	PH          float64 `json:"pH"`
	EC          float64 `json:"EC"`
	OM          float64 `json:"OM"`
	CaCO3       float64 `json:"CaCO3"`
	Sand        float64 `json:"Sand"`
	Silt        float64 `json:"Silt"`
	Clay        float64 `json:"Clay"`
	Temperature float64 `json:"Temperature"`
	Humidity    float64 `json:"Humidity"`
	Rainfall    float64 `json:"Rainfall"`
	Mg          float64 `json:"Mg"`
	Fe          float64 `json:"Fe"`
	Zn          float64 `json:"Zn"`
	Mn          float64 `json:"Mn"`
}

type SoilHealth struct {
	Score  int    `json:"score"`
	Status string `json:"status"` // Good|Moderate|Poor
}

type CropRecommendation struct {
	Crop   string `json:"crop"`
	Season string `json:"season"`
	Reason string `json:"reason"`
}

type WaterAnalysis struct {
	Score             int      `json:"score"`
	Label             string   `json:"label"`
	GroundwaterIndex  float64  `json:"groundwaterIndex"`
	GroundwaterDepthM float64  `json:"groundwaterDepthM"`
	Recommendations   []string `json:"recommendations"`
}

type EconomicOpportunity struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	EstimatedAnnualIncome int64  `json:"estimatedAnnualIncome"`
}

type SchemeEligibility struct {
	Scheme   string `json:"scheme"`
	Ministry string `json:"ministry"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}
