package entities

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ClaimStatus string

const (
	StatusApproved ClaimStatus = "Approved"
	StatusPending  ClaimStatus = "Pending"
	StatusRejected ClaimStatus = "Rejected"
)

type SoilType string

const (
	SoilAlluvial SoilType = "Alluvial"
	SoilClay     SoilType = "Clay"
	SoilLoamy    SoilType = "Loamy"
	SoilLaterite SoilType = "Laterite"
	SoilUnknown  SoilType = "Unknown"
)

// KnownSoilTypes excludes SoilUnknown.
var KnownSoilTypes = []SoilType{SoilAlluvial, SoilClay, SoilLoamy, SoilLaterite}

type WaterAvailability string

const (
	WaterHigh    WaterAvailability = "High"
	WaterMedium  WaterAvailability = "Medium"
	WaterLow     WaterAvailability = "Low"
	WaterUnknown WaterAvailability = "Unknown"
)

// KnownWaterLevels excludes WaterUnknown.
var KnownWaterLevels = []WaterAvailability{WaterHigh, WaterMedium, WaterLow}

type Claim struct {
	ID                 string            `gorm:"primaryKey;column:id" json:"id"`
	HolderName         string            `json:"holderName"`
	Village            string            `gorm:"index" json:"village"`
	District           string            `gorm:"index" json:"district"`
	State              string            `gorm:"index" json:"state"`
	Area               float64           `json:"area"` // acres
	Status             ClaimStatus       `gorm:"index" json:"status"`
	SoilType           SoilType          `json:"soilType"`
	WaterAvailability  WaterAvailability `json:"waterAvailability"`
	EstimatedCropValue int64             `json:"estimatedCropValue"`
	Geometry           datatypes.JSON    `json:"geometry"` // GeoJSON Polygon
	DocumentName       *string           `json:"documentName,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseStatus matches the canonical labels case-insensitively.
func ParseStatus(s string) (ClaimStatus, bool) {
	for _, v := range []ClaimStatus{StatusApproved, StatusPending, StatusRejected} {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	return "", false
}

func ParseSoilType(s string) (SoilType, bool) {
	for _, v := range KnownSoilTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	return SoilUnknown, false
}

func ParseWaterAvailability(s string) (WaterAvailability, bool) {
	for _, v := range KnownWaterLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	return WaterUnknown, false
}

// ApplyDefaults fills absent enum values and clamps area.
func (c *Claim) ApplyDefaults() {
	if c.Area < 0 {
		c.Area = 0
	}
	if s, ok := ParseStatus(string(c.Status)); ok {
		c.Status = s
	} else {
		c.Status = StatusPending
	}
	if s, ok := ParseSoilType(string(c.SoilType)); ok {
		c.SoilType = s
	} else {
		c.SoilType = SoilUnknown
	}
	if w, ok := ParseWaterAvailability(string(c.WaterAvailability)); ok {
		c.WaterAvailability = w
	} else {
		c.WaterAvailability = WaterUnknown
	}
}
