// Package controllerImp serves the document scanner. There is no OCR: every
// upload yields the same extraction so the claim form can be prefilled in
// demos.
package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Extraction struct {
	DocumentName string  `json:"documentName,omitempty"`
	HolderName   string  `json:"holderName"`
	Village      string  `json:"village"`
	District     string  `json:"district"`
	State        string  `json:"state"`
	Area         float64 `json:"area"`
	ClaimType    string  `json:"claimType"`
	Status       string  `json:"status"`
	Confidence   float64 `json:"confidence"`
}

var sample = Extraction{
	HolderName: "Ramesh Kumar Oraon",
	Village:    "Kanke",
	District:   "Ranchi",
	State:      "Jharkhand",
	Area:       2.5,
	ClaimType:  "IFR",
	Status:     "Pending",
	Confidence: 0.92,
}

type ScanCtrl struct{}

func New() *ScanCtrl { return &ScanCtrl{} }

// Scan accepts an optional multipart "file"; only its name is echoed back.
func (h *ScanCtrl) Scan(c echo.Context) error {
	out := sample
	if fh, err := c.FormFile("file"); err == nil {
		out.DocumentName = fh.Filename
	}
	return c.JSON(http.StatusOK, out)
}
