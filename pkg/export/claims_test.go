package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"fraatlas/entities"
	"fraatlas/pkg/ingest"
)

func sampleClaims() []entities.Claim {
	doc := "patta.pdf"
	return []entities.Claim{
		{
			ID: "MP-1", HolderName: "Sita Bai", Village: "Paraswada", District: "Balaghat", State: "Madhya Pradesh",
			Area: 4.94, Status: entities.StatusApproved, SoilType: entities.SoilLoamy, WaterAvailability: entities.WaterMedium,
			EstimatedCropValue: 82000,
			Geometry:           datatypes.JSON(`{"type":"Polygon","coordinates":[[[80,21],[80.1,21],[80.1,21.1],[80,21]]]}`),
			DocumentName:       &doc,
			CreatedAt:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{ID: "MP-2", HolderName: "Ramu, Gond", Status: entities.StatusPending, SoilType: entities.SoilUnknown, WaterAvailability: entities.WaterUnknown},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleClaims()))

	recs, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, Header, recs[0])
	assert.Equal(t, `{"type":"Polygon","coordinates":[[[80,21],[80.1,21],[80.1,21.1],[80,21]]]}`, recs[1][10])
	assert.Equal(t, "Ramu, Gond", recs[2][1])
	assert.Equal(t, "2024-02-01T00:00:00Z", recs[1][12])
}

func TestCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestCSV_ReimportsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleClaims()))
	sheet, err := ingest.ReadCSV(&buf)
	require.NoError(t, err)

	res := ingest.NewNormalizer(ingest.PolicyUnknown, nil).NormalizeSheet(sheet)
	require.Equal(t, 2, res.Accepted)
	got := res.Claims[0]
	assert.Equal(t, 4.94, got.Area)
	assert.Equal(t, entities.StatusApproved, got.Status)
	assert.Equal(t, entities.SoilLoamy, got.SoilType)
	assert.Equal(t, int64(82000), got.EstimatedCropValue)
	assert.Equal(t, "2024-02-01", got.CreatedAt.Format("2006-01-02"))
	assert.JSONEq(t, string(sampleClaims()[0].Geometry), string(got.Geometry))
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleClaims()))

	sheet, err := ingest.ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, Header, sheet.Columns)
	assert.Equal(t, "MP-1", sheet.Rows[0]["id"])
	assert.Equal(t, "Sita Bai", sheet.Rows[0]["holderName"])

	res := ingest.NewNormalizer(ingest.PolicyUnknown, nil).NormalizeSheet(sheet)
	require.Equal(t, 2, res.Accepted)
	assert.Equal(t, 4.94, res.Claims[0].Area)
	assert.Equal(t, int64(82000), res.Claims[0].EstimatedCropValue)
}

func TestXLSX_NumericCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleClaims()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	numeric := []excelize.CellType{excelize.CellTypeUnset, excelize.CellTypeNumber}
	for cell, want := range map[string]string{"F2": "4.94", "J2": "82000"} {
		typ, err := f.GetCellType(sheetName, cell)
		require.NoError(t, err)
		assert.Contains(t, numeric, typ, cell)
		v, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, v, cell)
	}

	typ, err := f.GetCellType(sheetName, "A2")
	require.NoError(t, err)
	assert.NotContains(t, numeric, typ)
}
