// Package export writes claims as CSV or Excel.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"fraatlas/entities"
)

// Header uses the canonical field names; area carries its unit so an
// exported file imports back without a hectare conversion.
var Header = []string{
	"id", "holderName", "village", "district", "state", "area_acres", "status",
	"soilType", "waterAvailability", "estimatedCropValue", "geometry", "documentName", "created_at",
}

const sheetName = "Claims"

// Columns written as numbers in XLSX.
const (
	colArea      = 5
	colCropValue = 9
)

func record(c *entities.Claim) []string {
	doc := ""
	if c.DocumentName != nil {
		doc = *c.DocumentName
	}
	created := ""
	if !c.CreatedAt.IsZero() {
		created = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		c.ID,
		c.HolderName,
		c.Village,
		c.District,
		c.State,
		strconv.FormatFloat(c.Area, 'f', -1, 64),
		string(c.Status),
		string(c.SoilType),
		string(c.WaterAvailability),
		strconv.FormatInt(c.EstimatedCropValue, 10),
		string(c.Geometry),
		doc,
		created,
	}
}

// CSV writes a header row and one row per claim; geometry is inlined as JSON.
func CSV(w io.Writer, claims []entities.Claim) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range claims {
		if err := cw.Write(record(&claims[i])); err != nil {
			return fmt.Errorf("write claim %s: %w", claims[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes the same table to a single "Claims" sheet.
func XLSX(w io.Writer, claims []entities.Claim) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	head := make([]any, len(Header))
	for i, h := range Header {
		head[i] = h
	}
	if err := setRow(f, 1, head); err != nil {
		return err
	}
	for i := range claims {
		if err := setRow(f, i+2, xlsxRecord(&claims[i])); err != nil {
			return fmt.Errorf("write claim %s: %w", claims[i].ID, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// xlsxRecord is record with area and crop value as numeric cells.
func xlsxRecord(c *entities.Claim) []any {
	values := record(c)
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	row[colArea] = c.Area
	row[colCropValue] = c.EstimatedCropValue
	return row
}

func setRow(f *excelize.File, n int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &row)
}
