package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableFile aborts an import before anything is persisted.
	ErrUnreadableFile    = errors.New("unreadable file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ReadFile picks a reader by file extension.
func ReadFile(name string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".html", ".htm":
		return ReadHTML(r)
	case ".json":
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// ReadCSV keeps each record's line so rows can be reported by their place in
// the file even though the csv reader drops empty lines.
func ReadCSV(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrUnreadableFile, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return table(records, lines)
}

// ReadXLSX reads the first sheet with raw cell values, so date cells arrive
// as Excel serial numbers.
func ReadXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx has no sheets", ErrUnreadableFile)
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrUnreadableFile, err)
	}
	return table(records, nil)
}

// ReadHTML reads the first <table>, as produced by "Save as Web Page" or by
// state FRA portals. Header cells come from the first row.
func ReadHTML(r io.Reader) (*Sheet, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrUnreadableFile, err)
	}
	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("%w: html has no table", ErrUnreadableFile)
	}
	var records [][]string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var rec []string
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			rec = append(rec, strings.TrimSpace(cell.Text()))
		})
		records = append(records, rec)
	})
	return table(records, nil)
}

// ReadJSON accepts an array of objects, the shape browser spreadsheet
// parsers emit.
func ReadJSON(r io.Reader) (*Sheet, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrUnreadableFile, err)
	}
	sheet := &Sheet{Rows: make([]Row, 0, len(raw)), Lines: make([]int, 0, len(raw))}
	for i, m := range raw {
		row := make(Row, len(m))
		for k, v := range m {
			switch t := v.(type) {
			case map[string]any, []any:
				b, _ := json.Marshal(t)
				row[k] = string(b)
			default:
				row[k] = v
			}
		}
		sheet.Rows = append(sheet.Rows, row)
		sheet.Lines = append(sheet.Lines, i+1)
	}
	return sheet, nil
}

// table zips a header row with the data rows, dropping blank rows. lines
// holds each record's source line; nil means records are consecutive. A
// repeated header keeps its first non-blank value.
func table(records [][]string, lines []int) (*Sheet, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnreadableFile)
	}
	head := records[0]
	sheet := &Sheet{Rows: make([]Row, 0, len(records)-1), Lines: make([]int, 0, len(records)-1)}
	seen := map[string]bool{}
	for _, h := range head {
		if strings.TrimSpace(h) != "" && !seen[h] {
			seen[h] = true
			sheet.Columns = append(sheet.Columns, h)
		}
	}
	for n, rec := range records[1:] {
		row := make(Row, len(head))
		blank := true
		for i, h := range head {
			if strings.TrimSpace(h) == "" || i >= len(rec) {
				continue
			}
			if prev, ok := row[h]; ok && !isBlank(prev) {
				continue
			}
			row[h] = rec[i]
			if strings.TrimSpace(rec[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		num := n + 1
		if lines != nil {
			num = lines[n+1] - lines[0]
		}
		sheet.Rows = append(sheet.Rows, row)
		sheet.Lines = append(sheet.Lines, num)
	}
	return sheet, nil
}
