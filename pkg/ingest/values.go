package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	excelUnixEpoch = 25569 // serial of 1970-01-01 in the 1900 date system
	excelMaxSerial = 50000
	hectareToAcre  = 2.47105
)

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func isBlank(v any) bool { return cellString(v) == "" }

// cellFloat parses numbers written with thousands separators or stray spaces.
func cellFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	s := strings.ReplaceAll(cellString(v), ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// HectaresToAcres converts using 1 ha = 2.47105 ac.
func HectaresToAcres(ha float64) float64 {
	return ha * hectareToAcre
}

// ExcelSerialDate converts a 1900-system serial day number to a UTC date.
// Serials outside [25569, 50000] are rejected rather than guessed.
func ExcelSerialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < excelUnixEpoch || serial > excelMaxSerial {
		return time.Time{}, false
	}
	days := math.Floor(serial - excelUnixEpoch)
	return time.Unix(int64(days)*86400, 0).UTC(), true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// cellDate accepts either an Excel serial or a text date.
func cellDate(v any) (time.Time, bool) {
	if f, ok := cellFloat(v); ok {
		return ExcelSerialDate(f)
	}
	s := cellString(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
