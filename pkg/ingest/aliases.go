package ingest

import (
	"sort"
	"strings"
	"unicode"
)

type field int

const (
	fieldID field = iota
	fieldHolder
	fieldVillage
	fieldDistrict
	fieldState
	fieldAcres
	fieldHectares
	fieldStatus
	fieldSoil
	fieldWater
	fieldCropValue
	fieldLat
	fieldLng
	fieldGeometry
	fieldDate
	fieldDocument
)

// aliases lists normalised header spellings per field, in priority order.
var aliases = map[field][]string{
	fieldID:        {"claimid", "parcelid", "id", "fraid", "claimno", "claimnumber", "pattano", "pattanumber", "titleno"},
	fieldHolder:    {"holdername", "pattaholder", "claimantname", "claimant", "beneficiary", "beneficiaryname", "ownername", "name"},
	fieldVillage:   {"village", "villagename", "gram", "grampanchayat"},
	fieldDistrict:  {"district", "districtname", "zilla"},
	fieldState:     {"state", "statename"},
	fieldAcres:     {"areaacres", "acres", "areainacres", "areaac"},
	fieldHectares:  {"areahectares", "hectares", "areaha", "areainhectares", "ha", "area"},
	fieldStatus:    {"status", "claimstatus", "righttype", "typeofright", "claimtype"},
	fieldSoil:      {"soiltype", "soil"},
	fieldWater:     {"wateravailability", "water", "waterstatus", "irrigation"},
	fieldCropValue: {"estimatedcropvalue", "cropvalue", "estimatedvalue"},
	fieldLat:       {"lat", "latitude", "centerlat", "centrelat", "y"},
	fieldLng:       {"lng", "lon", "long", "longitude", "centerlng", "centrelng", "x"},
	fieldGeometry:  {"geometry", "geojson", "polygon", "boundary"},
	fieldDate:      {"date", "claimdate", "dateofclaim", "submittedon", "createdat", "dateofapproval", "approvaldate"},
	fieldDocument:  {"documentname", "document", "documentfile", "doc"},
}

// normalizeHeader lower-cases h and drops everything that is not a letter
// or digit, so "Patta Holder" and "patta_holder" both become "pattaholder".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolve maps each field to the first alias present in row. Headers that
// normalise to the same key are read in column order and the first
// non-blank one wins. columns is the sheet's header order; without it the
// headers are read in sorted order.
func resolve(row Row, columns []string) map[field]any {
	byHeader := make(map[string]any, len(row))
	for _, k := range headerOrder(row, columns) {
		n := normalizeHeader(k)
		if prev, dup := byHeader[n]; !dup || isBlank(prev) {
			byHeader[n] = row[k]
		}
	}
	out := make(map[field]any, len(aliases))
	for f, keys := range aliases {
		for _, k := range keys {
			if v, ok := byHeader[k]; ok {
				out[f] = v
				break
			}
		}
	}
	return out
}

// headerOrder lists row's keys: those named in columns first, in that
// order, then any others sorted.
func headerOrder(row Row, columns []string) []string {
	keys := make([]string, 0, len(row))
	seen := make(map[string]bool, len(row))
	for _, c := range columns {
		if _, ok := row[c]; ok && !seen[c] {
			seen[c] = true
			keys = append(keys, c)
		}
	}
	rest := make([]string, 0, len(row)-len(keys))
	for k := range row {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
