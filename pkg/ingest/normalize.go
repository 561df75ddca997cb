// Package ingest turns loosely structured spreadsheet rows into canonical
// claims.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"fraatlas/entities"
	"fraatlas/pkg/geo"
	"fraatlas/pkg/synth"
)

// Row is one spreadsheet row keyed by its raw header text.
type Row map[string]any

// Sheet is a decoded file. Lines[i] is the 1-based data row number of
// Rows[i] in the source: the header is not counted, blank rows are.
type Sheet struct {
	Columns []string
	Rows    []Row
	Lines   []int
}

// CategoryPolicy decides what a row gets when its soil type or water
// availability is missing or unrecognised.
type CategoryPolicy string

const (
	// PolicyUnknown stores "Unknown".
	PolicyUnknown CategoryPolicy = "unknown"
	// PolicyRandom picks uniformly from the known values, seeded by claim id.
	PolicyRandom CategoryPolicy = "random"
)

func ParseCategoryPolicy(s string) (CategoryPolicy, error) {
	switch CategoryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyUnknown:
		return PolicyUnknown, nil
	case PolicyRandom, "randomplausible":
		return PolicyRandom, nil
	}
	return "", fmt.Errorf("unknown category policy %q", s)
}

var (
	errNoID     = errors.New("missing claim identifier")
	errNoHolder = errors.New("missing holder name")
)

// statusCodes maps normalised status cells and FRA right-type codes.
var statusCodes = map[string]entities.ClaimStatus{
	"approved":    entities.StatusApproved,
	"granted":     entities.StatusApproved,
	"titled":      entities.StatusApproved,
	"recognised":  entities.StatusApproved,
	"recognized":  entities.StatusApproved,
	"ifr":         entities.StatusApproved,
	"cr":          entities.StatusApproved,
	"cfr":         entities.StatusApproved,
	"pending":     entities.StatusPending,
	"submitted":   entities.StatusPending,
	"underreview": entities.StatusPending,
	"inprocess":   entities.StatusPending,
	"rejected":    entities.StatusRejected,
	"denied":      entities.StatusRejected,
	"dismissed":   entities.StatusRejected,
}

// MapStatus translates a status cell; anything unmapped is Pending.
func MapStatus(v string) entities.ClaimStatus {
	if s, ok := statusCodes[normalizeHeader(v)]; ok {
		return s
	}
	return entities.StatusPending
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Result struct {
	BatchID  string           `json:"batchId"`
	Total    int              `json:"total"`
	Accepted int              `json:"accepted"`
	Skipped  int              `json:"skipped"`
	Errors   []RowError       `json:"errors"`
	Claims   []entities.Claim `json:"-"`
}

type Normalizer struct {
	policy CategoryPolicy
	log    *zap.Logger
}

func NewNormalizer(policy CategoryPolicy, log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	if policy == "" {
		policy = PolicyUnknown
	}
	return &Normalizer{policy: policy, log: log}
}

// Normalize converts rows that carry no sheet metadata; row numbers are
// positions in rows.
func (n *Normalizer) Normalize(rows []Row) *Result {
	return n.NormalizeSheet(&Sheet{Rows: rows})
}

// NormalizeSheet converts a batch. Bad rows are skipped and reported by
// their source row number; they never fail the batch. When an id repeats
// the later row wins and the earlier one is reported as superseded.
func (n *Normalizer) NormalizeSheet(s *Sheet) *Result {
	res := &Result{BatchID: uuid.NewString(), Total: len(s.Rows), Errors: []RowError{}}
	log := n.log.With(zap.String("batch_id", res.BatchID))

	index := map[string]int{}
	rowOf := make([]int, 0, len(s.Rows))
	for i, row := range s.Rows {
		num := i + 1
		if i < len(s.Lines) {
			num = s.Lines[i]
		}
		c, err := n.normalizeRow(row, s.Columns)
		if err != nil {
			log.Warn("import row skipped", zap.Int("row", num), zap.Error(err))
			res.Errors = append(res.Errors, RowError{Row: num, Reason: err.Error()})
			continue
		}
		if at, dup := index[c.ID]; dup {
			res.Errors = append(res.Errors, RowError{Row: rowOf[at], Reason: fmt.Sprintf("duplicate id %q superseded by row %d", c.ID, num)})
			res.Claims[at] = *c
			rowOf[at] = num
			continue
		}
		index[c.ID] = len(res.Claims)
		res.Claims = append(res.Claims, *c)
		rowOf = append(rowOf, num)
	}
	res.Accepted = len(res.Claims)
	res.Skipped = len(res.Errors)
	log.Info("import normalised", zap.Int("total", res.Total), zap.Int("accepted", res.Accepted), zap.Int("skipped", res.Skipped))
	return res
}

// NormalizeRow maps one row to a claim. Headers that collide after
// normalisation are read in sorted order.
func (n *Normalizer) NormalizeRow(row Row) (*entities.Claim, error) {
	return n.normalizeRow(row, nil)
}

func (n *Normalizer) normalizeRow(row Row, columns []string) (*entities.Claim, error) {
	v := resolve(row, columns)

	c := &entities.Claim{
		ID:         cellString(v[fieldID]),
		HolderName: cellString(v[fieldHolder]),
		Village:    cellString(v[fieldVillage]),
		District:   cellString(v[fieldDistrict]),
		State:      cellString(v[fieldState]),
	}
	if c.ID == "" {
		return nil, errNoID
	}
	if c.HolderName == "" {
		return nil, errNoHolder
	}

	if acres, ok := cellFloat(v[fieldAcres]); ok {
		c.Area = acres
	} else if ha, ok := cellFloat(v[fieldHectares]); ok {
		c.Area = HectaresToAcres(ha)
	}
	if c.Area < 0 {
		c.Area = 0
	}

	c.Status = MapStatus(cellString(v[fieldStatus]))
	c.SoilType = n.soilType(c.ID, cellString(v[fieldSoil]))
	c.WaterAvailability = n.water(c.ID, cellString(v[fieldWater]))

	if val, ok := cellFloat(v[fieldCropValue]); ok && val > 0 {
		c.EstimatedCropValue = int64(math.Round(val))
	}
	if doc := cellString(v[fieldDocument]); doc != "" {
		c.DocumentName = &doc
	}
	if d, ok := cellDate(v[fieldDate]); ok {
		c.CreatedAt = d
	}

	poly, err := n.geometry(c, v)
	if err != nil {
		return nil, err
	}
	c.Geometry = datatypes.JSON(poly.JSON())
	return c, nil
}

func (n *Normalizer) geometry(c *entities.Claim, v map[field]any) (*geo.Polygon, error) {
	if raw := cellString(v[fieldGeometry]); raw != "" {
		p, err := geo.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid geometry: %w", err)
		}
		return p, nil
	}
	lat, okLat := cellFloat(v[fieldLat])
	lng, okLng := cellFloat(v[fieldLng])
	if !okLat || !okLng {
		lat, lng = 0, 0
	}
	return geo.Pentagon(lat, lng, c.Area, synth.ForKey(c.ID+"#geometry").Float64), nil
}

func (n *Normalizer) soilType(id, cell string) entities.SoilType {
	if s, ok := entities.ParseSoilType(cell); ok {
		return s
	}
	if isUnknown(cell) {
		return entities.SoilUnknown
	}
	if n.policy == PolicyRandom {
		return entities.KnownSoilTypes[synth.ForKey(id+"#soil").Pick(len(entities.KnownSoilTypes))]
	}
	return entities.SoilUnknown
}

func (n *Normalizer) water(id, cell string) entities.WaterAvailability {
	if w, ok := entities.ParseWaterAvailability(cell); ok {
		return w
	}
	if isUnknown(cell) {
		return entities.WaterUnknown
	}
	if n.policy == PolicyRandom {
		return entities.KnownWaterLevels[synth.ForKey(id+"#water").Pick(len(entities.KnownWaterLevels))]
	}
	return entities.WaterUnknown
}

// isUnknown reports a cell that explicitly says "Unknown"; it is kept
// rather than handed to the category policy.
func isUnknown(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), string(entities.SoilUnknown))
}
