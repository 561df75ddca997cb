package repository

import (
	"context"
	"errors"

	"fraatlas/entities"
)

var (
	ErrNotFound = errors.New("claim not found")
	// ErrDuplicateID is returned by Insert when an id is already stored;
	// nothing from that call is kept.
	ErrDuplicateID = errors.New("claim id already exists")
)

// Filter narrows Select and Stats. Zero values mean "any".
type Filter struct {
	IDs      []string
	Status   entities.ClaimStatus
	State    string
	District string
	Village  string
	Search   string // substring of id or holder name
	Limit    int
	Offset   int
}

type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type Stats struct {
	Total      int64    `json:"total"`
	TotalArea  float64  `json:"totalArea"`
	ByStatus   []Bucket `json:"byStatus"`
	ByState    []Bucket `json:"byState"`
	ByDistrict []Bucket `json:"byDistrict"`
	BySoil     []Bucket `json:"bySoilType"`
	ByWater    []Bucket `json:"byWaterAvailability"`
}

// ClaimRepository is the claims store. Upserts resolve conflicts on id.
type ClaimRepository interface {
	Insert(ctx context.Context, claims []entities.Claim) error
	Select(ctx context.Context, f Filter) ([]entities.Claim, error)
	FindByID(ctx context.Context, id string) (*entities.Claim, error)
	Upsert(ctx context.Context, c *entities.Claim) error
	UpsertBatch(ctx context.Context, claims []entities.Claim) error
	Stats(ctx context.Context, f Filter) (*Stats, error)
}
