package service

import (
	"context"
	"io"

	"fraatlas/entities"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/ingest"
)

type ClaimService interface {
	Create(ctx context.Context, c *entities.Claim) (*entities.Claim, error)
	Get(ctx context.Context, id string) (*entities.Claim, error)
	List(ctx context.Context, f repository.Filter) ([]entities.Claim, error)
	Update(ctx context.Context, id string, c *entities.Claim) (*entities.Claim, error)
	Import(ctx context.Context, filename string, r io.Reader) (*ingest.Result, error)
	ExportCSV(ctx context.Context, f repository.Filter, w io.Writer) error
	ExportXLSX(ctx context.Context, f repository.Filter, w io.Writer) error
	Stats(ctx context.Context, f repository.Filter) (*repository.Stats, error)
}
