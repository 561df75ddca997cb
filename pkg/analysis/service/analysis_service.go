package service

import (
	"context"

	"fraatlas/entities"
)

type AnalysisService interface {
	Analyze(ctx context.Context, claimID string) (*entities.AnalysisRecord, error)
}
