package serviceImp

import (
	"context"

	"go.uber.org/zap"

	"fraatlas/entities"
	"fraatlas/pkg/ai"
	"fraatlas/pkg/analysis/service"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/logger"
)

type analysisSvc struct {
	claims repository.ClaimRepository
	client ai.Client
}

func New(claims repository.ClaimRepository, client ai.Client) service.AnalysisService {
	return &analysisSvc{claims: claims, client: client}
}

// Analyze loads the stored claim so the record reflects its current soil,
// water and status values.
func (s *analysisSvc) Analyze(ctx context.Context, claimID string) (*entities.AnalysisRecord, error) {
	c, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	rec, err := s.client.Analyze(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("analysis served", zap.String("claim_id", claimID), zap.Int("soil_score", rec.SoilHealth.Score))
	return rec, nil
}
