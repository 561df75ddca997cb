// pkg/ai/client.go

package ai

import (
	"context"

	"fraatlas/entities"
)

// Client produces the analysis panels for a claim. The only implementation
// shipped is the deterministic synthetic generator; caching wraps it.
type Client interface {
	Analyze(ctx context.Context, c *entities.Claim) (*entities.AnalysisRecord, error)
}
