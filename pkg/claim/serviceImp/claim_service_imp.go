package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"fraatlas/entities"
	"fraatlas/pkg/ai"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/claim/service"
	"fraatlas/pkg/export"
	"fraatlas/pkg/geo"
	"fraatlas/pkg/ingest"
	"fraatlas/pkg/logger"
	"fraatlas/pkg/metrics"
	"fraatlas/pkg/synth"
)

type claimSvc struct {
	repo  repository.ClaimRepository
	norm  *ingest.Normalizer
	cache ai.Cache
}

// New wires the claim service. cache may be nil when analysis caching is off.
func New(repo repository.ClaimRepository, norm *ingest.Normalizer, cache ai.Cache) service.ClaimService {
	return &claimSvc{repo: repo, norm: norm, cache: cache}
}

func (s *claimSvc) Create(ctx context.Context, c *entities.Claim) (*entities.Claim, error) {
	if err := prepare(c); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, []entities.Claim{*c}); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, fmt.Errorf("%w: %s", service.ErrClaimExists, c.ID)
		}
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	logger.FromContext(ctx).Info("claim created", zap.String("claim_id", c.ID))
	return s.repo.FindByID(ctx, c.ID)
}

func (s *claimSvc) Get(ctx context.Context, id string) (*entities.Claim, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *claimSvc) List(ctx context.Context, f repository.Filter) ([]entities.Claim, error) {
	return s.repo.Select(ctx, f)
}

// Update upserts by id; the path id always wins over the body.
func (s *claimSvc) Update(ctx context.Context, id string, c *entities.Claim) (*entities.Claim, error) {
	c.ID = id
	if err := prepare(c); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, fmt.Errorf("upsert claim: %w", err)
	}
	s.invalidate(ctx, c.ID)
	return s.repo.FindByID(ctx, c.ID)
}

// Import reads, normalises and upserts a spreadsheet. An unreadable file or a
// store failure persists nothing; bad rows are skipped and reported.
func (s *claimSvc) Import(ctx context.Context, filename string, r io.Reader) (*ingest.Result, error) {
	log := logger.FromContext(ctx).With(zap.String("file", filename))

	sheet, err := ingest.ReadFile(filename, r)
	if err != nil {
		metrics.ImportBatches.WithLabelValues("unreadable").Inc()
		log.Warn("import rejected", zap.Error(err))
		return nil, err
	}
	res := s.norm.NormalizeSheet(sheet)
	if err := s.repo.UpsertBatch(ctx, res.Claims); err != nil {
		metrics.ImportBatches.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("store batch %s: %w", res.BatchID, err)
	}

	metrics.ImportBatches.WithLabelValues("ok").Inc()
	metrics.ImportRows.WithLabelValues("accepted").Add(float64(res.Accepted))
	metrics.ImportRows.WithLabelValues("skipped").Add(float64(res.Skipped))

	ids := make([]string, len(res.Claims))
	for i := range res.Claims {
		ids[i] = res.Claims[i].ID
	}
	s.invalidate(ctx, ids...)
	log.Info("import stored", zap.String("batch_id", res.BatchID), zap.Int("accepted", res.Accepted), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (s *claimSvc) ExportCSV(ctx context.Context, f repository.Filter, w io.Writer) error {
	claims, err := s.repo.Select(ctx, f)
	if err != nil {
		return fmt.Errorf("select claims: %w", err)
	}
	return export.CSV(w, claims)
}

func (s *claimSvc) ExportXLSX(ctx context.Context, f repository.Filter, w io.Writer) error {
	claims, err := s.repo.Select(ctx, f)
	if err != nil {
		return fmt.Errorf("select claims: %w", err)
	}
	return export.XLSX(w, claims)
}

func (s *claimSvc) Stats(ctx context.Context, f repository.Filter) (*repository.Stats, error) {
	return s.repo.Stats(ctx, f)
}

func (s *claimSvc) invalidate(ctx context.Context, ids ...string) {
	if s.cache != nil && len(ids) > 0 {
		s.cache.Delete(ctx, ids...)
	}
}

// prepare validates a submitted claim and brings its geometry into canonical
// form. A claim without geometry gets the synthetic pentagon an import would
// give it.
func prepare(c *entities.Claim) error {
	c.ID = strings.TrimSpace(c.ID)
	c.HolderName = strings.TrimSpace(c.HolderName)
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", service.ErrInvalidClaim)
	}
	if c.HolderName == "" {
		return fmt.Errorf("%w: holderName is required", service.ErrInvalidClaim)
	}
	if c.EstimatedCropValue < 0 {
		c.EstimatedCropValue = 0
	}
	c.ApplyDefaults()

	raw := strings.TrimSpace(string(c.Geometry))
	if raw == "" || raw == "null" {
		p := geo.Pentagon(0, 0, c.Area, synth.ForKey(c.ID+"#geometry").Float64)
		c.Geometry = datatypes.JSON(p.JSON())
	} else {
		p, err := geo.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: geometry: %v", service.ErrInvalidClaim, err)
		}
		c.Geometry = datatypes.JSON(p.JSON())
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}
