package serviceImp

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fraatlas/entities"
	"fraatlas/pkg/ai"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/claim/repositoryImp"
	"fraatlas/pkg/claim/service"
	"fraatlas/pkg/geo"
	"fraatlas/pkg/ingest"
)

func newService(t *testing.T) (service.ClaimService, ai.Cache) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Claim{}))

	cache := ai.NewMemoryCache(time.Minute)
	norm := ingest.NewNormalizer(ingest.PolicyUnknown, zap.NewNop())
	return New(repositoryImp.New(db), norm, cache), cache
}

const sheet = `Claim ID,Patta Holder,Village,District,State,Area (ha),Status,Soil Type,Water,Latitude,Longitude
FRA-101,Sita Munda,Kunti,Khunti,Jharkhand,2,IFR,Laterite,Low,23.07,85.28
FRA-102,,Kunti,Khunti,Jharkhand,1,Pending,Clay,High,23.07,85.28
FRA-103,Ravi Oraon,Bero,Ranchi,Jharkhand,0.5,rejected,gravel,,0,0
`

func TestImportPersistsAcceptedRows(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Import(ctx, "claims.csv", strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.NotEmpty(t, res.BatchID)

	c, err := svc.Get(ctx, "FRA-101")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, c.Status)
	assert.Equal(t, entities.SoilLaterite, c.SoilType)
	assert.InDelta(t, 4.9421, c.Area, 1e-4)

	c, err = svc.Get(ctx, "FRA-103")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRejected, c.Status)
	assert.Equal(t, entities.SoilUnknown, c.SoilType)
	assert.Equal(t, entities.WaterUnknown, c.WaterAvailability)
}

func TestImportIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "claims.csv", strings.NewReader(sheet))
	require.NoError(t, err)
	first, err := svc.Get(ctx, "FRA-101")
	require.NoError(t, err)

	_, err = svc.Import(ctx, "claims.csv", strings.NewReader(sheet))
	require.NoError(t, err)
	again, err := svc.Get(ctx, "FRA-101")
	require.NoError(t, err)

	assert.JSONEq(t, string(first.Geometry), string(again.Geometry))
	all, err := svc.List(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportRejectsUnreadableFile(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Import(context.Background(), "claims.xlsx", strings.NewReader("not a zip"))
	assert.ErrorIs(t, err, ingest.ErrUnreadableFile)

	_, err = svc.Import(context.Background(), "claims.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)

	all, err := svc.List(context.Background(), repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportInvalidatesCachedAnalysis(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	cache.Set(ctx, "FRA-101", &entities.AnalysisRecord{ClaimID: "FRA-101"})
	_, err := svc.Import(ctx, "claims.csv", strings.NewReader(sheet))
	require.NoError(t, err)

	_, ok := cache.Get(ctx, "FRA-101")
	assert.False(t, ok)
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &entities.Claim{ID: "FRA-1"})
	assert.ErrorIs(t, err, service.ErrInvalidClaim)

	_, err = svc.Create(ctx, &entities.Claim{ID: "FRA-1", HolderName: "A", Geometry: datatypes.JSON(`{"type":"Point"}`)})
	assert.ErrorIs(t, err, service.ErrInvalidClaim)

	c, err := svc.Create(ctx, &entities.Claim{ID: " FRA-1 ", HolderName: "Asha", Area: -3, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "FRA-1", c.ID)
	assert.Equal(t, entities.StatusApproved, c.Status)
	assert.Equal(t, entities.SoilUnknown, c.SoilType)
	assert.Zero(t, c.Area)

	p, err := geo.Parse(string(c.Geometry))
	require.NoError(t, err)
	assert.True(t, p.Closed())

	_, err = svc.Create(ctx, &entities.Claim{ID: "FRA-1", HolderName: "Asha"})
	assert.ErrorIs(t, err, service.ErrClaimExists)
}

// lateInsertRepo reports every id as free but fails Insert the way the store
// does when another writer got there first.
type lateInsertRepo struct {
	repository.ClaimRepository
}

func (lateInsertRepo) FindByID(context.Context, string) (*entities.Claim, error) {
	return nil, repository.ErrNotFound
}

func (lateInsertRepo) Insert(context.Context, []entities.Claim) error {
	return repository.ErrDuplicateID
}

func TestCreateConcurrentDuplicateIsConflict(t *testing.T) {
	svc := New(lateInsertRepo{}, ingest.NewNormalizer(ingest.PolicyUnknown, nil), nil)
	_, err := svc.Create(context.Background(), &entities.Claim{ID: "FRA-1", HolderName: "Asha"})
	assert.ErrorIs(t, err, service.ErrClaimExists)
}

func TestUpdateUpserts(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &entities.Claim{ID: "FRA-7", HolderName: "Asha", WaterAvailability: entities.WaterLow})
	require.NoError(t, err)
	cache.Set(ctx, "FRA-7", &entities.AnalysisRecord{ClaimID: "FRA-7"})

	out, err := svc.Update(ctx, "FRA-7", &entities.Claim{ID: "ignored", HolderName: "Asha", WaterAvailability: entities.WaterHigh})
	require.NoError(t, err)
	assert.Equal(t, "FRA-7", out.ID)
	assert.Equal(t, entities.WaterHigh, out.WaterAvailability)

	_, ok := cache.Get(ctx, "FRA-7")
	assert.False(t, ok)

	_, err = svc.Update(ctx, "FRA-8", &entities.Claim{HolderName: "New"})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "FRA-8")
	assert.NoError(t, err)
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "claims.csv", strings.NewReader(sheet))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, repository.Filter{}, &buf))
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)

	other, _ := newService(t)
	res, err := other.Import(ctx, "export.csv", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Accepted)

	orig, err := svc.Get(ctx, "FRA-101")
	require.NoError(t, err)
	back, err := other.Get(ctx, "FRA-101")
	require.NoError(t, err)
	assert.InDelta(t, orig.Area, back.Area, 1e-9)
	assert.JSONEq(t, string(orig.Geometry), string(back.Geometry))
}

func TestExportXLSX(t *testing.T) {
	svc, _ := newService(t)
	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), repository.Filter{}, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
