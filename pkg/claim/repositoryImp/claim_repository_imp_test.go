package repositoryImp

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fraatlas/entities"
	"fraatlas/pkg/claim/repository"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Claim{}))
	return db
}

func claimAt(id, state, district string, status entities.ClaimStatus, area float64, created time.Time) entities.Claim {
	return entities.Claim{
		ID:                id,
		HolderName:        "Holder " + id,
		Village:           "Village",
		District:          district,
		State:             state,
		Area:              area,
		Status:            status,
		SoilType:          entities.SoilLoamy,
		WaterAvailability: entities.WaterMedium,
		CreatedAt:         created,
	}
}

func seed(t *testing.T, r repository.ClaimRepository) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(context.Background(), []entities.Claim{
		claimAt("FRA-1", "Odisha", "Koraput", entities.StatusApproved, 2, base),
		claimAt("FRA-2", "Odisha", "Rayagada", entities.StatusPending, 3.5, base.Add(time.Hour)),
		claimAt("FRA-3", "Jharkhand", "Ranchi", entities.StatusApproved, 1, base.Add(2*time.Hour)),
	}))
}

func TestFindByID(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)

	c, err := r.FindByID(context.Background(), "FRA-2")
	require.NoError(t, err)
	assert.Equal(t, "Rayagada", c.District)

	_, err = r.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInsertDuplicateID(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)
	ctx := context.Background()

	dup := claimAt("FRA-1", "Kerala", "Wayanad", entities.StatusRejected, 9, time.Now())
	err := r.Insert(ctx, []entities.Claim{claimAt("FRA-9", "Kerala", "Wayanad", entities.StatusPending, 1, time.Now()), dup})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	_, err = r.FindByID(ctx, "FRA-9")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	c, err := r.FindByID(ctx, "FRA-1")
	require.NoError(t, err)
	assert.Equal(t, "Koraput", c.District)

	err = r.Insert(ctx, []entities.Claim{dup})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)
}

func TestSelectOrderAndFilters(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)
	ctx := context.Background()

	all, err := r.Select(ctx, repository.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "FRA-3", all[0].ID, "newest first")

	odisha, err := r.Select(ctx, repository.Filter{State: "odisha"})
	require.NoError(t, err)
	assert.Len(t, odisha, 2)

	approved, err := r.Select(ctx, repository.Filter{Status: entities.StatusApproved, Limit: 1})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "FRA-3", approved[0].ID)

	byIDs, err := r.Select(ctx, repository.Filter{IDs: []string{"FRA-1", "FRA-9"}})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)

	search, err := r.Select(ctx, repository.Filter{Search: "holder fra-2"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "FRA-2", search[0].ID)
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)
	ctx := context.Background()

	before, err := r.FindByID(ctx, "FRA-1")
	require.NoError(t, err)

	c := claimAt("FRA-1", "Odisha", "Koraput", entities.StatusRejected, 9, time.Now().UTC())
	c.HolderName = "Renamed"
	require.NoError(t, r.Upsert(ctx, &c))

	after, err := r.FindByID(ctx, "FRA-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", after.HolderName)
	assert.Equal(t, entities.StatusRejected, after.Status)
	assert.Equal(t, 9.0, after.Area)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	all, err := r.Select(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpsertBatch(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, r.UpsertBatch(ctx, []entities.Claim{
		claimAt("FRA-2", "Odisha", "Rayagada", entities.StatusApproved, 3.5, now),
		claimAt("FRA-4", "Telangana", "Adilabad", entities.StatusPending, 4, now),
	}))

	all, err := r.Select(ctx, repository.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	c, err := r.FindByID(ctx, "FRA-2")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, c.Status)

	assert.NoError(t, r.UpsertBatch(ctx, nil))
}

func TestStats(t *testing.T) {
	r := New(newDB(t))
	seed(t, r)

	st, err := r.Stats(context.Background(), repository.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.Total)
	assert.InDelta(t, 6.5, st.TotalArea, 1e-9)
	require.NotEmpty(t, st.ByStatus)
	assert.Equal(t, repository.Bucket{Label: "Approved", Count: 2}, st.ByStatus[0])
	assert.Equal(t, repository.Bucket{Label: "Odisha", Count: 2}, st.ByState[0])
	assert.Len(t, st.ByDistrict, 3)
	assert.Equal(t, []repository.Bucket{{Label: "Loamy", Count: 3}}, st.BySoil)
	assert.Equal(t, []repository.Bucket{{Label: "Medium", Count: 3}}, st.ByWater)

	empty, err := r.Stats(context.Background(), repository.Filter{State: "Kerala"})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.TotalArea)
	assert.Empty(t, empty.ByStatus)
}
