package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fraatlas/entities"
	"fraatlas/pkg/claim/repository"
)

const batchSize = 200

// upsertColumns are overwritten on conflict; created_at keeps the first insert.
var upsertColumns = []string{
	"holder_name", "village", "district", "state", "area", "status", "soil_type",
	"water_availability", "estimated_crop_value", "geometry", "document_name", "updated_at",
}

var onConflictID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns(upsertColumns),
}

type claimRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ClaimRepository { return &claimRepo{db} }

func (r *claimRepo) Insert(ctx context.Context, claims []entities.Claim) error {
	if len(claims) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			CreateInBatches(&claims, batchSize)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < int64(len(claims)) {
			return repository.ErrDuplicateID
		}
		return nil
	})
}

func (r *claimRepo) Select(ctx context.Context, f repository.Filter) ([]entities.Claim, error) {
	var out []entities.Claim
	q := r.scoped(ctx, f).Order("created_at DESC, id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *claimRepo) FindByID(ctx context.Context, id string) (*entities.Claim, error) {
	var c entities.Claim
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *claimRepo) Upsert(ctx context.Context, c *entities.Claim) error {
	return r.db.WithContext(ctx).Clauses(onConflictID).Create(c).Error
}

// UpsertBatch writes all claims in one transaction; a failure leaves the
// store untouched.
func (r *claimRepo) UpsertBatch(ctx context.Context, claims []entities.Claim) error {
	if len(claims) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(onConflictID).CreateInBatches(&claims, batchSize).Error
	})
}

func (r *claimRepo) Stats(ctx context.Context, f repository.Filter) (*repository.Stats, error) {
	st := &repository.Stats{}
	if err := r.scoped(ctx, f).Count(&st.Total).Error; err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}
	if err := r.scoped(ctx, f).Select("COALESCE(SUM(area), 0)").Scan(&st.TotalArea).Error; err != nil {
		return nil, fmt.Errorf("sum area: %w", err)
	}
	groups := []struct {
		col string
		dst *[]repository.Bucket
	}{
		{"status", &st.ByStatus},
		{"state", &st.ByState},
		{"district", &st.ByDistrict},
		{"soil_type", &st.BySoil},
		{"water_availability", &st.ByWater},
	}
	for _, g := range groups {
		var rows []repository.Bucket
		err := r.scoped(ctx, f).
			Select(g.col + " AS label, COUNT(*) AS count").
			Group(g.col).
			Order("count DESC, label ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("group by %s: %w", g.col, err)
		}
		if rows == nil {
			rows = []repository.Bucket{}
		}
		*g.dst = rows
	}
	return st, nil
}

func (r *claimRepo) scoped(ctx context.Context, f repository.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Claim{})
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.State != "" {
		q = q.Where("LOWER(state) = ?", strings.ToLower(f.State))
	}
	if f.District != "" {
		q = q.Where("LOWER(district) = ?", strings.ToLower(f.District))
	}
	if f.Village != "" {
		q = q.Where("LOWER(village) = ?", strings.ToLower(f.Village))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(id) LIKE ? OR LOWER(holder_name) LIKE ?", like, like)
	}
	return q
}
