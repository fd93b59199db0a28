package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AdjustmentGormRepository struct {
	db *gorm.DB
}

func NewAdjustmentGormRepository(db *gorm.DB) *AdjustmentGormRepository {
	return &AdjustmentGormRepository{db: db}
}

// 台帳へ追記。Changes も一緒にINSERTされる。
func (r *AdjustmentGormRepository) Create(ctx context.Context, adj model.Adjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}

func (r *AdjustmentGormRepository) ListByStore(ctx context.Context, storeID int64, f repo.AdjustmentFilter) ([]model.Adjustment, error) {
	q := r.db.WithContext(ctx).
		Where("store_id = ?", storeID)

	if f.ActorID > 0 {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}

	var adjs []model.Adjustment
	err := q.Preload("Changes").
		Order("created_at DESC").
		Find(&adjs).Error
	if err != nil {
		return nil, err
	}
	return adjs, nil
}

func (r *AdjustmentGormRepository) FindByID(ctx context.Context, storeID int64, id string) (model.Adjustment, error) {
	var adj model.Adjustment
	err := r.db.WithContext(ctx).
		Preload("Changes").
		Where("id = ? AND store_id = ?", id, storeID).
		First(&adj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Adjustment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Adjustment{}, err
	}
	return adj, nil
}
