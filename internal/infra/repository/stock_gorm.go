package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

func (r *StockGormRepository) FindRecord(ctx context.Context, storeID int64) (model.StockRecord, error) {
	var rec model.StockRecord
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockRecord{}, err
	}

	var attrs []model.ItemAttribute
	err = r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("item_id").
		Find(&attrs).Error
	if err != nil {
		return model.StockRecord{}, err
	}

	rec.Items = attrs
	return rec, nil
}

// 版ガード付きでスナップショットを置き換える。
// fromVersion が合わなければ ErrConflict（呼び出し側がバッチごと再試行する）。
func (r *StockGormRepository) SaveAttributes(ctx context.Context, storeID int64, fromVersion int64, attrs []model.ItemAttribute) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.StockRecord{}).
		Where("store_id = ? AND version = ?", storeID, fromVersion).
		Update("version", fromVersion+1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if fromVersion != 0 {
			return repo.ErrConflict
		}
		// 初回だけレコード行を作る。同時に作られた場合だけ（重複キー）コンフリクト扱い。
		// それ以外の失敗は永続化エラーとしてそのまま返す（リトライさせない）。
		rec := model.StockRecord{StoreID: storeID, Version: 1}
		if err := db.Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return repo.ErrConflict
			}
			return err
		}
	}

	if err := db.Where("store_id = ?", storeID).Delete(&model.ItemAttribute{}).Error; err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}

	rows := make([]model.ItemAttribute, 0, len(attrs))
	for _, a := range attrs {
		a.StoreID = storeID
		rows = append(rows, a)
	}
	return db.Create(&rows).Error
}
