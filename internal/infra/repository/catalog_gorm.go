package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) ListItems(ctx context.Context, storeID int64) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// アイテム・セクション・行を全削除してから入れ直す
func (r *CatalogGormRepository) ReplaceForStore(ctx context.Context, storeID int64, items []model.CatalogItem, sections []model.Section) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("store_id = ?", storeID).Delete(&model.SectionRow{}).Error; err != nil {
		return err
	}
	if err := db.Where("store_id = ?", storeID).Delete(&model.Section{}).Error; err != nil {
		return err
	}
	if err := db.Where("store_id = ?", storeID).Delete(&model.CatalogItem{}).Error; err != nil {
		return err
	}

	if len(items) > 0 {
		rows := make([]model.CatalogItem, 0, len(items))
		for _, it := range items {
			it.StoreID = storeID
			rows = append(rows, it)
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}

	for _, s := range sections {
		sec := model.Section{
			StoreID:  storeID,
			ID:       s.ID,
			Name:     s.Name,
			Position: s.Position,
		}
		if err := db.Create(&sec).Error; err != nil {
			return err
		}
		if len(s.Rows) == 0 {
			continue
		}
		rows := make([]model.SectionRow, 0, len(s.Rows))
		for _, row := range s.Rows {
			row.StoreID = storeID
			row.SectionID = s.ID
			rows = append(rows, row)
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}
