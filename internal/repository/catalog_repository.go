package repository

import (
	"context"

	"app/internal/domain/model"
)

type CatalogRepository interface {
	// 店舗のカタログアイテム一覧
	ListItems(ctx context.Context, storeID int64) ([]model.CatalogItem, error)

	// 店舗のアイテム・セクションを丸ごと入れ替える
	ReplaceForStore(ctx context.Context, storeID int64, items []model.CatalogItem, sections []model.Section) error
}
