package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	catalog     repo.CatalogRepository
	stock       repo.StockRepository
	adjustments repo.AdjustmentRepository
}

func (r *txReposGorm) Catalog() repo.CatalogRepository        { return r.catalog }
func (r *txReposGorm) Stock() repo.StockRepository            { return r.stock }
func (r *txReposGorm) Adjustments() repo.AdjustmentRepository { return r.adjustments }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			catalog:     NewCatalogGormRepository(tx),
			stock:       NewStockGormRepository(tx),
			adjustments: NewAdjustmentGormRepository(tx),
		}
		return fn(r)
	})
}
