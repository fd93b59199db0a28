package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 履歴の絞り込み。ゼロ値は「絞り込まない」。
type AdjustmentFilter struct {
	ActorID int64
	Since   *time.Time
}

type AdjustmentRepository interface {
	// 台帳へ追記（変更行も一緒に保存）
	Create(ctx context.Context, adj model.Adjustment) error

	// 新しい順で履歴を返す
	ListByStore(ctx context.Context, storeID int64, f AdjustmentFilter) ([]model.Adjustment, error)

	// IDで1件。店舗が一致しないときも ErrNotFound。
	FindByID(ctx context.Context, storeID int64, id string) (model.Adjustment, error)
}
