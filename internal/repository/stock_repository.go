package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 楽観ロックの版が合わなかった（他のバッチが先にコミットした）。
var ErrConflict = errors.New("version conflict")

type StockRepository interface {
	// 在庫スナップショットを取得（レコード行が無ければ ErrNotFound）
	FindRecord(ctx context.Context, storeID int64) (model.StockRecord, error)

	// 在庫スナップショットを丸ごと置き換える。
	// fromVersion が現在の版と一致しないときは ErrConflict。
	// fromVersion == 0 はレコード行の新規作成を意味する。
	SaveAttributes(ctx context.Context, storeID int64, fromVersion int64, attrs []model.ItemAttribute) error
}
