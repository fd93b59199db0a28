package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// カタログ入れ替えと在庫の同期。カタログと在庫スナップショットの
// アイテム集合がずれた状態は絶対に見せない。
type CatalogUsecase struct {
	tx       repo.TransactionManager
	notifier ChangeNotifier
}

// DI
func NewCatalogUsecase(tx repo.TransactionManager, notifier ChangeNotifier) *CatalogUsecase {
	return &CatalogUsecase{tx: tx, notifier: notifier}
}

// カタログを丸ごと入れ替えて在庫を追従させる。
// 残ったアイテムは数量据え置き、新規は0、消えたアイテムの在庫エントリは落とす
// （数量の履歴は台帳に残る。ライブの在庫からは消える）。
func (u *CatalogUsecase) ApplyCatalogUpdate(ctx context.Context, storeID int64, items []model.CatalogItem, sections []model.Section) error {
	if storeID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid store id")
	}

	ids := make(map[string]bool, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return NewHTTPError(http.StatusBadRequest, "item id required")
		}
		if ids[it.ID] {
			return NewHTTPError(http.StatusBadRequest, "duplicate item id: "+it.ID)
		}
		ids[it.ID] = true
	}

	//行の参照先チェック。ここで落ちたら何も書かない。
	var bad []string
	for _, s := range sections {
		for _, row := range s.Rows {
			if !ids[row.ItemID] {
				bad = append(bad, row.ItemID)
			}
		}
	}
	if len(bad) > 0 {
		return &InvalidReferenceError{ItemIDs: dedupeSorted(bad)}
	}

	var err error
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		err = u.applyOnce(ctx, storeID, items, sections)
		if !errors.Is(err, repo.ErrConflict) {
			break
		}
	}
	if err != nil {
		return err
	}

	u.notifier.StoreChanged(ctx, storeID)
	return nil
}

func (u *CatalogUsecase) applyOnce(ctx context.Context, storeID int64, items []model.CatalogItem, sections []model.Section) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Catalog().ReplaceForStore(ctx, storeID, items, sections); err != nil {
			return err
		}

		rec, err := r.Stock().FindRecord(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			rec = model.StockRecord{StoreID: storeID}
		} else if err != nil {
			return err
		}

		old := make(map[string]int64, len(rec.Items))
		for _, a := range rec.Items {
			old[a.ItemID] = a.Quantity
		}

		//新カタログのアイテムと1対1になるように作り直す
		attrs := make([]model.ItemAttribute, 0, len(items))
		for _, it := range items {
			attrs = append(attrs, model.ItemAttribute{
				StoreID:  storeID,
				ItemID:   it.ID,
				Quantity: old[it.ID],
			})
		}

		return r.Stock().SaveAttributes(ctx, storeID, rec.Version, attrs)
	})
}
