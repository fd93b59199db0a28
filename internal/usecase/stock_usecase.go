package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// コミット後に「店舗が変わった」ことを他クライアントへ知らせる口。
// best-effort。失敗してもコミットは巻き戻さない。
type ChangeNotifier interface {
	StoreChanged(ctx context.Context, storeID int64)
}

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 版コンフリクト時にバッチ全体をやり直す回数
const maxCommitRetries = 3

// 在庫調整エンジン。数量の変更・台帳への追記・通知をまとめて担当する。
type StockUsecase struct {
	tx       repo.TransactionManager
	stock    repo.StockRepository
	adjs     repo.AdjustmentRepository
	notifier ChangeNotifier
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewStockUsecase(
	tx repo.TransactionManager,
	stock repo.StockRepository,
	adjs repo.AdjustmentRepository,
	notifier ChangeNotifier,
	idGen IDGenerator,
	clock Clock,
) *StockUsecase {
	return &StockUsecase{
		tx:       tx,
		stock:    stock,
		adjs:     adjs,
		notifier: notifier,
		idGen:    idGen,
		clock:    clock,
	}
}

// バッチ内の1変更。Op により Delta（offset）か Value（set）を使う。
type StockChangeInput struct {
	ItemID string
	Op     model.ChangeOp
	Delta  int64
	Value  int64
}

// バッチを検証して適用する。
//
//  1. カタログに無いIDが混ざっていたら即 UnknownItemError（何も書かない）
//  2. 新しい数量と台帳の変更行をメモリ上だけで計算する
//  3. マイナスになるアイテムを全部集めて、1件でもあれば
//     InsufficientStockError でバッチごと失敗（部分適用はしない）
//  4. 在庫スナップショットと台帳1件を同一トランザクションで書く
//  5. コミット後に通知（atomicの外）
func (u *StockUsecase) ApplyStockChanges(ctx context.Context, storeID int64, actor model.Actor, changes []StockChangeInput) (model.StockRecord, error) {
	if storeID <= 0 {
		return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if actor.ID <= 0 {
		return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "actor required")
	}
	if len(changes) == 0 {
		return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "changes required")
	}
	for _, ch := range changes {
		if strings.TrimSpace(ch.ItemID) == "" {
			return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "item_id required")
		}
		if ch.Op != model.ChangeOpOffset && ch.Op != model.ChangeOpSet {
			return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "invalid op")
		}
	}

	var out model.StockRecord
	var err error

	//版コンフリクトになるのは同一店舗の同時バッチだけ
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		out, err = u.applyOnce(ctx, storeID, actor, changes)
		if !errors.Is(err, repo.ErrConflict) {
			break
		}
	}
	if err != nil {
		return model.StockRecord{}, err
	}

	//通知はbest-effort（コミットの外）
	u.notifier.StoreChanged(ctx, storeID)

	return out, nil
}

func (u *StockUsecase) applyOnce(ctx context.Context, storeID int64, actor model.Actor, changes []StockChangeInput) (model.StockRecord, error) {
	var out model.StockRecord

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.Catalog().ListItems(ctx, storeID)
		if err != nil {
			return err
		}

		//参照チェック（fail-fast）
		catalog := make(map[string]model.CatalogItem, len(items))
		for _, it := range items {
			catalog[it.ID] = it
		}
		var unknown []string
		for _, ch := range changes {
			if _, ok := catalog[ch.ItemID]; !ok {
				unknown = append(unknown, ch.ItemID)
			}
		}
		if len(unknown) > 0 {
			return &UnknownItemError{ItemIDs: dedupeSorted(unknown)}
		}

		rec, err := r.Stock().FindRecord(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			//まだ一度も同期されていない店舗は空扱い
			rec = model.StockRecord{StoreID: storeID}
		} else if err != nil {
			return err
		}

		//ここから集約チェックが通るまでは読み取りだけ。
		//途中returnしても部分コミットは起きない。
		quantities := make(map[string]int64, len(rec.Items))
		for _, a := range rec.Items {
			quantities[a.ItemID] = a.Quantity
		}

		auditChanges := make([]model.AdjustmentChange, 0, len(changes))
		var shortages []string

		for _, ch := range changes {
			old := quantities[ch.ItemID] //無ければ0から
			var newValue int64
			var delta int64
			switch ch.Op {
			case model.ChangeOpOffset:
				delta = ch.Delta
				newValue = old + ch.Delta
			case model.ChangeOpSet:
				delta = ch.Value - old
				newValue = ch.Value
			}

			if newValue < 0 {
				shortages = append(shortages, shortageMessage(catalog[ch.ItemID], old, old-newValue))
			}

			auditChanges = append(auditChanges, model.AdjustmentChange{
				ItemID:   ch.ItemID,
				Op:       ch.Op,
				Delta:    delta,
				OldValue: old,
				NewValue: newValue,
			})
			quantities[ch.ItemID] = newValue
		}

		//1件でも足りなければバッチ全体を落とす
		if len(shortages) > 0 {
			return &InsufficientStockError{Messages: shortages}
		}

		//既存の並びを保ち、初回のアイテムは後ろに足す
		attrs := make([]model.ItemAttribute, 0, len(quantities))
		seen := make(map[string]bool, len(quantities))
		for _, a := range rec.Items {
			attrs = append(attrs, model.ItemAttribute{StoreID: storeID, ItemID: a.ItemID, Quantity: quantities[a.ItemID]})
			seen[a.ItemID] = true
		}
		for _, ch := range changes {
			if seen[ch.ItemID] {
				continue
			}
			seen[ch.ItemID] = true
			attrs = append(attrs, model.ItemAttribute{StoreID: storeID, ItemID: ch.ItemID, Quantity: quantities[ch.ItemID]})
		}

		if err := r.Stock().SaveAttributes(ctx, storeID, rec.Version, attrs); err != nil {
			return err
		}

		adj := model.Adjustment{
			ID:         u.idGen.NewID(),
			StoreID:    storeID,
			ActorID:    actor.ID,
			ActorEmail: actor.Email,
			CreatedAt:  u.clock.Now(),
			Changes:    auditChanges,
		}
		if err := r.Adjustments().Create(ctx, adj); err != nil {
			return err
		}

		out = model.StockRecord{StoreID: storeID, Version: rec.Version + 1, Items: attrs}
		return nil
	})

	if err != nil {
		return model.StockRecord{}, err
	}
	return out, nil
}

func shortageMessage(it model.CatalogItem, current int64, removing int64) string {
	label := it.Name
	if it.Code != "" {
		label = fmt.Sprintf("%s (%s)", it.Name, it.Code)
	}
	return fmt.Sprintf("%s: %d in stock, attempting to remove %d", label, current, removing)
}

func (u *StockUsecase) GetStock(ctx context.Context, storeID int64) (model.StockRecord, error) {
	if storeID <= 0 {
		return model.StockRecord{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	return u.stock.FindRecord(ctx, storeID)
}

type HistoryFilter struct {
	ActorID int64
	Since   *time.Time
}

// 新しい順。コミット済みの台帳だけが見える。
func (u *StockUsecase) GetAdjustmentHistory(ctx context.Context, storeID int64, f HistoryFilter) ([]model.Adjustment, error) {
	if storeID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	return u.adjs.ListByStore(ctx, storeID, repo.AdjustmentFilter{ActorID: f.ActorID, Since: f.Since})
}

// 所有者チェックは呼び出し側の責務。ActorID を見えるように返す。
func (u *StockUsecase) GetAdjustmentByID(ctx context.Context, storeID int64, id string) (model.Adjustment, error) {
	if storeID <= 0 || strings.TrimSpace(id) == "" {
		return model.Adjustment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return u.adjs.FindByID(ctx, storeID, id)
}
