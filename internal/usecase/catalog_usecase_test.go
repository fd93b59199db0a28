package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newCatalogUsecase(store *fakeStore) (*usecase.CatalogUsecase, *notifierSpy) {
	spy := &notifierSpy{}
	uc := usecase.NewCatalogUsecase(&fakeTxManager{store: store}, spy)
	return uc, spy
}

func TestApplyCatalogUpdate_SyncsStockToNewItemSet(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store,
		model.CatalogItem{ID: "A", Name: "A"},
		model.CatalogItem{ID: "B", Name: "B"},
	)
	seedStock(store,
		model.ItemAttribute{ItemID: "A", Quantity: 4},
		model.ItemAttribute{ItemID: "B", Quantity: 2},
	)
	uc, spy := newCatalogUsecase(store)

	//Aが消えてCが増える
	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "B", Name: "B"}, {ID: "C", Name: "C"}}, nil)
	assert.NoError(t, err)

	//残ったBは据え置き、新規Cは0、消えたAのエントリは無い
	rec, err := store.FindRecord(context.Background(), testStoreID)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{"B": 2, "C": 0}, quantitiesOf(rec))

	assert.Equal(t, []int64{testStoreID}, spy.storeIDs)
}

// 同期後はカタログと在庫のアイテム集合が完全に一致する
func TestApplyCatalogUpdate_StockFollowsCatalogExactly(t *testing.T) {
	store := newFakeStore()
	uc, _ := newCatalogUsecase(store)
	ctx := context.Background()

	err := uc.ApplyCatalogUpdate(ctx, testStoreID,
		[]model.CatalogItem{{ID: "A", Name: "A"}, {ID: "B", Name: "B"}, {ID: "C", Name: "C"}}, nil)
	assert.NoError(t, err)

	rec, err := store.FindRecord(ctx, testStoreID)
	assert.NoError(t, err)

	items, _ := store.ListItems(ctx, testStoreID)
	assert.Len(t, rec.Items, len(items))
	q := quantitiesOf(rec)
	for _, it := range items {
		qty, ok := q[it.ID]
		assert.True(t, ok, "missing stock entry for %s", it.ID)
		assert.Equal(t, int64(0), qty)
	}
}

func TestApplyCatalogUpdate_InvalidReference(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, model.CatalogItem{ID: "A", Name: "A"})
	seedStock(store, model.ItemAttribute{ItemID: "A", Quantity: 4})
	uc, spy := newCatalogUsecase(store)

	sections := []model.Section{{
		ID:   "s1",
		Name: "Shelf",
		Rows: []model.SectionRow{{ItemID: "B", Position: 0}, {ItemID: "ghost", Position: 1}},
	}}

	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "B", Name: "B"}}, sections)

	var ire *usecase.InvalidReferenceError
	assert.ErrorAs(t, err, &ire)
	assert.Equal(t, []string{"ghost"}, ire.ItemIDs)

	//何も書かれていない
	items, _ := store.ListItems(context.Background(), testStoreID)
	assert.Equal(t, []model.CatalogItem{{StoreID: testStoreID, ID: "A", Name: "A"}}, items)
	rec, _ := store.FindRecord(context.Background(), testStoreID)
	assert.Equal(t, map[string]int64{"A": 4}, quantitiesOf(rec))
	assert.Empty(t, spy.storeIDs)
}

func TestApplyCatalogUpdate_DuplicateItemID(t *testing.T) {
	store := newFakeStore()
	uc, _ := newCatalogUsecase(store)

	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "A", Name: "A"}, {ID: "A", Name: "A again"}}, nil)
	assertErrContains(t, err, "duplicate item id")
}

func TestApplyCatalogUpdate_RetriesOnConflict(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, model.CatalogItem{ID: "A", Name: "A"})
	seedStock(store, model.ItemAttribute{ItemID: "A", Quantity: 4})
	store.conflictsLeft = 2
	uc, spy := newCatalogUsecase(store)

	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "A", Name: "A"}, {ID: "B", Name: "B"}}, nil)
	assert.NoError(t, err)

	rec, _ := store.FindRecord(context.Background(), testStoreID)
	assert.Equal(t, map[string]int64{"A": 4, "B": 0}, quantitiesOf(rec))
	assert.Equal(t, []int64{testStoreID}, spy.storeIDs)
}

func TestApplyCatalogUpdate_ConflictAfterRetriesExhausted(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, model.CatalogItem{ID: "A", Name: "A"})
	seedStock(store, model.ItemAttribute{ItemID: "A", Quantity: 4})
	store.conflictsLeft = 3
	uc, spy := newCatalogUsecase(store)

	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "B", Name: "B"}}, nil)
	assert.ErrorIs(t, err, repo.ErrConflict)

	//カタログも在庫も元のまま
	items, _ := store.ListItems(context.Background(), testStoreID)
	assert.Equal(t, []model.CatalogItem{{StoreID: testStoreID, ID: "A", Name: "A"}}, items)
	rec, _ := store.FindRecord(context.Background(), testStoreID)
	assert.Equal(t, map[string]int64{"A": 4}, quantitiesOf(rec))
	assert.Empty(t, spy.storeIDs)
}

// 永続化に失敗したらカタログも在庫も元のまま（片方だけ更新された状態を残さない）
func TestApplyCatalogUpdate_PersistenceFailureLeavesNothingBehind(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store, model.CatalogItem{ID: "A", Name: "A"})
	seedStock(store, model.ItemAttribute{ItemID: "A", Quantity: 4})
	store.failSave = errors.New("connection reset")
	uc, spy := newCatalogUsecase(store)

	err := uc.ApplyCatalogUpdate(context.Background(), testStoreID,
		[]model.CatalogItem{{ID: "B", Name: "B"}}, nil)
	assert.EqualError(t, err, "connection reset")

	items, _ := store.ListItems(context.Background(), testStoreID)
	assert.Equal(t, []model.CatalogItem{{StoreID: testStoreID, ID: "A", Name: "A"}}, items)
	rec, _ := store.FindRecord(context.Background(), testStoreID)
	assert.Equal(t, map[string]int64{"A": 4}, quantitiesOf(rec))
	assert.Empty(t, spy.storeIDs)
}
