package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
)

// =====================
// インメモリのFake（ロールバックできるTx付き）
// =====================

type fakeStore struct {
	catalogItems map[int64][]model.CatalogItem
	sections     map[int64][]model.Section
	records      map[int64]model.StockRecord
	adjustments  []model.Adjustment

	// テスト用の故障注入
	conflictsLeft int
	failSave      error
	failReplace   error
	failCreateAdj error

	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		catalogItems: map[int64][]model.CatalogItem{},
		sections:     map[int64][]model.Section{},
		records:      map[int64]model.StockRecord{},
	}
}

func (s *fakeStore) Catalog() repo.CatalogRepository        { return s }
func (s *fakeStore) Stock() repo.StockRepository            { return s }
func (s *fakeStore) Adjustments() repo.AdjustmentRepository { return s }

func (s *fakeStore) ListItems(ctx context.Context, storeID int64) ([]model.CatalogItem, error) {
	return append([]model.CatalogItem(nil), s.catalogItems[storeID]...), nil
}

func (s *fakeStore) ReplaceForStore(ctx context.Context, storeID int64, items []model.CatalogItem, sections []model.Section) error {
	if s.failReplace != nil {
		return s.failReplace
	}
	copied := append([]model.CatalogItem(nil), items...)
	for i := range copied {
		copied[i].StoreID = storeID
	}
	s.catalogItems[storeID] = copied
	s.sections[storeID] = append([]model.Section(nil), sections...)
	return nil
}

func (s *fakeStore) FindRecord(ctx context.Context, storeID int64) (model.StockRecord, error) {
	rec, ok := s.records[storeID]
	if !ok {
		return model.StockRecord{}, repo.ErrNotFound
	}
	rec.Items = append([]model.ItemAttribute(nil), rec.Items...)
	return rec, nil
}

func (s *fakeStore) SaveAttributes(ctx context.Context, storeID int64, fromVersion int64, attrs []model.ItemAttribute) error {
	s.saveCalls++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return repo.ErrConflict
	}
	if s.failSave != nil {
		return s.failSave
	}

	var current int64
	if rec, ok := s.records[storeID]; ok {
		current = rec.Version
	}
	if fromVersion != current {
		return repo.ErrConflict
	}

	s.records[storeID] = model.StockRecord{
		StoreID: storeID,
		Version: current + 1,
		Items:   append([]model.ItemAttribute(nil), attrs...),
	}
	return nil
}

func (s *fakeStore) Create(ctx context.Context, adj model.Adjustment) error {
	if s.failCreateAdj != nil {
		return s.failCreateAdj
	}
	s.adjustments = append(s.adjustments, adj)
	return nil
}

func (s *fakeStore) ListByStore(ctx context.Context, storeID int64, f repo.AdjustmentFilter) ([]model.Adjustment, error) {
	var out []model.Adjustment
	for _, a := range s.adjustments {
		if a.StoreID != storeID {
			continue
		}
		if f.ActorID > 0 && a.ActorID != f.ActorID {
			continue
		}
		if f.Since != nil && a.CreatedAt.Before(*f.Since) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) FindByID(ctx context.Context, storeID int64, id string) (model.Adjustment, error) {
	for _, a := range s.adjustments {
		if a.ID == id && a.StoreID == storeID {
			return a, nil
		}
	}
	return model.Adjustment{}, repo.ErrNotFound
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.catalogItems {
		c.catalogItems[k] = append([]model.CatalogItem(nil), v...)
	}
	for k, v := range s.sections {
		c.sections[k] = append([]model.Section(nil), v...)
	}
	for k, v := range s.records {
		rec := v
		rec.Items = append([]model.ItemAttribute(nil), v.Items...)
		c.records[k] = rec
	}
	c.adjustments = append([]model.Adjustment(nil), s.adjustments...)
	return c
}

func (s *fakeStore) restore(from *fakeStore) {
	s.catalogItems = from.catalogItems
	s.sections = from.sections
	s.records = from.records
	s.adjustments = from.adjustments
}

// エラー時は開始前の状態へ戻す（本物のTxのロールバック相当）
type fakeTxManager struct {
	store *fakeStore
}

func (t *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snap := t.store.clone()
	if err := fn(t.store); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type notifierSpy struct {
	storeIDs []int64
}

func (n *notifierSpy) StoreChanged(ctx context.Context, storeID int64) {
	n.storeIDs = append(n.storeIDs, storeID)
}

type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("adj-%d", g.n)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.Contains(t, err.Error(), substr)
	}
}
