package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
)

// === インメモリのトランザクショナルストア ===
//
// 書き込みはトランザクションにバッファされ、Commit 時にのみ反映される。
// fail* フィールドで保存時の障害を注入できる。

type memStore struct {
	mu            sync.Mutex
	championships map[string]*championship.Championship
	shows         map[string]*show.Show

	failChampionshipUpdate error
	failShowUpdate         error
	failCommit             error

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		championships: make(map[string]*championship.Championship),
		shows:         make(map[string]*show.Show),
	}
}

type memTx struct {
	store         *memStore
	championships map[string]*championship.Championship
	shows         map[string]*show.Show
	deleted       map[string]bool
	finished      bool
}

func (s *memStore) Begin(ctx context.Context) (transaction.Tx, error) {
	return &memTx{
		store:         s,
		championships: make(map[string]*championship.Championship),
		shows:         make(map[string]*show.Show),
		deleted:       make(map[string]bool),
	}, nil
}

func (t *memTx) Commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCommit != nil {
		return s.failCommit
	}
	// UPDATE ... WHERE version = $n と同じく、他のトランザクションが先に反映していれば失敗させる
	for id, c := range t.championships {
		if cur, ok := s.championships[id]; ok && cur.Version != c.Version-1 {
			return championship.ErrOptimisticLockConflict
		}
	}
	for id, sh := range t.shows {
		if cur, ok := s.shows[id]; ok && cur.Version != sh.Version-1 {
			return show.ErrOptimisticLockConflict
		}
	}
	for id, c := range t.championships {
		s.championships[id] = c
	}
	for id, sh := range t.shows {
		s.shows[id] = sh
	}
	for id := range t.deleted {
		delete(s.championships, id)
		delete(s.shows, id)
	}
	t.finished = true
	s.commits++
	return nil
}

func (t *memTx) Rollback() error {
	if t.finished {
		return nil
	}
	t.store.mu.Lock()
	t.store.rollbacks++
	t.store.mu.Unlock()
	t.finished = true
	return nil
}

// putChampionship はテストの前提データを直接書き込む
func (s *memStore) putChampionship(c *championship.Championship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.championships[c.ID] = c.Clone()
}

func (s *memStore) putShow(sh *show.Show) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shows[sh.ID] = sh.Clone()
}

func (s *memStore) championship(id string) *championship.Championship {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.championships[id]
	if !ok {
		return nil
	}
	return c.Clone()
}

func (s *memStore) show(id string) *show.Show {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shows[id]
	if !ok {
		return nil
	}
	return sh.Clone()
}

type memChampionshipRepo struct{ s *memStore }

func (r memChampionshipRepo) Create(ctx context.Context, c *championship.Championship) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.s.putChampionship(c)
	return nil
}

func (r memChampionshipRepo) GetByID(ctx context.Context, id string) (*championship.Championship, error) {
	if c := r.s.championship(id); c != nil {
		return c, nil
	}
	return nil, championship.ErrChampionshipNotFound
}

func (r memChampionshipRepo) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*championship.Championship, error) {
	mt := tx.(*memTx)
	if mt.deleted[id] {
		return nil, championship.ErrChampionshipNotFound
	}
	if c, ok := mt.championships[id]; ok {
		return c.Clone(), nil
	}
	return r.GetByID(ctx, id)
}

func (r memChampionshipRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*championship.Championship, error) {
	r.s.mu.Lock()
	var list []*championship.Championship
	for _, c := range r.s.championships {
		if c.CompanyID == companyID {
			list = append(list, c.Clone())
		}
	}
	r.s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r memChampionshipRepo) Update(ctx context.Context, tx transaction.Tx, c *championship.Championship) error {
	mt := tx.(*memTx)
	r.s.mu.Lock()
	fail := r.s.failChampionshipUpdate
	committed, ok := r.s.championships[c.ID]
	r.s.mu.Unlock()
	if fail != nil {
		return fail
	}
	if !ok {
		return championship.ErrChampionshipNotFound
	}
	current := committed.Version
	if pending, ok := mt.championships[c.ID]; ok {
		current = pending.Version
	}
	if current != c.Version {
		return championship.ErrOptimisticLockConflict
	}
	c.Version++
	mt.championships[c.ID] = c.Clone()
	return nil
}

func (r memChampionshipRepo) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	if _, err := r.GetByIDForUpdate(ctx, tx, id); err != nil {
		return err
	}
	tx.(*memTx).deleted[id] = true
	return nil
}

type memShowRepo struct{ s *memStore }

func (r memShowRepo) Create(ctx context.Context, sh *show.Show) error {
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	r.s.putShow(sh)
	return nil
}

func (r memShowRepo) GetByID(ctx context.Context, id string) (*show.Show, error) {
	if sh := r.s.show(id); sh != nil {
		return sh, nil
	}
	return nil, show.ErrShowNotFound
}

func (r memShowRepo) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*show.Show, error) {
	mt := tx.(*memTx)
	if mt.deleted[id] {
		return nil, show.ErrShowNotFound
	}
	if sh, ok := mt.shows[id]; ok {
		return sh.Clone(), nil
	}
	return r.GetByID(ctx, id)
}

func (r memShowRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*show.Show, error) {
	r.s.mu.Lock()
	var list []*show.Show
	for _, sh := range r.s.shows {
		if sh.CompanyID == companyID {
			list = append(list, sh.Clone())
		}
	}
	r.s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return page(list, limit, offset), nil
}

func (r memShowRepo) ListOverdue(ctx context.Context, before time.Time, limit int) ([]*show.Show, error) {
	r.s.mu.Lock()
	var list []*show.Show
	for _, sh := range r.s.shows {
		if (sh.Status == show.StatusDraft || sh.Status == show.StatusScheduled) && sh.Date.Before(before) {
			list = append(list, sh.Clone())
		}
	}
	r.s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return page(list, limit, 0), nil
}

func (r memShowRepo) Update(ctx context.Context, tx transaction.Tx, sh *show.Show) error {
	mt := tx.(*memTx)
	r.s.mu.Lock()
	fail := r.s.failShowUpdate
	committed, ok := r.s.shows[sh.ID]
	r.s.mu.Unlock()
	if fail != nil {
		return fail
	}
	if !ok {
		return show.ErrShowNotFound
	}
	current := committed.Version
	if pending, ok := mt.shows[sh.ID]; ok {
		current = pending.Version
	}
	if current != sh.Version {
		return show.ErrOptimisticLockConflict
	}
	sh.Version++
	mt.shows[sh.ID] = sh.Clone()
	return nil
}

func (r memShowRepo) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	if _, err := r.GetByIDForUpdate(ctx, tx, id); err != nil {
		return err
	}
	tx.(*memTx).deleted[id] = true
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

var (
	_ championship.Repository = memChampionshipRepo{}
	_ show.Repository         = memShowRepo{}
	_ transaction.Manager     = (*memStore)(nil)
)

// === 団体・選手・会場 ===

type fakeDirectory struct {
	companies map[string]*roster.Company
	venues    map[string]*roster.Venue
	wrestlers map[string][]*roster.Wrestler
}

func (d *fakeDirectory) GetCompany(ctx context.Context, id string) (*roster.Company, error) {
	if c, ok := d.companies[id]; ok {
		return c, nil
	}
	return nil, roster.ErrCompanyNotFound
}

func (d *fakeDirectory) GetVenue(ctx context.Context, id string) (*roster.Venue, error) {
	if v, ok := d.venues[id]; ok {
		return v, nil
	}
	return nil, roster.ErrVenueNotFound
}

func (d *fakeDirectory) ListRoster(ctx context.Context, companyID string) ([]*roster.Wrestler, error) {
	return d.wrestlers[companyID], nil
}

// === ロック ===

// mutexLocker はキーごとの sync.Mutex によるロック（取得したキーを記録する）
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
}

func newMutexLocker() *mutexLocker {
	return &mutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *mutexLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

func (l *mutexLocker) acquired() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...)
}

// === モック ===

// MockChampionshipCache implements ChampionshipCache
type MockChampionshipCache struct {
	mock.Mock
}

func (m *MockChampionshipCache) Get(ctx context.Context, id string) (*championship.Championship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*championship.Championship), args.Error(1)
}

func (m *MockChampionshipCache) Set(ctx context.Context, c *championship.Championship) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChampionshipCache) Invalidate(ctx context.Context, ids ...string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockProfitNotifier implements roster.ProfitNotifier
type MockProfitNotifier struct {
	mock.Mock
}

func (m *MockProfitNotifier) ApplyProfit(ctx context.Context, event roster.ProfitApplied) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockLocker implements Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
