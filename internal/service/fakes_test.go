package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jafarshop/compras/internal/cart"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/notify"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/pkg/errors"
)

type fakeProducts struct {
	mu      sync.Mutex
	items   []*domain.Product
	listErr error
	lists   int
	created []*domain.Product
	updated []*domain.Product
	deleted []int64
}

func (f *fakeProducts) List(context.Context) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.items, f.listErr
}

func (f *fakeProducts) Create(_ context.Context, p *domain.Product) error {
	p.ID = int64(len(f.items) + len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *domain.Product) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCategories struct {
	items []*domain.Category
}

func (f *fakeCategories) List(context.Context) ([]*domain.Category, error) {
	return f.items, nil
}

type fakeSuppliers struct {
	items   []*domain.Supplier
	created []*domain.Supplier
}

func (f *fakeSuppliers) List(context.Context) ([]*domain.Supplier, error) {
	return f.items, nil
}

func (f *fakeSuppliers) Create(_ context.Context, s *domain.Supplier) error {
	s.ID = int64(len(f.items) + len(f.created) + 1)
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSuppliers) Update(context.Context, *domain.Supplier) error { return nil }

func (f *fakeSuppliers) Delete(context.Context, int64) error { return nil }

type totalsPatch struct {
	id     int64
	totals domain.PurchaseTotals
}

type fakePurchases struct {
	items     []*domain.Purchase
	listErr   error
	patchErr  error
	patches   []totalsPatch
	updated   []*domain.Purchase
	createdID int64
}

func (f *fakePurchases) List(context.Context) ([]*domain.Purchase, error) {
	return f.items, f.listErr
}

func (f *fakePurchases) Create(_ context.Context, p *domain.Purchase) error {
	f.createdID++
	p.ID = f.createdID
	f.items = append(f.items, p)
	return nil
}

func (f *fakePurchases) Update(_ context.Context, p *domain.Purchase) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePurchases) UpdateTotals(ctx context.Context, id int64, totals domain.PurchaseTotals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, totalsPatch{id: id, totals: totals})
	return nil
}

// fakeLineItems records creates. failAt makes the create with that
// zero-based call index fail; block, when set, holds every create until closed.
type fakeLineItems struct {
	mu       sync.Mutex
	stored   []*domain.LineItem
	created  []domain.LineItem
	calls    int
	failAt   int
	block    chan struct{}
	entered  chan struct{}
	replaced []*domain.LineItem

	// afterCreate runs after every successful create
	afterCreate func()
}

func newFakeLineItems() *fakeLineItems {
	return &fakeLineItems{failAt: -1}
}

func (f *fakeLineItems) ListByPurchaseID(_ context.Context, purchaseID int64) ([]*domain.LineItem, error) {
	var out []*domain.LineItem
	for _, item := range f.stored {
		if item.PurchaseID == purchaseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeLineItems) Create(ctx context.Context, item *domain.LineItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.calls
	f.calls++
	if call == f.failAt {
		return &errors.ErrPersistence{Op: "create line item", Index: -1, StatusCode: 500, Body: "boom"}
	}
	item.ID = int64(call + 1)
	f.created = append(f.created, *item)
	if f.afterCreate != nil {
		f.afterCreate()
	}
	return nil
}

func (f *fakeLineItems) ReplaceForPurchase(_ context.Context, purchaseID int64, items []*domain.LineItem) error {
	f.replaced = items
	return nil
}

type fakeSales struct {
	items []*domain.Sale
}

func (f *fakeSales) List(context.Context) ([]*domain.Sale, error) {
	return f.items, nil
}

type fakeBackend struct {
	products   *fakeProducts
	categories *fakeCategories
	suppliers  *fakeSuppliers
	purchases  *fakePurchases
	lineItems  *fakeLineItems
	sales      *fakeSales
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products:   &fakeProducts{},
		categories: &fakeCategories{},
		suppliers:  &fakeSuppliers{},
		purchases:  &fakePurchases{},
		lineItems:  newFakeLineItems(),
		sales:      &fakeSales{},
	}
}

func (b *fakeBackend) repositories() *repository.Repositories {
	return &repository.Repositories{
		Product:  b.products,
		Category: b.categories,
		Supplier: b.suppliers,
		Purchase: b.purchases,
		LineItem: b.lineItems,
		Sale:     b.sales,
	}
}

// recordingSink keeps every notification it receives
type recordingSink struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingSink) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingSink) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return notify.Notification{}
	}
	return r.sent[len(r.sent)-1]
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// memSessions is a session.Store held in a map
type memSessions struct {
	mu    sync.Mutex
	carts map[uuid.UUID]cart.Cart
	err   error

	// beforeSave runs ahead of every save, outside the store lock
	beforeSave func(cart.Cart)
}

func newMemSessions() *memSessions {
	return &memSessions{carts: make(map[uuid.UUID]cart.Cart)}
}

func (m *memSessions) Load(_ context.Context, id uuid.UUID) (cart.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return cart.Cart{}, false, m.err
	}
	c, ok := m.carts[id]
	return c, ok, nil
}

func (m *memSessions) Save(_ context.Context, c cart.Cart) error {
	if m.beforeSave != nil {
		m.beforeSave(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[c.ID] = c
	return nil
}

func (m *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.carts, id)
	return nil
}
