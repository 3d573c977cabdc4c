package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/cart"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/notify"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/internal/session"
	"github.com/jafarshop/compras/pkg/errors"
)

// CartService keeps one uncommitted cart per UI session and commits them
// to the purchase registry
type CartService struct {
	repos    *repository.Repositories
	sink     notify.Sink
	sessions session.Store
	logger   *zap.Logger

	idleTTL time.Duration
	onEvict func(uuid.UUID)
	now     func() time.Time

	mu      sync.Mutex
	carts   map[uuid.UUID]cart.Cart
	touched map[uuid.UUID]time.Time
}

// CartOption configures a CartService
type CartOption func(*CartService)

// WithSessionStore snapshots every cart change to store and restores
// carts from it on a cache miss
func WithSessionStore(store session.Store) CartOption {
	return func(s *CartService) {
		s.sessions = store
	}
}

// WithIdleTTL evicts carts from memory once they go untouched for ttl.
// onEvict, if non-nil, is called with the id of every evicted cart.
func WithIdleTTL(ttl time.Duration, onEvict func(uuid.UUID)) CartOption {
	return func(s *CartService) {
		s.idleTTL = ttl
		s.onEvict = onEvict
	}
}

// NewCartService creates a new cart service
func NewCartService(repos *repository.Repositories, sink notify.Sink, logger *zap.Logger, opts ...CartOption) *CartService {
	s := &CartService{
		repos:   repos,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
		carts:   make(map[uuid.UUID]cart.Cart),
		touched: make(map[uuid.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a new empty cart session
func (s *CartService) Open(ctx context.Context) cart.Cart {
	c := cart.New(uuid.New())

	s.mu.Lock()
	evicted := s.evictIdle()
	s.put(ctx, c)
	s.mu.Unlock()

	s.evicted(evicted)
	s.logger.Debug("Cart opened", zap.String("cart_id", c.ID.String()))
	return c
}

// Get returns the current state of a cart
func (s *CartService) Get(ctx context.Context, id uuid.UUID) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(ctx, id)
}

// Discard forgets a cart session. A cart being submitted cannot be discarded.
func (s *CartService) Discard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if c.State == cart.StateSubmitting {
		return &errors.ErrSubmissionInProgress{CartID: id.String()}
	}
	s.drop(id)

	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to delete cart snapshot", zap.String("cart_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// lookup finds a cart in memory, then in the session store. The caller
// holds s.mu.
func (s *CartService) lookup(ctx context.Context, id uuid.UUID) (cart.Cart, error) {
	if c, ok := s.carts[id]; ok {
		s.touched[id] = s.now()
		return c, nil
	}
	notFound := &errors.ErrNotFound{Resource: "cart", ID: id.String()}
	if s.sessions == nil {
		return cart.Cart{}, notFound
	}

	c, ok, err := s.sessions.Load(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load cart snapshot", zap.String("cart_id", id.String()), zap.Error(err))
		return cart.Cart{}, notFound
	}
	if !ok {
		return cart.Cart{}, notFound
	}
	// a snapshot taken mid-commit belongs to a submission that died with
	// the previous process
	if c.State == cart.StateSubmitting {
		c = cart.FinishSubmit(c, false)
	}
	s.carts[id] = c
	s.touched[id] = s.now()
	s.logger.Info("Cart restored from session store", zap.String("cart_id", id.String()))
	return c, nil
}

// update applies fn to the stored cart under the lock
func (s *CartService) update(ctx context.Context, id uuid.UUID, fn func(cart.Cart) (cart.Cart, error)) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(ctx, id)
	if err != nil {
		return cart.Cart{}, err
	}
	next, err := fn(c)
	if err != nil {
		return c, err
	}
	s.put(ctx, next)
	return next, nil
}

// put stores c in memory and writes its snapshot through. The caller holds
// s.mu so snapshots of one cart reach the store in the order they were made.
func (s *CartService) put(ctx context.Context, c cart.Cart) {
	s.carts[c.ID] = c
	s.touched[c.ID] = s.now()

	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(ctx, c); err != nil {
		s.logger.Warn("Failed to save cart snapshot", zap.String("cart_id", c.ID.String()), zap.Error(err))
	}
}

func (s *CartService) drop(id uuid.UUID) {
	delete(s.carts, id)
	delete(s.touched, id)
}

// evictIdle drops carts untouched for longer than the idle TTL and returns
// their ids. Carts being submitted are kept. The caller holds s.mu.
func (s *CartService) evictIdle() []uuid.UUID {
	if s.idleTTL <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.idleTTL)

	var evicted []uuid.UUID
	for id, at := range s.touched {
		if !at.Before(cutoff) || s.carts[id].State == cart.StateSubmitting {
			continue
		}
		s.drop(id)
		evicted = append(evicted, id)
	}
	return evicted
}

func (s *CartService) evicted(ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	s.logger.Debug("Evicted idle carts", zap.Int("count", len(ids)))
	if s.onEvict == nil {
		return
	}
	for _, id := range ids {
		s.onEvict(id)
	}
}

// SelectPurchase sets the purchase a cart will be saved against
func (s *CartService) SelectPurchase(ctx context.Context, id uuid.UUID, purchaseID int64) (cart.Cart, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return cart.Cart{}, err
	}

	purchase, err := findPurchase(ctx, s.repos, purchaseID)
	if err != nil {
		return cart.Cart{}, s.fail(ctx, id, "Could not select the purchase", err)
	}

	c, err := s.update(ctx, id, func(c cart.Cart) (cart.Cart, error) {
		return cart.SelectPurchase(c, purchase)
	})
	if err != nil {
		return c, s.fail(ctx, id, "Could not select the purchase", err)
	}
	return c, nil
}

// Clear drops every pending item and the purchase selection
func (s *CartService) Clear(ctx context.Context, id uuid.UUID) (cart.Cart, error) {
	c, err := s.update(ctx, id, cart.Clear)
	if err != nil {
		return c, s.fail(ctx, id, "Could not clear the cart", err)
	}
	return c, nil
}

// AddItem adds quantity units of a catalog product to the cart
func (s *CartService) AddItem(ctx context.Context, id uuid.UUID, productID int64, quantity int) (cart.Cart, domain.LineItem, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return cart.Cart{}, domain.LineItem{}, err
	}
	if quantity < 1 {
		err := &errors.ErrValidation{Field: "quantity", Message: "must be at least 1"}
		return current, domain.LineItem{}, s.fail(ctx, id, "Could not add the product", err)
	}
	if current.Purchase == nil {
		err := &errors.ErrValidation{Field: "purchase", Message: "a purchase must be selected"}
		return current, domain.LineItem{}, s.fail(ctx, id, "Could not add the product", err)
	}

	product, err := findProduct(ctx, s.repos, productID)
	if err != nil {
		return current, domain.LineItem{}, s.fail(ctx, id, "Could not add the product", err)
	}

	var item domain.LineItem
	c, err := s.update(ctx, id, func(c cart.Cart) (cart.Cart, error) {
		next, added, err := cart.AddLineItem(c, product, quantity)
		item = added
		return next, err
	})
	if err != nil {
		return c, domain.LineItem{}, s.fail(ctx, id, "Could not add the product", err)
	}

	// the message describes this addition, not the merged line
	added := domain.LineAmounts(quantity, item.UnitPrice)
	s.sink.Notify(ctx, notify.Notification{
		CartID: id,
		Level:  notify.LevelSuccess,
		Title:  "Product added",
		Message: fmt.Sprintf("%s - Quantity: %d - Total: %s",
			product.Name, quantity, domain.FormatMoney(added.Total)),
	})
	return c, item, nil
}

// RemoveItem removes a line item from the cart; unknown ids are ignored
func (s *CartService) RemoveItem(ctx context.Context, id uuid.UUID, itemID uuid.UUID) (cart.Cart, error) {
	c, err := s.update(ctx, id, func(c cart.Cart) (cart.Cart, error) {
		next, _, err := cart.RemoveLineItem(c, itemID)
		return next, err
	})
	if err != nil {
		return c, s.fail(ctx, id, "Could not remove the product", err)
	}

	s.sink.Notify(ctx, notify.Notification{
		CartID:  id,
		Level:   notify.LevelSuccess,
		Title:   "Product removed",
		Message: "The product was removed from the purchase details",
	})
	return c, nil
}

// Commit persists every line item of the cart one by one and then patches
// the purchase totals. Writes are not atomic: when the i-th item fails the
// items before it stay persisted and the cart keeps its content for a retry.
func (s *CartService) Commit(ctx context.Context, id uuid.UUID) (domain.PurchaseTotals, error) {
	submitting, err := s.update(ctx, id, cart.BeginSubmit)
	if err != nil {
		return domain.PurchaseTotals{}, s.fail(ctx, id, "Could not save the purchase details", err)
	}

	// a started submission runs to the end even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	totals := cart.Totals(submitting)
	purchaseID := submitting.Purchase.ID
	logger := s.logger.With(
		zap.String("cart_id", id.String()),
		zap.Int64("purchase_id", purchaseID),
	)

	if err := s.persist(ctx, submitting, totals, logger); err != nil {
		s.finish(ctx, id, false)
		return domain.PurchaseTotals{}, s.fail(ctx, id, "Could not save the purchase details", err)
	}

	s.finish(ctx, id, true)
	logger.Info("Cart committed",
		zap.Int("items", len(submitting.Items)),
		zap.String("total", totals.Total.StringFixed(2)),
	)
	s.sink.Notify(ctx, notify.Notification{
		CartID:  id,
		Level:   notify.LevelSuccess,
		Title:   "Purchase details saved",
		Message: fmt.Sprintf("Purchase saved. Total: %s", domain.FormatMoney(totals.Total)),
	})
	return totals, nil
}

func (s *CartService) persist(ctx context.Context, c cart.Cart, totals domain.PurchaseTotals, logger *zap.Logger) error {
	for i := range c.Items {
		item := c.Items[i]
		item.PurchaseID = c.Purchase.ID
		if err := s.repos.LineItem.Create(ctx, &item); err != nil {
			logger.Error("Failed to persist line item",
				zap.Int("index", i),
				zap.Int64("product_id", item.Product.ID),
				zap.Error(err),
			)
			return &errors.ErrPersistence{Op: "create line item", Index: i, Err: err}
		}
	}

	if err := s.repos.Purchase.UpdateTotals(ctx, c.Purchase.ID, totals); err != nil {
		logger.Error("Failed to update purchase totals", zap.Error(err))
		return &errors.ErrPersistence{Op: "update purchase totals", Index: -1, Err: err}
	}
	return nil
}

func (s *CartService) finish(ctx context.Context, id uuid.UUID, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[id]; ok {
		s.put(ctx, cart.FinishSubmit(c, success))
	}
}

// fail reports err to the user and returns it unchanged. Nothing is
// reported for a cart that does not exist.
func (s *CartService) fail(ctx context.Context, id uuid.UUID, title string, err error) error {
	var notFound *errors.ErrNotFound
	if errors.As(err, &notFound) && notFound.Resource == "cart" {
		return err
	}
	s.sink.Notify(ctx, notify.Notification{
		CartID:  id,
		Level:   notify.LevelError,
		Title:   title,
		Message: err.Error(),
	})
	return err
}

// findPurchase looks a purchase up in the registry listing
func findPurchase(ctx context.Context, repos *repository.Repositories, id int64) (*domain.Purchase, error) {
	purchases, err := repos.Purchase.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "purchase", ID: strconv.FormatInt(id, 10)}
}

// findProduct looks a product up in the catalog listing
func findProduct(ctx context.Context, repos *repository.Repositories, id int64) (*domain.Product, error) {
	products, err := repos.Product.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: strconv.FormatInt(id, 10)}
}
