package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/repository"
)

// DashboardStats summarises sales, stock and purchases
type DashboardStats struct {
	TotalSales      decimal.Decimal
	TotalStock      int
	TotalPurchases  decimal.Decimal
	EstimatedProfit decimal.Decimal
}

// DashboardService computes the overview screen figures
type DashboardService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repos *repository.Repositories, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repos:  repos,
		logger: logger,
	}
}

// Stats fetches sales, products and purchases concurrently and aggregates them
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		sales     []*domain.Sale
		products  []*domain.Product
		purchases []*domain.Purchase
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = s.repos.Sale.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.repos.Product.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		purchases, err = s.repos.Purchase.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load dashboard stats", zap.Error(err))
		return nil, err
	}

	stats := &DashboardStats{}
	for _, sale := range sales {
		stats.TotalSales = stats.TotalSales.Add(sale.Total)
	}
	for _, p := range products {
		stats.TotalStock += p.Stock
	}
	for _, p := range purchases {
		stats.TotalPurchases = stats.TotalPurchases.Add(p.Total)
	}
	stats.EstimatedProfit = stats.TotalSales.Sub(stats.TotalPurchases)
	return stats, nil
}

// RecentTransactions merges sales and purchases into one feed, newest first.
// A limit of zero or less returns the whole feed.
func (s *DashboardService) RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	var (
		sales     []*domain.Sale
		purchases []*domain.Purchase
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = s.repos.Sale.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		purchases, err = s.repos.Purchase.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load recent transactions", zap.Error(err))
		return nil, err
	}

	feed := make([]domain.Transaction, 0, len(sales)+len(purchases))
	for _, sale := range sales {
		feed = append(feed, domain.Transaction{
			Type:        domain.TransactionSale,
			ID:          sale.ID,
			Date:        sale.Date,
			Description: sale.ProductName,
			Total:       sale.Total,
			Status:      sale.Status,
		})
	}
	for _, p := range purchases {
		feed = append(feed, domain.Transaction{
			Type:        domain.TransactionPurchase,
			ID:          p.ID,
			Date:        p.Date,
			Description: "Compra " + p.InvoiceNumber,
			Total:       p.Total,
			Status:      p.Status.String(),
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
