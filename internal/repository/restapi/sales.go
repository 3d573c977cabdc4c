package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/jafarshop/compras/internal/domain"
)

type saleJSON struct {
	ID      int64  `json:"id"`
	Date    date   `json:"date"`
	Product string `json:"product"`
	Total   amount `json:"total"`
	Status  string `json:"status"`
}

type saleRepository struct {
	client *Client
}

func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	var out []saleJSON
	if err := r.client.do(ctx, http.MethodGet, "/sales", resource{name: "sales"}, nil, &out); err != nil {
		return nil, err
	}
	sales := make([]*domain.Sale, len(out))
	for i, s := range out {
		sales[i] = &domain.Sale{
			ID:          s.ID,
			Date:        time.Time(s.Date),
			ProductName: s.Product,
			Total:       s.Total.dec(),
			Status:      s.Status,
		}
	}
	return sales, nil
}
