package services

import (
	"context"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

// PageSize is the fixed number of products per catalog page.
const PageSize = 20

// CatalogBackend is the part of the marketplace API the catalog needs.
type CatalogBackend interface {
	ListProducts(ctx context.Context, limit, offset int) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error)
}

// CatalogPage is one page of products with its navigation state.
type CatalogPage struct {
	Items    []models.Product `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    *int             `json:"total,omitempty"`
	HasPrev  bool             `json:"has_prev"`
	HasNext  bool             `json:"has_next"`
	Pages    []int            `json:"pages"`
}

// CatalogService handles product browsing.
type CatalogService struct {
	backend CatalogBackend
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(backend CatalogBackend) *CatalogService {
	return &CatalogService{
		backend: backend,
	}
}

// ListProducts returns the zero-based page of the catalog. Without a total
// from the backend, a full page is taken to mean there is a next one.
func (s *CatalogService) ListProducts(ctx context.Context, page int) (*CatalogPage, error) {
	if page < 0 {
		return nil, apperr.Validation("page", "page must not be negative")
	}
	offset := page * PageSize
	result, err := s.backend.ListProducts(ctx, PageSize, offset)
	if err != nil {
		return nil, err
	}

	items := result.Items
	if items == nil {
		items = []models.Product{}
	}
	hasNext := len(items) == PageSize
	last := page
	if hasNext {
		last = page + 2
	}
	if result.Total != nil {
		hasNext = offset+len(items) < *result.Total
		last = lastPage(*result.Total)
	}

	return &CatalogPage{
		Items:    items,
		Page:     page,
		PageSize: PageSize,
		Total:    result.Total,
		HasPrev:  page > 0,
		HasNext:  hasNext,
		Pages:    NearbyPages(page, last),
	}, nil
}

// GetProduct returns a product and its supplier offers.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	if id <= 0 {
		return nil, apperr.Validation("id", "product id must be positive")
	}
	detail, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Offers == nil {
		detail.Offers = []models.SupplierOffer{}
	}
	return detail, nil
}

// NearbyPages lists page numbers from page-2 to page+2, never below zero and
// never past last. The current page is always listed.
func NearbyPages(page, last int) []int {
	pages := []int{}
	start := page - 2
	if start < 0 {
		start = 0
	}
	end := page + 2
	if end > last {
		end = last
	}
	if end < page {
		end = page
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

func lastPage(total int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / PageSize
}
