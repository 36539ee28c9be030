package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// ProductPage is the list envelope: items plus pagination metadata.
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	HasMore  bool              `json:"hasMore"`
}

// ProductUpdate carries the mutable product fields; nil means unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Category    *string
}

type ProductService interface {
	Create(ctx context.Context, row *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter repos.ProductFilter) (*ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, upd ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	db       *gorm.DB
	products repos.ProductRepo
	log      *logger.Logger
}

func NewProductService(db *gorm.DB, products repos.ProductRepo, baseLog *logger.Logger) ProductService {
	return &productService{db: db, products: products, log: baseLog.With("service", "ProductService")}
}

func (s *productService) Create(ctx context.Context, row *domain.Product) (*domain.Product, error) {
	if err := s.products.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	s.log.Info("product created", "product_id", row.ID.String(), "name", row.Name)
	return row, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row, err := s.products.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return row, nil
}

func (s *productService) List(ctx context.Context, filter repos.ProductFilter) (*ProductPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	rows, total, err := s.products.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products: rows,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
		HasMore:  int64(filter.Offset+len(rows)) < total,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, upd ProductUpdate) (*domain.Product, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.Image != nil {
		updates["image"] = *upd.Image
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	affected, err := s.products.UpdateFields(ctx, nil, id, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return s.products.GetByID(ctx, nil, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.products.Delete(ctx, nil, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return nil
}
