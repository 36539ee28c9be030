package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// DefaultVariantLabel is used for lines added without a variant.
const DefaultVariantLabel = "Default"

// Line is a priced, named line-item template resolved from the catalog.
type Line struct {
	Name         string
	VariantLabel string
	UnitPrice    float64
	Image        string
}

// Lookup resolves (productID, variantID?) pairs to line templates. The
// cart engine captures the resolved price at add-time; it never
// re-resolves lines already in a cart.
type Lookup interface {
	ResolveLine(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*Line, error)
}

type repoLookup struct {
	products repos.ProductRepo
	log      *logger.Logger
}

func NewLookup(products repos.ProductRepo, baseLog *logger.Logger) Lookup {
	return &repoLookup{products: products, log: baseLog.With("service", "CatalogLookup")}
}

func (l *repoLookup) ResolveLine(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*Line, error) {
	product, err := l.products.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}

	line := &Line{
		Name:         product.Name,
		VariantLabel: DefaultVariantLabel,
		UnitPrice:    product.Price,
		Image:        product.Image,
	}
	if variantID == nil {
		return line, nil
	}
	for _, v := range product.Variants {
		if v.ID == *variantID {
			line.VariantLabel = v.Name
			line.UnitPrice = v.Price
			return line, nil
		}
	}
	return nil, fmt.Errorf("%w: variant %s of product %s", apperr.ErrNotFound, *variantID, productID)
}
