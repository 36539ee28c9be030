package app

import (
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type Repos struct {
	Product  repos.ProductRepo
	Category repos.CategoryRepo
	Order    repos.OrderRepo
	User     repos.UserRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Product:  repos.NewProductRepo(db, log),
		Category: repos.NewCategoryRepo(db, log),
		Order:    repos.NewOrderRepo(db, log),
		User:     repos.NewUserRepo(db, log),
	}
}
