package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	GetByTitle(ctx context.Context, title string) (*entity.Company, error)
	// ListAll devuelve todas las empresas, incluida la dueña de la plataforma.
	ListAll(ctx context.Context) ([]*entity.Company, error)
}
