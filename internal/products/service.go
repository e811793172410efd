package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbstore/storefront-backend/pkg/db"
	"github.com/lbstore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

// Service exposes catalog reads for the storefront and mutations for admins.
type Service interface {
	List(ctx context.Context) []Product
	Catalog(ctx context.Context) *Catalog
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Update(ctx context.Context, id uint, patch Patch) (*Product, error)
	Delete(ctx context.Context, id uint) error
}

type repository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uint, cols map[string]any) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type degradeRecorder interface {
	IncStoreDegraded(resource string)
}

type service struct {
	repo    repository
	logg    *logger.Logger
	metrics degradeRecorder
}

// NewService constructs the catalog service.
func NewService(repo repository, logg *logger.Logger, metrics degradeRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, metrics: metrics}, nil
}

// List never fails: a store error is logged and yields an empty catalog so
// the storefront can still render.
func (s *service) List(ctx context.Context) []Product {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "resource", "products"), "products.list.degraded", err)
		if s.metrics != nil {
			s.metrics.IncStoreDegraded("products")
		}
		return []Product{}
	}
	out := make([]Product, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (s *service) Catalog(ctx context.Context) *Catalog {
	return NewCatalog(s.List(ctx))
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Size = strings.TrimSpace(input.Size)
	input.Color = strings.TrimSpace(input.Color)
	input.Img = strings.TrimSpace(input.Img)

	row := input.toModel()
	if err := validate(row); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, mapWriteError(err, "db: insert product")
	}
	out := FromModel(created)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"product_id": out.ID, "sku": out.SKU}), "products.created")
	return &out, nil
}

func (s *service) Update(ctx context.Context, id uint, patch Patch) (*Product, error) {
	if patch.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	patch.Normalize()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "db: load product")
	}

	patch.Apply(existing)
	if err := validate(existing); err != nil {
		return nil, err
	}

	affected, err := s.repo.Update(ctx, id, patch.Columns())
	if err != nil {
		return nil, mapWriteError(err, "db: update product")
	}
	if affected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
	}

	out := FromModel(existing)
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "products.updated")
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "products.deleted")
	return nil
}

func validate(p *models.Product) error {
	details := map[string]any{}
	if p.Title == "" {
		details["title"] = "required"
	}
	if p.SKU == "" {
		details["sku"] = "required"
	}
	if p.Price < 0 {
		details["price"] = "must be >= 0"
	}
	if p.Stock < 0 {
		details["stock"] = "must be >= 0"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func mapWriteError(err error, step string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sku already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, step)
}
