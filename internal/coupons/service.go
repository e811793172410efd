package coupons

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbstore/storefront-backend/pkg/db"
	"github.com/lbstore/storefront-backend/pkg/db/models"
	"github.com/lbstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

// Service manages coupons for admins and resolves codes for shoppers.
type Service interface {
	List(ctx context.Context) []Coupon
	ListActive(ctx context.Context) []Coupon
	Lookup(ctx context.Context, code string) (Coupon, error)
	Create(ctx context.Context, input CreateInput) (*Coupon, error)
	Update(ctx context.Context, id uint, patch Patch) (*Coupon, error)
	Toggle(ctx context.Context, id uint) (*Coupon, error)
	Delete(ctx context.Context, id uint) error
}

type repository interface {
	List(ctx context.Context) ([]models.Coupon, error)
	ListActive(ctx context.Context) ([]models.Coupon, error)
	FindByID(ctx context.Context, id uint) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
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

func NewService(repo repository, logg *logger.Logger, metrics degradeRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, metrics: metrics}, nil
}

func (s *service) List(ctx context.Context) []Coupon {
	return s.read(ctx, "coupons.list.degraded", s.repo.List)
}

func (s *service) ListActive(ctx context.Context) []Coupon {
	return s.read(ctx, "coupons.list_active.degraded", s.repo.ListActive)
}

func (s *service) read(ctx context.Context, event string, fetch func(context.Context) ([]models.Coupon, error)) []Coupon {
	rows, err := fetch(ctx)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "resource", "coupons"), event, err)
		if s.metrics != nil {
			s.metrics.IncStoreDegraded("coupons")
		}
		return []Coupon{}
	}
	out := make([]Coupon, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// Lookup applies code against the currently active coupons. An unreachable
// store leaves nothing to match, so the code is reported invalid.
func (s *service) Lookup(ctx context.Context, code string) (Coupon, error) {
	return Apply(code, s.ListActive(ctx))
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Coupon, error) {
	row := &models.Coupon{
		Code:        NormalizeCode(input.Code),
		Value:       input.Value,
		Active:      true,
		Description: normalizeDescription(input.Description),
	}
	if input.Active != nil {
		row.Active = *input.Active
	}
	kind, err := enums.ParseCouponKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon").
			WithDetails(map[string]any{"kind": "must be fixed or percentage"})
	}
	row.Kind = kind

	if err := validate(row); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, mapWriteError(err, "db: insert coupon")
	}
	out := FromModel(created)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"coupon_id": out.ID, "code": out.Code}), "coupons.created")
	return &out, nil
}

func (s *service) Update(ctx context.Context, id uint, patch Patch) (*Coupon, error) {
	if patch.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if patch.Code != nil {
		code := NormalizeCode(*patch.Code)
		patch.Code = &code
	}
	if patch.Kind != nil {
		kind, err := enums.ParseCouponKind(*patch.Kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon").
				WithDetails(map[string]any{"kind": "must be fixed or percentage"})
		}
		k := kind.String()
		patch.Kind = &k
	}
	patch.Description = normalizeDescription(patch.Description)

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(existing)
	if err := validate(existing); err != nil {
		return nil, err
	}
	return s.write(ctx, id, existing, patch.columns(), "coupons.updated")
}

// Toggle flips the active flag without touching anything else.
func (s *service) Toggle(ctx context.Context, id uint) (*Coupon, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Active = !existing.Active
	return s.write(ctx, id, existing, map[string]any{"active": existing.Active}, "coupons.toggled")
}

func (s *service) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "db: delete coupon")
	}
	if affected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "coupon %d not found", id)
	}
	s.logg.Info(s.logg.WithField(ctx, "coupon_id", id), "coupons.deleted")
	return nil
}

func (s *service) load(ctx context.Context, id uint) (*models.Coupon, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "coupon %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "db: load coupon")
	}
	return row, nil
}

func (s *service) write(ctx context.Context, id uint, row *models.Coupon, cols map[string]any, event string) (*Coupon, error) {
	affected, err := s.repo.Update(ctx, id, cols)
	if err != nil {
		return nil, mapWriteError(err, "db: update coupon")
	}
	if affected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "coupon %d not found", id)
	}
	out := FromModel(row)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"coupon_id": id, "active": out.Active}), event)
	return &out, nil
}

func validate(c *models.Coupon) error {
	details := map[string]any{}
	switch {
	case c.Code == "":
		details["code"] = "required"
	case len(c.Code) > maxCodeLen:
		details["code"] = fmt.Sprintf("must be at most %d characters", maxCodeLen)
	}
	if c.Value < 0 {
		details["value"] = "must be >= 0"
	}
	if c.Kind == enums.CouponKindPercentage && c.Value > MaxPercentageValue {
		details["value"] = "percentage cannot exceed 10000 (100.00%)"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon").WithDetails(details)
	}
	return nil
}

func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	return &trimmed
}

func mapWriteError(err error, step string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "coupon code already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, step)
}
