package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nurpe/market-leases/internal/model"
)

// CategoryService manages the internal and external business-category catalogs.
type CategoryService struct {
	repo CategoryStore
}

func NewCategoryService(repo CategoryStore) *CategoryService {
	return &CategoryService{repo: repo}
}

type CategoryInput struct {
	Name             string `form:"name" json:"name"`
	InstallationType string `form:"installation_type" json:"installation_type"`
	PaymentCount     string `form:"payment_count" json:"payment_count"`
}

func CategoryInputFrom(item *model.CategoryItem) CategoryInput {
	return CategoryInput{
		Name:             item.Name,
		InstallationType: item.InstallationType,
		PaymentCount:     strconv.Itoa(item.PaymentCount),
	}
}

func KindLabel(kind model.CategoryKind) string {
	if kind == model.CategoryExternal {
		return "externa"
	}
	return "interna"
}

func (s *CategoryService) List(ctx context.Context, kind model.CategoryKind, search string, page model.Page) (model.Paged[model.CategoryItem], error) {
	items, total, err := s.repo.List(ctx, kind, search, page)
	if err != nil {
		return model.Paged[model.CategoryItem]{}, err
	}
	return model.NewPaged(items, total, page), nil
}

func (s *CategoryService) ListAll(ctx context.Context, kind model.CategoryKind) ([]model.CategoryItem, error) {
	return s.repo.ListAll(ctx, kind)
}

func (s *CategoryService) Get(ctx context.Context, kind model.CategoryKind, id int64) (*model.CategoryItem, error) {
	item, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *CategoryService) Create(ctx context.Context, kind model.CategoryKind, input CategoryInput) (*model.CategoryItem, error) {
	item, err := s.validate(ctx, kind, input, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CategoryService) Update(ctx context.Context, kind model.CategoryKind, id int64, input CategoryInput) (*model.CategoryItem, error) {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	item, err := s.validate(ctx, kind, input, id)
	if err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *CategoryService) Delete(ctx context.Context, kind model.CategoryKind, id int64) error {
	item, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountContractReferences(ctx, kind, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict(fmt.Sprintf(
			"No se puede eliminar la categoría %q porque está asociada a %d contrato(s).", item.Name, count))
	}
	return notFound(s.repo.Delete(ctx, kind, id))
}

func (s *CategoryService) validate(ctx context.Context, kind model.CategoryKind, input CategoryInput, excludeID int64) (*model.CategoryItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown category kind %q", ErrInvalidInput, kind)
	}
	v := &ValidationError{}
	item := &model.CategoryItem{
		Kind: kind,
		Name: strings.TrimSpace(input.Name),
	}

	switch n := utf8.RuneCountInString(item.Name); {
	case n == 0:
		v.Add("name", "El nombre de la categoría es requerido.")
	case n > 100:
		v.Add("name", "El nombre de la categoría no puede exceder 100 caracteres.")
	default:
		exists, err := s.repo.NameExists(ctx, kind, item.Name, excludeID)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("name", fmt.Sprintf("Ya existe una categoría %s con el nombre %q.", KindLabel(kind), item.Name))
		}
	}

	rawCount := strings.TrimSpace(input.PaymentCount)
	if rawCount == "" {
		rawCount = "0"
	}
	count, err := strconv.Atoi(rawCount)
	switch {
	case err != nil || count < 0:
		v.Add("payment_count", "La cantidad de pagos debe ser un número entero mayor o igual a cero.")
	case count > math.MaxInt32:
		v.Add("payment_count", fmt.Sprintf("La cantidad de pagos no puede exceder %d.", math.MaxInt32))
	}
	item.PaymentCount = count

	if kind == model.CategoryExternal {
		item.InstallationType = strings.TrimSpace(input.InstallationType)
		if utf8.RuneCountInString(item.InstallationType) > 255 {
			v.Add("installation_type", "El tipo de instalación no puede exceder 255 caracteres.")
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return item, nil
}
