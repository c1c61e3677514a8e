package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/market-leases/internal/model"
)

type ExchangeRateService struct {
	repo ExchangeRateStore
}

func NewExchangeRateService(repo ExchangeRateStore) *ExchangeRateService {
	return &ExchangeRateService{repo: repo}
}

type ExchangeRateInput struct {
	RateDate string `form:"rate_date" json:"rate_date"`
	EuroRate string `form:"euro_rate" json:"euro_rate"`
}

func (s *ExchangeRateService) List(ctx context.Context, page model.Page) (model.Paged[model.ExchangeRate], error) {
	rates, total, err := s.repo.List(ctx, page)
	if err != nil {
		return model.Paged[model.ExchangeRate]{}, err
	}
	return model.NewPaged(rates, total, page), nil
}

// Save creates the rate for the given day or replaces the existing one.
func (s *ExchangeRateService) Save(ctx context.Context, input ExchangeRateInput) (*model.ExchangeRate, error) {
	v := &ValidationError{}

	day, ok := parseDate(input.RateDate)
	if !ok {
		v.Add("rate_date", "La fecha de la tasa no es válida.")
	}

	// Accept a decimal comma as typed in es-VE.
	raw := strings.ReplaceAll(strings.TrimSpace(input.EuroRate), ",", ".")
	rate, err := decimal.NewFromString(raw)
	switch {
	case raw == "" || err != nil:
		v.Add("euro_rate", "La tasa del euro debe ser un número válido.")
	case !rate.IsPositive():
		v.Add("euro_rate", "La tasa del euro debe ser mayor que cero.")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, day, rate)
}

func (s *ExchangeRateService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id))
}
