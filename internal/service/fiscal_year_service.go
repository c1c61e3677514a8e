package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nurpe/market-leases/internal/model"
)

const (
	minFiscalYear     = 2020
	maxFiscalYear     = 2050
	minFiscalYearDays = 360
	maxFiscalYearDays = 370
)

var fourDigits = regexp.MustCompile(`^\d{4}$`)

type FiscalYearService struct {
	repo FiscalYearStore
}

func NewFiscalYearService(repo FiscalYearStore) *FiscalYearService {
	return &FiscalYearService{repo: repo}
}

// FiscalYearInput holds the submitted form values as typed by the user.
type FiscalYearInput struct {
	Year      string `form:"year" json:"year"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
	Status    string `form:"status" json:"status"`
}

func FiscalYearInputFrom(year *model.FiscalYear) FiscalYearInput {
	return FiscalYearInput{
		Year:      strconv.Itoa(year.Year),
		StartDate: year.StartDate.Format(dateLayout),
		EndDate:   year.EndDate.Format(dateLayout),
		Status:    string(year.Status),
	}
}

func (s *FiscalYearService) List(ctx context.Context, page model.Page) (model.Paged[model.FiscalYear], error) {
	years, total, err := s.repo.List(ctx, page)
	if err != nil {
		return model.Paged[model.FiscalYear]{}, err
	}
	return model.NewPaged(years, total, page), nil
}

func (s *FiscalYearService) ListAll(ctx context.Context) ([]model.FiscalYear, error) {
	return s.repo.ListAll(ctx)
}

func (s *FiscalYearService) Get(ctx context.Context, id int64) (*model.FiscalYear, error) {
	year, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return year, nil
}

func (s *FiscalYearService) Create(ctx context.Context, input FiscalYearInput) (*model.FiscalYear, error) {
	year, err := s.validate(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *FiscalYearService) Update(ctx context.Context, id int64, input FiscalYearInput) (*model.FiscalYear, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	year, err := s.validate(ctx, input, id)
	if err != nil {
		return nil, err
	}
	year.ID = existing.ID
	year.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}

// Delete refuses while any contract still references the fiscal year.
func (s *FiscalYearService) Delete(ctx context.Context, id int64) error {
	year, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountContracts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict(fmt.Sprintf(
			"No se puede eliminar el año fiscal %d porque tiene %d contrato(s) asociado(s).", year.Year, count))
	}
	return notFound(s.repo.Delete(ctx, id))
}

func (s *FiscalYearService) validate(ctx context.Context, input FiscalYearInput, excludeID int64) (*model.FiscalYear, error) {
	v := &ValidationError{}
	result := &model.FiscalYear{}

	rawYear := strings.TrimSpace(input.Year)
	switch {
	case rawYear == "":
		v.Add("year", "El año es requerido.")
	case !fourDigits.MatchString(rawYear):
		v.Add("year", "El año debe ser un número de 4 dígitos.")
	default:
		year, _ := strconv.Atoi(rawYear)
		if year < minFiscalYear || year > maxFiscalYear {
			v.Add("year", fmt.Sprintf("El año debe estar entre %d y %d.", minFiscalYear, maxFiscalYear))
			break
		}
		exists, err := s.repo.YearExists(ctx, year, excludeID)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("year", fmt.Sprintf("Ya existe un año fiscal registrado para %d.", year))
			break
		}
		result.Year = year
	}

	start, startOK := parseDate(input.StartDate)
	if !startOK {
		v.Add("start_date", "La fecha de inicio no es válida.")
	}
	end, endOK := parseDate(input.EndDate)
	if !endOK {
		v.Add("end_date", "La fecha de fin no es válida.")
	}
	if startOK && endOK {
		if !start.Before(end) {
			v.Add("end_date", "La fecha de inicio debe ser anterior a la fecha de fin.")
		} else if days := daysBetween(start, end); days < minFiscalYearDays || days > maxFiscalYearDays {
			v.Add("end_date", fmt.Sprintf(
				"La duración del año fiscal debe estar entre %d y %d días (actual: %d).", minFiscalYearDays, maxFiscalYearDays, days))
		}
	}
	result.StartDate = start
	result.EndDate = end

	status := model.FiscalYearStatus(strings.TrimSpace(input.Status))
	if status != model.FiscalYearActive && status != model.FiscalYearInactive {
		v.Add("status", "El estado debe ser activo o inactivo.")
	}
	result.Status = status

	if err := v.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
