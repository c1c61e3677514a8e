package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nurpe/market-leases/internal/model"
)

type CashRegisterService struct {
	repo  CashRegisterStore
	users UserStore
}

func NewCashRegisterService(repo CashRegisterStore, users UserStore) *CashRegisterService {
	return &CashRegisterService{repo: repo, users: users}
}

type CashRegisterInput struct {
	Name   string `form:"name" json:"name"`
	UserID string `form:"user_id" json:"user_id"`
	Status string `form:"status" json:"status"`
}

func CashRegisterInputFrom(register *model.CashRegister) CashRegisterInput {
	input := CashRegisterInput{Name: register.Name, Status: string(register.Status)}
	if register.UserID != nil {
		input.UserID = strconv.FormatInt(*register.UserID, 10)
	}
	return input
}

func (s *CashRegisterService) List(ctx context.Context, page model.Page) (model.Paged[model.CashRegister], error) {
	registers, total, err := s.repo.List(ctx, page)
	if err != nil {
		return model.Paged[model.CashRegister]{}, err
	}
	return model.NewPaged(registers, total, page), nil
}

func (s *CashRegisterService) Users(ctx context.Context) ([]model.User, error) {
	return s.users.ListActive(ctx)
}

func (s *CashRegisterService) Get(ctx context.Context, id int64) (*model.CashRegister, error) {
	register, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return register, nil
}

func (s *CashRegisterService) Create(ctx context.Context, input CashRegisterInput) (*model.CashRegister, error) {
	register, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

func (s *CashRegisterService) Update(ctx context.Context, id int64, input CashRegisterInput) (*model.CashRegister, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	register, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	register.ID = id
	if err := s.repo.Update(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

func (s *CashRegisterService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id))
}

func (s *CashRegisterService) validate(ctx context.Context, input CashRegisterInput) (*model.CashRegister, error) {
	v := &ValidationError{}
	register := &model.CashRegister{
		Name:   strings.TrimSpace(input.Name),
		Status: model.CashRegisterStatus(strings.TrimSpace(input.Status)),
	}

	switch n := utf8.RuneCountInString(register.Name); {
	case n == 0:
		v.Add("name", "El nombre de la caja es requerido.")
	case n > 100:
		v.Add("name", "El nombre de la caja no puede exceder 100 caracteres.")
	}

	if raw := strings.TrimSpace(input.UserID); raw != "" {
		userID, ok := parseID(raw)
		if !ok {
			v.Add("user_id", "El usuario asignado no es válido.")
		} else if _, err := s.users.Get(ctx, userID); err != nil {
			if notFound(err) != ErrNotFound {
				return nil, err
			}
			v.Add("user_id", "El usuario asignado no existe.")
		} else {
			register.UserID = &userID
		}
	}

	switch register.Status {
	case model.CashRegisterActive, model.CashRegisterInactive, model.CashRegisterMaintenance:
	default:
		v.Add("status", "El estado debe ser activo, inactivo o mantenimiento.")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return register, nil
}
